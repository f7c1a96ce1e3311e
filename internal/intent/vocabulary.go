package intent

// Keyword sets accept the English commands and the Portuguese ones the bot
// was first deployed with.
var (
	expenseTriggers     = wordSet("spent", "gastei")
	incomeTriggers      = wordSet("received", "recebi")
	accountKeywords     = wordSet("on", "no", "na")
	cardWords           = wordSet("card", "cartão", "cartao")
	categoryKeywords    = wordSet("category", "categoria", "cat")
	storeKeywords       = wordSet("store", "loja")
	installmentKeywords = wordSet("split", "parcelado", "parc")
	installmentJoiners  = wordSet("in", "em")
)

// fixedPhrases maps whole, whitespace-normalised messages to their intent.
var fixedPhrases = map[string]Intent{
	"recent expenses": RecentExpenses{},
	"ultimos gastos":  RecentExpenses{},
	"últimos gastos":  RecentExpenses{},

	"expenses today": ExpensesToday{},
	"gastos hoje":    ExpensesToday{},

	"expenses month":      ExpensesThisMonth{},
	"expenses this month": ExpensesThisMonth{},
	"gastos mes":          ExpensesThisMonth{},
	"gastos mês":          ExpensesThisMonth{},
	"gastos este mes":     ExpensesThisMonth{},
	"gastos este mês":     ExpensesThisMonth{},

	"summary category": SummaryByCategory{},
	"resumo categoria": SummaryByCategory{},

	"summary payment method":    SummaryByPaymentMethod{},
	"summary paymentmethod":     SummaryByPaymentMethod{},
	"resumo forma de pagamento": SummaryByPaymentMethod{},
	"resumo formapagamento":     SummaryByPaymentMethod{},

	"summary account": SummaryByAccount{},
	"resumo conta":    SummaryByAccount{},

	"help":     Help{},
	"commands": Help{},
	"ajuda":    Help{},
	"comandos": Help{},
}

// categoryMonthPatterns are the "<prefix> <category> <suffix...>" forms of the
// per-category monthly query.
var categoryMonthPatterns = []struct {
	prefix string
	suffix []string
}{
	{prefix: "expenses", suffix: []string{"this", "month"}},
	{prefix: "gastos", suffix: []string{"este", "mes"}},
	{prefix: "gastos", suffix: []string{"este", "mês"}},
}

type set map[string]struct{}

func wordSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}

// isClauseKeyword reports whether w starts an expense clause; free-text store
// names stop there.
func isClauseKeyword(w string) bool {
	return accountKeywords.has(w) || categoryKeywords.has(w) ||
		storeKeywords.has(w) || installmentKeywords.has(w)
}
