package intent

import (
	"strconv"
	"strings"
	"unicode"

	"gastos/internal/core"
)

// Match classifies message. Patterns are tried in a fixed order and the first
// match wins: expense, income, fixed-phrase queries, the per-category monthly
// query, and finally Unrecognized.
func Match(message string) Intent {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(message)))
	if len(tokens) == 0 {
		return Unrecognized{}
	}

	if in, ok := matchExpense(tokens); ok {
		return in
	}
	if in, ok := matchIncome(tokens); ok {
		return in
	}
	if in, ok := fixedPhrases[strings.Join(tokens, " ")]; ok {
		return in
	}
	if in, ok := matchCategoryMonth(tokens); ok {
		return in
	}
	return Unrecognized{}
}

func matchExpense(tokens []string) (Intent, bool) {
	amount, rest, ok := afterTrigger(tokens, expenseTriggers)
	if !ok {
		return nil, false
	}
	account, ok := findAccount(rest)
	if !ok {
		return nil, false
	}

	e := LogExpense{
		Amount:       amount,
		Account:      account,
		Category:     DefaultOr(findCategory(rest), core.DefaultExpenseCategory),
		Store:        DefaultOr(findStore(rest), core.DefaultStore),
		Installments: 1,
	}
	if n, raw, found := findInstallments(rest); found {
		if raw != "" {
			e.InstallmentsText = raw
		} else {
			e.Installments = n
		}
	}
	return e, true
}

func matchIncome(tokens []string) (Intent, bool) {
	amount, rest, ok := afterTrigger(tokens, incomeTriggers)
	if !ok {
		return nil, false
	}
	return LogIncome{
		Amount:   amount,
		Category: DefaultOr(findCategory(rest), core.DefaultIncomeCategory),
	}, true
}

func matchCategoryMonth(tokens []string) (Intent, bool) {
	for _, p := range categoryMonthPatterns {
		if len(tokens) < 2+len(p.suffix) || tokens[0] != p.prefix {
			continue
		}
		category := tokens[1]
		if word(category) != category {
			continue
		}
		if equalTokens(tokens[2:2+len(p.suffix)], p.suffix) {
			return ExpensesByCategoryThisMonth{Category: category}, true
		}
	}
	return nil, false
}

// afterTrigger finds the first trigger word followed by a money literal and
// returns the literal and the tokens after it. "spent 50" and "spent50" both match.
func afterTrigger(tokens []string, triggers set) (string, []string, bool) {
	for i, tok := range tokens {
		if triggers.has(tok) {
			if i+1 < len(tokens) {
				if amount := moneyPrefix(tokens[i+1]); amount != "" {
					return amount, tokens[i+2:], true
				}
			}
			continue
		}
		for trigger := range triggers {
			if strings.HasPrefix(tok, trigger) {
				if amount := moneyPrefix(tok[len(trigger):]); amount != "" {
					return amount, tokens[i+1:], true
				}
			}
		}
	}
	return "", nil, false
}

// findAccount locates "<on|no|na> [card] <name>". When the phrase occurs more
// than once the last one names the account, so "spent 50 on groceries on
// nubank" is charged to nubank.
func findAccount(rest []string) (account string, found bool) {
	for i, tok := range rest {
		if !accountKeywords.has(tok) {
			continue
		}
		j := i + 1
		if j+1 < len(rest) && cardWords.has(rest[j]) {
			j++
		}
		if j >= len(rest) {
			continue
		}
		if name := word(rest[j]); name != "" && !isClauseKeyword(name) {
			account, found = name, true
		}
	}
	return account, found
}

func findCategory(rest []string) string {
	for i, tok := range rest {
		if categoryKeywords.has(tok) && i+1 < len(rest) {
			if name := word(rest[i+1]); name != "" {
				return name
			}
		}
	}
	return ""
}

// findStore returns the free text after a store keyword, up to the next clause keyword.
func findStore(rest []string) string {
	for i, tok := range rest {
		if !storeKeywords.has(tok) {
			continue
		}
		var words []string
		for _, w := range rest[i+1:] {
			if isClauseKeyword(w) {
				break
			}
			words = append(words, w)
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// findInstallments looks for "<split|parcelado|parc> [in|em] N[x]". Only a
// token starting with a digit counts as an installment count; if it is not a
// usable positive integer it is returned raw.
func findInstallments(rest []string) (n int, raw string, found bool) {
	for i, tok := range rest {
		if !installmentKeywords.has(tok) {
			continue
		}
		j := i + 1
		if j < len(rest) && installmentJoiners.has(rest[j]) {
			j++
		}
		if j >= len(rest) || rest[j] == "" || !isDigit(rune(rest[j][0])) {
			continue
		}
		text := rest[j]
		count, err := strconv.Atoi(strings.TrimSuffix(text, "x"))
		if err != nil || count < 1 {
			return 0, text, true
		}
		return count, "", true
	}
	return 0, "", false
}

// moneyPrefix returns the leading run of digits, commas and periods of tok.
func moneyPrefix(tok string) string {
	end := 0
	for end < len(tok) && (isDigit(rune(tok[end])) || tok[end] == ',' || tok[end] == '.') {
		end++
	}
	return tok[:end]
}

// word returns the leading run of letters, digits and underscores of tok.
func word(tok string) string {
	end := len(tok)
	for i, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			end = i
			break
		}
	}
	return tok[:end]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DefaultOr returns v, or def when v is empty.
func DefaultOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
