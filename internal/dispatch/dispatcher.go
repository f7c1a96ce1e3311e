// Package dispatch turns a chat message into ledger writes or queries and
// renders the reply text.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/intent"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// DefaultRecentLimit is how many rows "recent expenses" lists.
const DefaultRecentLimit = 5

var errPanic = errors.New("recovered panic")

// Dispatcher routes matched intents to the ledger. It holds no per-message
// state and is safe for concurrent use when its store is.
type Dispatcher struct {
	store  ledger.Store
	now    func() time.Time
	loc    *time.Location
	recent int
	log    *log.Logger
}

type Option func(*Dispatcher)

// WithClock sets the source of the current time. Entries are dated with it.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLocation sets the time zone used to turn the clock into a calendar date.
func WithLocation(loc *time.Location) Option {
	return func(d *Dispatcher) {
		if loc != nil {
			d.loc = loc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l.WithComponent(log.ComponentDispatch)
		}
	}
}

// WithRecentLimit overrides DefaultRecentLimit. Values below 1 are ignored.
func WithRecentLimit(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.recent = n
		}
	}
}

func New(store ledger.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		recent: DefaultRecentLimit,
		log:    log.New(log.DefaultConfig()).WithComponent(log.ComponentDispatch),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle returns the reply for text. It never panics.
func (d *Dispatcher) Handle(ctx context.Context, text string) string {
	return d.Reply(ctx, text).Reply
}

// Reply classifies text, executes it and reports how it went.
func (d *Dispatcher) Reply(ctx context.Context, text string) (out Outcome) {
	h := handler{op: "match", subject: "processing your message"}
	defer func() {
		if r := recover(); r != nil {
			out = d.failed(ctx, "unknown", h, fmt.Errorf("%w: %v", errPanic, r))
		}
	}()
	return d.run(ctx, intent.Match(text))
}

// handler is one intent bound to its arguments.
type handler struct {
	op      string
	subject string // completes "while ..." in failure replies
	invalid string
	run     func(ctx context.Context) (string, error)
}

func (d *Dispatcher) run(ctx context.Context, in intent.Intent) (out Outcome) {
	h := d.handlerFor(in, core.DateOf(d.now().In(d.loc)))
	defer func() {
		if r := recover(); r != nil {
			out = d.failed(ctx, in.Name(), h, fmt.Errorf("%w: %v", errPanic, r))
		}
	}()

	reply, err := h.run(ctx)
	if err != nil {
		return d.failed(ctx, in.Name(), h, err)
	}
	log.FromContext(ctx, d.log).DebugContext(ctx, "Message handled",
		log.NewFields().WithIntent(in.Name()).WithOperation(h.op).ToSlice()...)
	return Outcome{Reply: reply, Kind: OK}
}

func (d *Dispatcher) handlerFor(in intent.Intent, today core.Date) handler {
	switch in := in.(type) {
	case intent.LogExpense:
		return handler{op: "write_expense", subject: "saving your expense", invalid: msgInvalidExpense,
			run: func(ctx context.Context) (string, error) { return d.logExpense(ctx, in, today) }}
	case intent.LogIncome:
		return handler{op: "write_income", subject: "saving your income", invalid: msgInvalidIncome,
			run: func(ctx context.Context) (string, error) { return d.logIncome(ctx, in, today) }}
	case intent.RecentExpenses:
		return handler{op: "recent_expenses", subject: "fetching recent expenses", run: d.recentExpenses}
	case intent.ExpensesToday:
		return handler{op: "expenses_on_date", subject: "fetching today's expenses",
			run: func(ctx context.Context) (string, error) { return d.expensesToday(ctx, today) }}
	case intent.ExpensesThisMonth:
		return handler{op: "expenses_this_month", subject: "fetching this month's expenses",
			run: func(ctx context.Context) (string, error) { return d.expensesThisMonth(ctx, today) }}
	case intent.ExpensesByCategoryThisMonth:
		return handler{op: "expenses_by_category", subject: fmt.Sprintf("fetching expenses for '%s'", in.Category),
			run: func(ctx context.Context) (string, error) { return d.categoryThisMonth(ctx, in.Category, today) }}
	case intent.SummaryByCategory:
		return handler{op: "summary_by_category", subject: "building the summary by category",
			run: func(ctx context.Context) (string, error) {
				return d.summary(ctx, d.store.SummaryByCategory, "Summary by category:", msgNoneByCategory)
			}}
	case intent.SummaryByPaymentMethod:
		return handler{op: "summary_by_payment_method", subject: "building the summary by payment method",
			run: func(ctx context.Context) (string, error) {
				return d.summary(ctx, d.store.SummaryByPaymentMethod, "Summary by payment method:", msgNoneByMethod)
			}}
	case intent.SummaryByAccount:
		return handler{op: "summary_by_account", subject: "building the summary by account",
			run: func(ctx context.Context) (string, error) {
				return d.summary(ctx, d.store.SummaryByAccount, "Summary by account:", msgNoneByAccount)
			}}
	case intent.Help:
		return static("help", msgHelp)
	default:
		return static("unrecognized", msgUnrecognized)
	}
}

func static(op, reply string) handler {
	return handler{op: op, subject: "processing your message",
		run: func(context.Context) (string, error) { return reply, nil }}
}

func (d *Dispatcher) failed(ctx context.Context, name string, h handler, err error) Outcome {
	kind := classify(err)
	fields := log.NewFields().WithIntent(name).WithOperation(h.op)
	logger := log.FromContext(ctx, d.log)

	var reply string
	switch kind {
	case InvalidAmount:
		reply = h.invalid
		if reply == "" {
			reply = msgInvalidExpense
		}
		logger.WarnContext(ctx, "Rejected message", fields.WithError(err, log.ErrorTypeValidation).ToSlice()...)
	case StoreFailure:
		reply = fmt.Sprintf(msgStoreFailure, h.subject)
		logger.ErrorContext(ctx, "Ledger store failed", fields.WithError(err, log.ErrorTypeDatabase).ToSlice()...)
	default:
		kind = UnexpectedFailure
		reply = fmt.Sprintf(msgUnexpected, h.subject)
		logger.ErrorContext(ctx, "Unexpected failure", fields.WithError(err, log.ErrorTypeInternal).ToSlice()...)
	}
	return Outcome{Reply: reply, Kind: kind, Err: err}
}

func (d *Dispatcher) logExpense(ctx context.Context, e intent.LogExpense, today core.Date) (string, error) {
	amount, err := core.ParseAmount(e.Amount)
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", e.Amount, err)
	}
	if e.InstallmentsText != "" {
		return "", fmt.Errorf("installments %q: %w", e.InstallmentsText, core.ErrInvalidAmount)
	}
	parts, err := core.SplitInstallments(amount, e.Installments, today)
	if err != nil {
		return "", fmt.Errorf("split %s in %d: %w", core.FormatAmount(amount), e.Installments, err)
	}

	desc := capitalize(e.Category) + " - " + capitalize(e.Store)
	for _, p := range parts {
		entry := core.ExpenseEntry{
			Description:      p.Annotate(desc),
			Amount:           p.Amount,
			Category:         e.Category,
			PaymentMethod:    core.PaymentCredit,
			Account:          e.Account,
			Date:             p.Date,
			IsInstallment:    p.IsSplit(),
			InstallmentCount: p.Count,
		}
		if err := d.store.WriteExpense(ctx, entry); err != nil {
			return "", fmt.Errorf("write installment %d/%d: %w", p.Number, p.Count, err)
		}
	}

	if len(parts) > 1 {
		return fmt.Sprintf(msgExpenseSplit, core.FormatMoney(amount), len(parts), core.FormatMoney(parts[0].Amount),
			e.Category, e.Account, e.Store), nil
	}
	return fmt.Sprintf(msgExpense, core.FormatMoney(amount), e.Category, e.Account, e.Store), nil
}

func (d *Dispatcher) logIncome(ctx context.Context, e intent.LogIncome, today core.Date) (string, error) {
	amount, err := core.ParseAmount(e.Amount)
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", e.Amount, err)
	}
	entry := core.IncomeEntry{
		Description: "Income - " + capitalize(e.Category),
		Amount:      amount,
		Date:        today,
	}
	if err := d.store.WriteIncome(ctx, entry); err != nil {
		return "", fmt.Errorf("write income: %w", err)
	}
	return fmt.Sprintf(msgIncome, core.FormatMoney(amount), e.Category), nil
}

func (d *Dispatcher) recentExpenses(ctx context.Context) (string, error) {
	lines, err := d.store.RecentExpenses(ctx, d.recent)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return msgNoRecent, nil
	}
	var b strings.Builder
	b.WriteString("Recent expenses:")
	for _, l := range lines {
		fmt.Fprintf(&b, "\n%s - %s: %s", l.Date, l.Description, core.FormatMoney(l.Amount))
	}
	return b.String(), nil
}

func (d *Dispatcher) expensesToday(ctx context.Context, today core.Date) (string, error) {
	lines, err := d.store.ExpensesOnDate(ctx, today)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return fmt.Sprintf(msgNoneToday, today), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Expenses for today (%s):", today)
	for _, l := range lines {
		fmt.Fprintf(&b, "\n- %s (%s): %s", l.Description, l.Category, core.FormatMoney(l.Amount))
	}
	fmt.Fprintf(&b, "\n\nTotal today: %s", core.FormatMoney(core.SumLines(lines)))
	return b.String(), nil
}

func (d *Dispatcher) expensesThisMonth(ctx context.Context, today core.Date) (string, error) {
	lines, err := d.store.ExpensesThisMonth(ctx, today)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return msgNoneThisMonth, nil
	}
	var b strings.Builder
	b.WriteString("Expenses this month:")
	for _, l := range lines {
		fmt.Fprintf(&b, "\n%s - %s (%s): %s", l.Date, l.Description, l.Category, core.FormatMoney(l.Amount))
	}
	fmt.Fprintf(&b, "\n\nTotal this month: %s", core.FormatMoney(core.SumLines(lines)))
	return b.String(), nil
}

func (d *Dispatcher) categoryThisMonth(ctx context.Context, category string, today core.Date) (string, error) {
	start, end := today.MonthRange()
	lines, err := d.store.ExpensesByCategoryInRange(ctx, category, start, end)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return fmt.Sprintf(msgNoneCategoryMonth, category), nil
	}
	title := capitalize(category)
	var b strings.Builder
	fmt.Fprintf(&b, "Expenses for '%s' this month:", title)
	for _, l := range lines {
		fmt.Fprintf(&b, "\n%s - %s: %s", l.Date, l.Description, core.FormatMoney(l.Amount))
	}
	fmt.Fprintf(&b, "\n\nTotal '%s': %s", title, core.FormatMoney(core.SumLines(lines)))
	return b.String(), nil
}

func (d *Dispatcher) summary(ctx context.Context, query func(context.Context) ([]core.KeyTotal, error), title, empty string) (string, error) {
	totals, err := query(ctx)
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return empty, nil
	}
	var b strings.Builder
	b.WriteString(title)
	for _, t := range totals {
		fmt.Fprintf(&b, "\n- %s: %s", t.Key, core.FormatMoney(t.Amount))
	}
	return b.String(), nil
}
