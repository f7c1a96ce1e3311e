package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InstallmentStepDays approximates one month between installments.
const InstallmentStepDays = 30

// Installment is one dated part of a purchase.
type Installment struct {
	Number int // 1-based
	Count  int
	Amount decimal.Decimal
	Date   Date
}

// IsSplit reports whether the installment belongs to a series of more than one part.
func (i Installment) IsSplit() bool {
	return i.Count > 1
}

// Annotate appends the "(Part i/N)" marker to desc for split purchases.
func (i Installment) Annotate(desc string) string {
	if !i.IsSplit() {
		return desc
	}
	return fmt.Sprintf("%s (Part %d/%d)", desc, i.Number, i.Count)
}

// SplitInstallments divides total into n parts dated every 30 days from purchase.
// Every part but the last is total/n rounded to cents; the last absorbs the
// remainder so the parts always sum to total exactly. A total too small to give
// every part at least one cent is rejected.
func SplitInstallments(total decimal.Decimal, n int, purchase Date) ([]Installment, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, ErrInvalidInstallments)
	}
	total = total.Round(2)
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if n == 1 {
		return []Installment{{Number: 1, Count: 1, Amount: total, Date: purchase}}, nil
	}

	part := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	last := total.Sub(part.Mul(decimal.NewFromInt(int64(n - 1))))
	if !part.IsPositive() || !last.IsPositive() {
		return nil, fmt.Errorf("%w: %w: %s in %d parts", ErrInvalidAmount, ErrInvalidInstallments, FormatAmount(total), n)
	}
	parts := make([]Installment, n)
	allocated := decimal.Zero
	for i := 0; i < n; i++ {
		amount := part
		if i == n-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		parts[i] = Installment{
			Number: i + 1,
			Count:  n,
			Amount: amount,
			Date:   purchase.AddDays(InstallmentStepDays * i),
		}
	}
	return parts, nil
}
