package finance

import (
	"github.com/shopspring/decimal"

	"money-tracker-go-be/models"
)

// GSTBreakdown splits a GST-inclusive amount into its pre-tax base and tax.
type GSTBreakdown struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"gstRate"`
	Base   float64 `json:"baseAmount"`
	Tax    float64 `json:"gstAmount"`
}

var hundred = decimal.NewFromInt(100)

// SplitGST computes base = amount*100/(100+rate) rounded to paise and
// tax = amount - base, so Base+Tax always adds back up to Amount.
func SplitGST(amount, rate float64) GSTBreakdown {
	total := decimal.NewFromFloat(amount)
	base := total.Mul(hundred).Div(hundred.Add(decimal.NewFromFloat(rate))).Round(2)
	tax := total.Sub(base)

	return GSTBreakdown{
		Amount: amount,
		Rate:   rate,
		Base:   base.InexactFloat64(),
		Tax:    tax.InexactFloat64(),
	}
}

// TransactionGST breaks down a stored transaction using its recorded rate.
func TransactionGST(t models.Transaction) GSTBreakdown {
	return SplitGST(t.Amount, t.GSTRate)
}
