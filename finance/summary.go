package finance

import (
	"money-tracker-go-be/models"
)

type CategoryTotal struct {
	Category models.Category `json:"category"`
	Total    float64         `json:"total"`
	Count    int             `json:"count"`
	GST      float64         `json:"gst"`
}

// Summary is the report for one period.
type Summary struct {
	Period      string          `json:"period"`
	TotalSpent  float64         `json:"totalSpent"`
	TotalIncome float64         `json:"totalIncome"`
	Net         float64         `json:"net"`
	Count       int             `json:"transactionCount"`
	TotalGST    float64         `json:"totalGst"`
	ByCategory  []CategoryTotal `json:"byCategory"`
}

// Summarize totals spending, income and GST paid for a period. ByCategory
// lists only categories with spending, in the fixed category order.
func Summarize(period string, txns []models.Transaction, incomes []models.Income) Summary {
	s := Summary{Period: period}

	byCategory := make(map[models.Category]*CategoryTotal)
	for _, t := range txns {
		c, ok := byCategory[t.Category]
		if !ok {
			c = &CategoryTotal{Category: t.Category}
			byCategory[t.Category] = c
		}
		tax := TransactionGST(t).Tax
		c.Total += t.Amount
		c.Count++
		c.GST += tax

		s.TotalSpent += t.Amount
		s.TotalGST += tax
		s.Count++
	}
	for _, inc := range incomes {
		s.TotalIncome += inc.Amount
	}
	s.Net = s.TotalIncome - s.TotalSpent

	s.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for _, cat := range models.Categories() {
		if c, ok := byCategory[cat]; ok {
			s.ByCategory = append(s.ByCategory, *c)
		}
	}
	return s
}
