package finance

import (
	"fmt"
	"time"

	"money-tracker-go-be/models"
)

// Status classifies how much of a budget limit has been used.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

const (
	warningPercent  = 80
	exceededPercent = 100
)

func (s Status) severity() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusExceeded:
		return 2
	}
	return 0
}

// Classify maps a used percentage onto a Status.
func Classify(percentUsed float64) Status {
	switch {
	case percentUsed >= exceededPercent:
		return StatusExceeded
	case percentUsed >= warningPercent:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// PercentUsed is spent as a percentage of limit. limit is positive by construction.
func PercentUsed(spent, limit float64) float64 {
	return spent * 100 / limit
}

type CategoryBudget struct {
	ID          string          `json:"id"`
	Category    models.Category `json:"category"`
	Limit       float64         `json:"limit"`
	Spent       float64         `json:"spent"`
	Remaining   float64         `json:"remaining"`
	PercentUsed float64         `json:"percentUsed"`
	Status      Status          `json:"status"`
}

type BudgetReport struct {
	BudgetStatus []CategoryBudget `json:"budgetStatus"`
	Month        string           `json:"month"`
}

// SpentByCategory sums transaction amounts per category.
func SpentByCategory(txns []models.Transaction) map[models.Category]float64 {
	spent := make(map[models.Category]float64)
	for _, t := range txns {
		spent[t.Category] += t.Amount
	}
	return spent
}

// BudgetStatus compares each limit with the spending of now's calendar month.
// Transactions outside that month are ignored and categories without a limit
// are not reported. Output follows the order of limits.
func BudgetStatus(limits []models.BudgetLimit, txns []models.Transaction, now time.Time) BudgetReport {
	from, to := MonthBounds(now)

	current := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if within(t.Date.In(now.Location()), from, to) {
			current = append(current, t)
		}
	}
	spent := SpentByCategory(current)

	items := make([]CategoryBudget, 0, len(limits))
	for _, l := range limits {
		s := spent[l.Category]
		pct := PercentUsed(s, l.Amount)
		items = append(items, CategoryBudget{
			ID:          l.ID.String(),
			Category:    l.Category,
			Limit:       l.Amount,
			Spent:       s,
			Remaining:   l.Amount - s,
			PercentUsed: pct,
			Status:      Classify(pct),
		})
	}

	return BudgetReport{BudgetStatus: items, Month: MonthKey(now)}
}

// BudgetAlert reports whether moving a category's month spend from before to
// after pushes it into a more severe, non-normal status.
func BudgetAlert(limit, before, after float64) (Status, bool) {
	prev := Classify(PercentUsed(before, limit))
	next := Classify(PercentUsed(after, limit))
	if next == StatusNormal || next.severity() <= prev.severity() {
		return next, false
	}
	return next, true
}

// BudgetAlertNotification builds the notification for a threshold crossing.
func BudgetAlertNotification(l models.BudgetLimit, status Status, spent float64) models.Notification {
	n := models.Notification{
		UserID:    l.UserID,
		Type:      models.NotificationBudgetAlert,
		RelatedTo: models.RelatedBudget,
		RelatedID: &l.ID,
	}
	pct := PercentUsed(spent, l.Amount)
	if status == StatusExceeded {
		n.Title = fmt.Sprintf("%s budget exceeded", l.Category)
		n.Message = fmt.Sprintf("You have spent ₹%.2f of your ₹%.2f %s budget this month (%.0f%%).", spent, l.Amount, l.Category, pct)
		n.IsPriority = true
	} else {
		n.Title = fmt.Sprintf("%s budget almost used", l.Category)
		n.Message = fmt.Sprintf("You have used %.0f%% of your ₹%.2f %s budget this month.", pct, l.Amount, l.Category)
	}
	return n
}

type Tip struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

var generalTips = []Tip{
	{ID: 1, Title: "Follow the 50/30/20 Rule", Content: "Try to allocate 50% of your income to needs, 30% to wants, and 20% to savings and debt repayment."},
	{ID: 2, Title: "Track Every Expense", Content: "Record all transactions to understand your spending patterns and identify areas for improvement."},
	{ID: 3, Title: "Use Cash for Discretionary Spending", Content: "Using cash instead of cards for non-essential purchases can help you be more mindful of your spending."},
	{ID: 4, Title: "Review Your Budget Regularly", Content: "Check your budget at least once a week to stay on track and make adjustments as needed."},
}

// BudgetTips returns the general tips followed by one tip per category that is
// in warning or exceeded state.
func BudgetTips(report BudgetReport) []Tip {
	tips := append([]Tip(nil), generalTips...)
	next := len(tips) + 1
	for _, b := range report.BudgetStatus {
		switch b.Status {
		case StatusExceeded:
			tips = append(tips, Tip{
				ID:      next,
				Title:   fmt.Sprintf("Rein In %s Spending", b.Category),
				Content: fmt.Sprintf("You are ₹%.2f over your %s budget for %s. Pause non-essential %s purchases until next month.", -b.Remaining, b.Category, report.Month, b.Category),
			})
		case StatusWarning:
			tips = append(tips, Tip{
				ID:      next,
				Title:   fmt.Sprintf("Watch Your %s Budget", b.Category),
				Content: fmt.Sprintf("Only ₹%.2f left in your %s budget for %s.", b.Remaining, b.Category, report.Month),
			})
		default:
			continue
		}
		next++
	}
	return tips
}
