package finance

import (
	"fmt"
	"sort"
	"time"

	"money-tracker-go-be/models"
)

// spendingAlertPercent is the month-over-month increase that triggers an alert.
const spendingAlertPercent = 15

type SpendingTrends struct {
	CurrentMonthTotal    float64         `json:"currentMonthTotal"`
	LastMonthTotal       float64         `json:"lastMonthTotal"`
	MonthlyChange        float64         `json:"monthlyChange"`
	MostFrequentCategory models.Category `json:"mostFrequentCategory"`
	MostFrequentCount    int             `json:"mostFrequentCount"`
	HighestSpendCategory models.Category `json:"highestSpendCategory"`
	HighestSpendAmount   float64         `json:"highestSpendAmount"`
}

type Recommendation struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SpendingInsights struct {
	Trends          SpendingTrends   `json:"trends"`
	MonthlyTotals   []MonthTotal     `json:"monthlyTotals"`
	Recommendations []Recommendation `json:"recommendations"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthlyTotals groups transactions by YYYY-MM in loc, oldest month first.
func MonthlyTotals(txns []models.Transaction, loc *time.Location) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, t := range txns {
		key := MonthKey(t.Date.In(loc))
		m, ok := byMonth[key]
		if !ok {
			m = &MonthTotal{Month: key}
			byMonth[key] = m
		}
		m.Total += t.Amount
		m.Count++
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// PercentChange is the relative change from previous to current, 0 when there
// is no previous total to compare against.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Insights compares the current month with the previous one and finds the
// categories with the highest cumulative spend and the most transactions over
// all of txns. The two are chosen independently; ties go to the category seen
// first. MonthlyTotals keeps only the last months calendar months, or every
// month when months is 0 or less.
func Insights(txns []models.Transaction, now time.Time, months int) SpendingInsights {
	loc := now.Location()
	currentKey := MonthKey(now)
	lastKey := MonthKey(MonthsAgo(now, 1))

	all := MonthlyTotals(txns, loc)
	var trends SpendingTrends
	for _, m := range all {
		switch m.Month {
		case currentKey:
			trends.CurrentMonthTotal = m.Total
		case lastKey:
			trends.LastMonthTotal = m.Total
		}
	}
	trends.MonthlyChange = PercentChange(trends.CurrentMonthTotal, trends.LastMonthTotal)

	type summary struct {
		count int
		total float64
	}
	var order []models.Category
	byCategory := make(map[models.Category]*summary)
	for _, t := range txns {
		s, ok := byCategory[t.Category]
		if !ok {
			s = &summary{}
			byCategory[t.Category] = s
			order = append(order, t.Category)
		}
		s.count++
		s.total += t.Amount
	}
	for _, c := range order {
		s := byCategory[c]
		if s.count > trends.MostFrequentCount {
			trends.MostFrequentCount = s.count
			trends.MostFrequentCategory = c
		}
		if s.total > trends.HighestSpendAmount {
			trends.HighestSpendAmount = s.total
			trends.HighestSpendCategory = c
		}
	}

	monthly := all
	if months > 0 {
		oldest := MonthKey(MonthsAgo(now, months-1))
		monthly = make([]MonthTotal, 0, months)
		for _, m := range all {
			if m.Month >= oldest && m.Month <= currentKey {
				monthly = append(monthly, m)
			}
		}
	}

	return SpendingInsights{
		Trends:          trends,
		MonthlyTotals:   monthly,
		Recommendations: recommend(trends),
	}
}

func recommend(t SpendingTrends) []Recommendation {
	var recs []Recommendation
	if t.MonthlyChange > spendingAlertPercent {
		recs = append(recs, Recommendation{
			ID:      1,
			Title:   "Spending Increase Alert",
			Content: fmt.Sprintf("Your spending has increased by %.1f%% compared to last month. Consider reviewing your expenses to identify areas for reduction.", t.MonthlyChange),
		})
	}
	if t.HighestSpendCategory != "" {
		recs = append(recs, Recommendation{
			ID:      2,
			Title:   fmt.Sprintf("High %s Expenses", t.HighestSpendCategory),
			Content: fmt.Sprintf("%s is your highest expense category. Setting a budget limit for this category could help you control your spending.", t.HighestSpendCategory),
		})
	}
	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			ID:      3,
			Title:   "Build Your Emergency Fund",
			Content: "Financial experts recommend having 3-6 months of expenses saved for emergencies. Track your progress in the Budget section.",
		})
	}
	return recs
}
