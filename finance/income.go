package finance

import (
	"sort"
	"time"

	"money-tracker-go-be/models"
)

type MonthlyIncome struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type SourceIncome struct {
	Source models.IncomeSource `json:"source"`
	Total  float64             `json:"total"`
	Count  int                 `json:"count"`
}

type Tally struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

func (t *Tally) add(amount float64) {
	t.Total += amount
	t.Count++
}

type IncomeStatistics struct {
	MonthlyIncome  []MonthlyIncome `json:"monthlyIncome"`
	IncomeBySource []SourceIncome  `json:"incomeBySource"`
	CurrentMonth   Tally           `json:"currentMonth"`
	CurrentYear    Tally           `json:"currentYear"`
}

// IncomeStats summarises incomes: per-month and per-source totals over the
// twelve months up to now, plus running totals for now's month and year.
func IncomeStats(incomes []models.Income, now time.Time) IncomeStatistics {
	loc := now.Location()
	yearAgo := now.AddDate(-1, 0, 0)
	monthStart, monthEnd := MonthBounds(now)
	yearStart, yearEnd := PeriodBounds(now.Year(), 0, loc)

	type monthKey struct{ year, month int }
	byMonth := make(map[monthKey]*MonthlyIncome)
	bySource := make(map[models.IncomeSource]*SourceIncome)
	var stats IncomeStatistics

	for _, inc := range incomes {
		d := inc.Date.In(loc)

		if !d.Before(yearAgo) {
			k := monthKey{d.Year(), int(d.Month())}
			m, ok := byMonth[k]
			if !ok {
				m = &MonthlyIncome{Year: k.year, Month: k.month}
				byMonth[k] = m
			}
			m.Total += inc.Amount
			m.Count++

			s, ok := bySource[inc.Source]
			if !ok {
				s = &SourceIncome{Source: inc.Source}
				bySource[inc.Source] = s
			}
			s.Total += inc.Amount
			s.Count++
		}

		if within(d, monthStart, monthEnd) {
			stats.CurrentMonth.add(inc.Amount)
		}
		if within(d, yearStart, yearEnd) {
			stats.CurrentYear.add(inc.Amount)
		}
	}

	stats.MonthlyIncome = make([]MonthlyIncome, 0, len(byMonth))
	for _, m := range byMonth {
		stats.MonthlyIncome = append(stats.MonthlyIncome, *m)
	}
	sort.Slice(stats.MonthlyIncome, func(i, j int) bool {
		a, b := stats.MonthlyIncome[i], stats.MonthlyIncome[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	stats.IncomeBySource = make([]SourceIncome, 0, len(bySource))
	for _, s := range bySource {
		stats.IncomeBySource = append(stats.IncomeBySource, *s)
	}
	sort.Slice(stats.IncomeBySource, func(i, j int) bool {
		a, b := stats.IncomeBySource[i], stats.IncomeBySource[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Source < b.Source
	})

	return stats
}
