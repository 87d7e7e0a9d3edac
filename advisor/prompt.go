package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

// Snapshot is the slice of a user's data the advice prompt is built from.
type Snapshot struct {
	Transactions []models.Transaction
	Budgets      []models.BudgetLimit
	Goals        []models.SavingsGoal
	Incomes      []models.Income
}

func BuildAdvicePrompt(s Snapshot) string {
	var b strings.Builder
	b.WriteString("As a financial advisor, analyze the following financial data and provide personalized advice:\n\n")

	var spent, earned float64
	if len(s.Transactions) > 0 {
		byCategory := finance.SpentByCategory(s.Transactions)
		b.WriteString("Recent transactions by category:\n")
		for _, c := range models.Categories() {
			if amount, ok := byCategory[c]; ok {
				fmt.Fprintf(&b, "- %s: ₹%s\n", c, rupees(amount))
				spent += amount
			}
		}
		b.WriteString("\n")
	}

	if len(s.Budgets) > 0 {
		b.WriteString("Budget limits:\n")
		for _, l := range s.Budgets {
			fmt.Fprintf(&b, "- %s: ₹%s\n", l.Category, rupees(l.Amount))
		}
		b.WriteString("\n")
	}

	if len(s.Goals) > 0 {
		b.WriteString("Savings goals:\n")
		for _, g := range s.Goals {
			fmt.Fprintf(&b, "- %s: ₹%s saved of ₹%s target (%.1f%%)\n",
				g.Name, rupees(g.CurrentAmount), rupees(g.TargetAmount), g.CurrentAmount*100/g.TargetAmount)
		}
		b.WriteString("\n")
	}

	for _, inc := range s.Incomes {
		earned += inc.Amount
	}
	rate := 0.0
	if earned > 0 {
		rate = (earned - spent) * 100 / earned
	}
	fmt.Fprintf(&b, "Monthly income: ₹%s\n", rupees(earned))
	fmt.Fprintf(&b, "Monthly expenses: ₹%s\n", rupees(spent))
	fmt.Fprintf(&b, "Savings rate: %.1f%%\n\n", rate)

	b.WriteString(`Based on this information, please provide:
1. A brief assessment of the current financial situation
2. 3-5 specific, actionable recommendations to improve financial health
3. Suggestions for optimizing spending in high-expense categories
4. Savings strategies aligned with the stated goals
5. Any potential concerns or risks in the current financial pattern

Please format your response as clear bullet points with practical, specific advice.
`)
	return b.String()
}

// QuestionPrompt frames a free-form user question for the model.
func QuestionPrompt(question string) string {
	return fmt.Sprintf("As a financial advisor, please answer this question in the context of personal finance in India: %s\n\nProvide clear, practical, and specific advice.", strings.TrimSpace(question))
}

func rupees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
