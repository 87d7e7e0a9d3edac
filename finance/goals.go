package finance

import (
	"fmt"
	"math"
	"time"

	"money-tracker-go-be/models"
)

// GoalProgress holds the figures derived from a savings goal at read time.
type GoalProgress struct {
	ProgressPercentage     float64 `json:"progressPercentage"`
	IsPastDue              bool    `json:"isPastDue"`
	RequiredMonthlySavings float64 `json:"requiredMonthlySavings"`
}

// Progress derives the read-only figures of g as of now. Once the target date
// has passed the whole remaining amount is due; otherwise it is spread over the
// calendar months left, with at least one month.
func Progress(g models.SavingsGoal, now time.Time) GoalProgress {
	remaining := math.Max(g.TargetAmount-g.CurrentAmount, 0)

	p := GoalProgress{
		ProgressPercentage: g.CurrentAmount * 100 / g.TargetAmount,
		IsPastDue:          !g.IsCompleted && now.After(g.TargetDate),
	}

	if now.After(g.TargetDate) {
		p.RequiredMonthlySavings = remaining
		return p
	}

	months := monthsBetween(now, g.TargetDate.In(now.Location()))
	if months < 1 {
		months = 1
	}
	p.RequiredMonthlySavings = remaining / float64(months)
	return p
}

// MarkCompleted flips g to completed when its current amount has reached the
// target. It reports true only on the transition, never for a goal that was
// already completed.
func MarkCompleted(g *models.SavingsGoal) bool {
	if g.IsCompleted || g.CurrentAmount < g.TargetAmount {
		return false
	}
	g.IsCompleted = true
	return true
}

// GoalCompletedNotification is created once, when a goal first reaches its target.
func GoalCompletedNotification(g models.SavingsGoal) models.Notification {
	return models.Notification{
		UserID:     g.UserID,
		Type:       models.NotificationGoalCompleted,
		Title:      "Saving Goal Achieved!",
		Message:    fmt.Sprintf("Congratulations! You've reached your saving goal for %q.", g.Name),
		RelatedTo:  models.RelatedGoal,
		RelatedID:  &g.ID,
		IsPriority: true,
	}
}
