package advisor

import (
	"strings"
	"testing"
	"time"

	"money-tracker-go-be/models"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Save more.  ", "Save more."},
		{"markdown tag", "```markdown\n- Save more\n```", "- Save more"},
		{"bare fence", "```\n- Save more\n```\n", "- Save more"},
		{"single line", "```Save more```", "Save more"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildAdvicePrompt(t *testing.T) {
	s := Snapshot{
		Transactions: []models.Transaction{
			{Amount: 300, Category: models.CategoryFood},
			{Amount: 200, Category: models.CategoryFood},
			{Amount: 500, Category: models.CategoryBills},
		},
		Budgets: []models.BudgetLimit{{Category: models.CategoryFood, Amount: 4000}},
		Goals:   []models.SavingsGoal{{Name: "Trip", CurrentAmount: 2500, TargetAmount: 10000}},
		Incomes: []models.Income{{Amount: 4000}},
	}
	prompt := BuildAdvicePrompt(s)

	for _, want := range []string{
		"- Food: ₹500\n",
		"- Bills: ₹500\n",
		"Budget limits:\n- Food: ₹4000\n",
		"- Trip: ₹2500 saved of ₹10000 target (25.0%)",
		"Monthly income: ₹4000",
		"Monthly expenses: ₹1000",
		"Savings rate: 75.0%",
		"5. Any potential concerns or risks",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n%s", want, prompt)
		}
	}
}

func TestBuildAdvicePromptEmpty(t *testing.T) {
	prompt := BuildAdvicePrompt(Snapshot{})
	if strings.Contains(prompt, "Budget limits") || !strings.Contains(prompt, "Savings rate: 0.0%") {
		t.Errorf("unexpected prompt for empty snapshot:\n%s", prompt)
	}
}

func TestQuestionPrompt(t *testing.T) {
	got := QuestionPrompt("  Should I buy gold?  ")
	if !strings.HasPrefix(got, "As a financial advisor, please answer this question in the context of personal finance in India: Should I buy gold?") {
		t.Errorf("QuestionPrompt = %q", got)
	}
}

func TestCache(t *testing.T) {
	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache[string](2, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "advice a")
	c.Set("b", "advice b")
	if got, ok := c.Get("a"); !ok || got != "advice a" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}

	// "b" is now least recently used.
	c.Set("c", "advice c")
	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("a survived its TTL")
	}

	c.Set("d", "advice d")
	c.Delete("d")
	if _, ok := c.Get("d"); ok {
		t.Error("d survived Delete")
	}
}
