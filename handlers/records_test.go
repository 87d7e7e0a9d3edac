package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"

	"money-tracker-go-be/models"
)

func pinnedClock(now time.Time) func(*Options) {
	return func(o *Options) { o.Now = func() time.Time { return now } }
}

func mustCreate(t *testing.T, s *testServer, path, token string, body fiber.Map, key string) map[string]any {
	t.Helper()
	status, resp := s.call(t, http.MethodPost, path, token, body)
	if status != fiber.StatusCreated {
		t.Fatalf("POST %s: status %d, body %v", path, status, resp)
	}
	return data(t, resp)[key].(map[string]any)
}

func list(t *testing.T, s *testServer, path, token, key string) []any {
	t.Helper()
	status, resp := s.call(t, http.MethodGet, path, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET %s: status %d, body %v", path, status, resp)
	}
	return data(t, resp)[key].([]any)
}

func TestSignupStoresBareAddress(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signup(t, "Bob <Bob@Example.com>")

	_, body := s.call(t, http.MethodGet, "/api/auth/me", token, nil)
	if got := data(t, body)["user"].(map[string]any)["email"]; got != "bob@example.com" {
		t.Errorf("stored email = %v, want bob@example.com", got)
	}

	status, _ := s.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "bob@example.com", "password": "secret123"})
	if status != fiber.StatusOK {
		t.Errorf("login with bare address = %d, want 200", status)
	}
}

func TestSpendingInsightsOnMonthEnd(t *testing.T) {
	s := newTestServer(t, nil, pinnedClock(time.Date(2026, time.March, 31, 12, 0, 0, 0, time.Local)))
	token := s.signup(t, "insights@example.com")

	for _, tx := range []fiber.Map{
		{"amount": 5000, "category": "Investment", "paymentMode": "Net Banking", "date": "2025-06-01"},
		{"amount": 1000, "category": "Food", "paymentMode": "Cash", "date": "2026-02-10"},
		{"amount": 1000, "category": "Food", "paymentMode": "Cash", "date": "2026-03-05"},
	} {
		mustCreate(t, s, "/api/transactions/", token, tx, "transaction")
	}

	status, body := s.call(t, http.MethodGet, "/api/insights/spending?months=2", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("insights = %d %v", status, body)
	}
	d := data(t, body)
	trends := d["trends"].(map[string]any)

	if trends["lastMonthTotal"] != 1000.0 || trends["currentMonthTotal"] != 1000.0 || trends["monthlyChange"] != 0.0 {
		t.Errorf("trends = %v", trends)
	}
	var months []string
	for _, m := range d["monthlyTotals"].([]any) {
		months = append(months, m.(map[string]any)["month"].(string))
	}
	if diff := cmp.Diff([]string{"2026-02", "2026-03"}, months); diff != "" {
		t.Errorf("monthlyTotals months (-want +got):\n%s", diff)
	}
	// Category leaders cover the whole history, not just the window.
	if trends["highestSpendCategory"] != "Investment" || trends["mostFrequentCategory"] != "Food" {
		t.Errorf("leaders = %v / %v", trends["highestSpendCategory"], trends["mostFrequentCategory"])
	}
}

func TestIncomeFlow(t *testing.T) {
	s := newTestServer(t, nil, pinnedClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)))
	token := s.signup(t, "income@example.com")

	invalid := []struct {
		name string
		body fiber.Map
		msg  string
	}{
		{"no amount", fiber.Map{"source": "Salary"}, "Please provide a valid positive amount"},
		{"negative amount", fiber.Map{"amount": -10, "source": "Salary"}, "Please provide a valid positive amount"},
		{"no source", fiber.Map{"amount": 100}, "Please provide an income source"},
		{"unknown source", fiber.Map{"amount": 100, "source": "Lottery"}, "Invalid income source 'Lottery'"},
		{"bad frequency", fiber.Map{"amount": 100, "source": "Salary", "recurringFrequency": "daily"}, "Invalid recurring frequency 'daily'"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.call(t, http.MethodPost, "/api/income/", token, tt.body)
			if status != fiber.StatusBadRequest || body["message"] != tt.msg {
				t.Errorf("got %d %v, want 400 %q", status, body, tt.msg)
			}
		})
	}

	jan := mustCreate(t, s, "/api/income/", token, fiber.Map{"amount": 50000, "source": "Salary", "date": "2026-01-05"}, "income")
	if jan["taxable"] != true || jan["recurringFrequency"] != "monthly" {
		t.Errorf("defaults = taxable %v, frequency %v", jan["taxable"], jan["recurringFrequency"])
	}
	mustCreate(t, s, "/api/income/", token, fiber.Map{"amount": 8000, "source": "Freelance", "date": "2026-02-10", "taxable": false}, "income")
	mustCreate(t, s, "/api/income/", token, fiber.Map{"amount": 50000, "source": "Salary", "date": "2026-02-05"}, "income")

	filters := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?source=Salary", 2},
		{"?startDate=2026-02-01&endDate=2026-02-28", 2},
		{"?startDate=2026-02-01&source=Salary", 1},
		{"?endDate=2026-01-05", 1},
	}
	for _, tt := range filters {
		t.Run("filter"+tt.query, func(t *testing.T) {
			if got := list(t, s, "/api/income/"+tt.query, token, "incomes"); len(got) != tt.want {
				t.Errorf("got %d incomes, want %d", len(got), tt.want)
			}
		})
	}
	if status, _ := s.call(t, http.MethodGet, "/api/income/?source=Lottery", token, nil); status != fiber.StatusBadRequest {
		t.Errorf("unknown source filter = %d, want 400", status)
	}

	status, body := s.call(t, http.MethodGet, "/api/income/stats", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("stats = %d %v", status, body)
	}
	stats := data(t, body)
	if diff := cmp.Diff(map[string]any{"total": 108000.0, "count": 3.0}, stats["currentYear"]); diff != "" {
		t.Errorf("currentYear (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"total": 0.0, "count": 0.0}, stats["currentMonth"]); diff != "" {
		t.Errorf("currentMonth (-want +got):\n%s", diff)
	}
	if top := stats["incomeBySource"].([]any)[0].(map[string]any); top["source"] != "Salary" || top["total"] != 100000.0 {
		t.Errorf("top source = %v", top)
	}
	if n := len(stats["monthlyIncome"].([]any)); n != 2 {
		t.Errorf("monthlyIncome has %d months, want 2", n)
	}

	id := jan["id"].(string)
	status, body = s.call(t, http.MethodPut, "/api/income/"+id, token, fiber.Map{"amount": 55000, "description": "raise"})
	if status != fiber.StatusOK {
		t.Fatalf("update = %d %v", status, body)
	}
	if inc := data(t, body)["income"].(map[string]any); inc["amount"] != 55000.0 || inc["source"] != "Salary" || inc["description"] != "raise" {
		t.Errorf("updated income = %v", inc)
	}
	if status, _ := s.call(t, http.MethodPut, "/api/income/"+id, token, fiber.Map{"amount": 0}); status != fiber.StatusBadRequest {
		t.Errorf("zero amount update = %d, want 400", status)
	}

	if status, _ := s.call(t, http.MethodDelete, "/api/income/"+id, token, nil); status != fiber.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	if status, _ := s.call(t, http.MethodDelete, "/api/income/"+id, token, nil); status != fiber.StatusNotFound {
		t.Errorf("second delete = %d, want 404", status)
	}
	if got := list(t, s, "/api/income/", token, "incomes"); len(got) != 2 {
		t.Errorf("got %d incomes after delete, want 2", len(got))
	}
}

func TestForeignWritesLeaveRecordsUnchanged(t *testing.T) {
	s := newTestServer(t, nil)
	owner := s.signup(t, "owner@example.com")
	other := s.signup(t, "other@example.com")

	limit := mustCreate(t, s, "/api/budget/", owner, fiber.Map{"category": "Food", "amount": 5000}, "limit")
	income := mustCreate(t, s, "/api/income/", owner, fiber.Map{"amount": 1000, "source": "Salary"}, "income")
	goal := mustCreate(t, s, "/api/savings-goals/", owner, fiber.Map{
		"name":         "Laptop",
		"targetAmount": 10000,
		"targetDate":   time.Now().AddDate(0, 6, 0).Format(time.DateOnly),
	}, "savingsGoal")

	tests := []struct {
		name   string
		method string
		path   string
		body   fiber.Map
		read   func(t *testing.T) any
		want   any
	}{
		{
			name:   "budget update",
			method: http.MethodPut,
			path:   "/api/budget/" + limit["id"].(string),
			body:   fiber.Map{"amount": 1},
			read: func(t *testing.T) any {
				return list(t, s, "/api/budget/", owner, "limits")[0].(map[string]any)["amount"]
			},
			want: 5000.0,
		},
		{
			name:   "budget delete",
			method: http.MethodDelete,
			path:   "/api/budget/" + limit["id"].(string),
			read: func(t *testing.T) any {
				return len(list(t, s, "/api/budget/", owner, "limits"))
			},
			want: 1,
		},
		{
			name:   "income update",
			method: http.MethodPut,
			path:   "/api/income/" + income["id"].(string),
			body:   fiber.Map{"amount": 1, "source": "Gift"},
			read: func(t *testing.T) any {
				inc := list(t, s, "/api/income/", owner, "incomes")[0].(map[string]any)
				return []any{inc["amount"], inc["source"]}
			},
			want: []any{1000.0, "Salary"},
		},
		{
			name:   "income delete",
			method: http.MethodDelete,
			path:   "/api/income/" + income["id"].(string),
			read: func(t *testing.T) any {
				return len(list(t, s, "/api/income/", owner, "incomes"))
			},
			want: 1,
		},
		{
			name:   "goal update",
			method: http.MethodPut,
			path:   "/api/savings-goals/" + goal["id"].(string),
			body:   fiber.Map{"name": "Hijacked", "targetAmount": 1},
			read: func(t *testing.T) any {
				_, body := s.call(t, http.MethodGet, "/api/savings-goals/"+goal["id"].(string), owner, nil)
				g := data(t, body)["savingsGoal"].(map[string]any)
				return []any{g["name"], g["targetAmount"], g["isCompleted"]}
			},
			want: []any{"Laptop", 10000.0, false},
		},
		{
			name:   "goal delete",
			method: http.MethodDelete,
			path:   "/api/savings-goals/" + goal["id"].(string),
			read: func(t *testing.T) any {
				return len(list(t, s, "/api/savings-goals/", owner, "savingsGoals"))
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.call(t, tt.method, tt.path, other, tt.body)
			if status != fiber.StatusForbidden {
				t.Errorf("status = %d, want 403 (body %v)", status, body)
			}
			if diff := cmp.Diff(tt.want, tt.read(t)); diff != "" {
				t.Errorf("record changed (-want +got):\n%s", diff)
			}
		})
	}

	if n := len(s.events.ofType(models.NotificationGoalCompleted)); n != 0 {
		t.Errorf("foreign update produced %d goal_completed notifications", n)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signup(t, "notes@example.com")
	other := s.signup(t, "nosy@example.com")

	mustCreate(t, s, "/api/budget/", token, fiber.Map{"category": "Food", "amount": 1000}, "limit")
	createTransaction(t, s, token, 850, models.CategoryFood)
	createTransaction(t, s, token, 200, models.CategoryFood)

	status, body := s.call(t, http.MethodGet, "/api/notifications/", token, nil)
	if status != fiber.StatusOK || body["results"] != 2.0 || body["unreadCount"] != 2.0 {
		t.Fatalf("list = %d %v", status, body)
	}
	notes := data(t, body)["notifications"].([]any)
	first := notes[0].(map[string]any)["id"].(string)
	second := notes[1].(map[string]any)["id"].(string)

	status, body = s.call(t, http.MethodPut, "/api/notifications/"+first+"/read", token, nil)
	if status != fiber.StatusOK || data(t, body)["notification"].(map[string]any)["isRead"] != true {
		t.Fatalf("mark read = %d %v", status, body)
	}

	steps := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"foreign read", http.MethodPut, "/api/notifications/" + second + "/read", other, fiber.StatusForbidden},
		{"foreign delete", http.MethodDelete, "/api/notifications/" + second, other, fiber.StatusForbidden},
		{"malformed id", http.MethodPut, "/api/notifications/nope/read", token, fiber.StatusBadRequest},
		{"unknown id", http.MethodDelete, "/api/notifications/" + unknownID, token, fiber.StatusNotFound},
	}
	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := s.call(t, tt.method, tt.path, tt.token, nil); status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}

	if got := list(t, s, "/api/notifications/?unreadOnly=true", token, "notifications"); len(got) != 1 {
		t.Errorf("unread notifications = %d, want 1", len(got))
	}
	if got := list(t, s, "/api/notifications/?limit=1", token, "notifications"); len(got) != 1 {
		t.Errorf("limited notifications = %d, want 1", len(got))
	}

	_, body = s.call(t, http.MethodPut, "/api/notifications/read-all", token, nil)
	if got := data(t, body)["updated"]; got != 1.0 {
		t.Errorf("read-all updated %v, want 1", got)
	}
	_, body = s.call(t, http.MethodPut, "/api/notifications/read-all", token, nil)
	if got := data(t, body)["updated"]; got != 0.0 {
		t.Errorf("second read-all updated %v, want 0", got)
	}

	if status, _ := s.call(t, http.MethodDelete, "/api/notifications/"+second, token, nil); status != fiber.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	_, body = s.call(t, http.MethodGet, "/api/notifications/", token, nil)
	if body["results"] != 1.0 || body["unreadCount"] != 0.0 {
		t.Errorf("after delete = %v", body)
	}
}

const unknownID = "00000000-0000-4000-8000-000000000000"

func TestBudgetTips(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signup(t, "tips@example.com")

	if got := list(t, s, "/api/budget/tips", token, "tips"); len(got) != 4 {
		t.Fatalf("tips without budgets = %d, want 4", len(got))
	}

	mustCreate(t, s, "/api/budget/", token, fiber.Map{"category": "Food", "amount": 1000}, "limit")
	mustCreate(t, s, "/api/budget/", token, fiber.Map{"category": "Transport", "amount": 1000}, "limit")
	createTransaction(t, s, token, 900, models.CategoryFood)
	createTransaction(t, s, token, 100, models.CategoryTransport)

	tips := list(t, s, "/api/budget/tips", token, "tips")
	if len(tips) != 5 {
		t.Fatalf("got %d tips, want 5", len(tips))
	}
	if last := tips[4].(map[string]any); last["title"] != "Watch Your Food Budget" || last["id"] != 5.0 {
		t.Errorf("category tip = %v", last)
	}
}
