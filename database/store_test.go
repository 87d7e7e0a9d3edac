package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"money-tracker-go-be/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps SQLite writers from failing with "table is locked".
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return NewStore(db)
}

func newUser(t *testing.T, s *Store, email string) uuid.UUID {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x"}
	if err := s.Users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	newUser(t, s, "a@example.com")

	err := s.Users.Create(context.Background(), &models.User{Email: " A@Example.com ", PasswordHash: "x"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second signup err = %v, want ErrDuplicate", err)
	}
}

func TestFindOwned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newUser(t, s, "alice@example.com")
	bob := newUser(t, s, "bob@example.com")

	txn := models.Transaction{
		UserID:      alice,
		Amount:      250,
		Category:    models.CategoryFood,
		PaymentMode: models.PaymentCash,
		GSTRate:     models.CategoryFood.GSTRate(),
		Date:        time.Now().UTC(),
	}
	if err := s.Transactions.Create(ctx, &txn); err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID == uuid.Nil {
		t.Fatal("create did not assign an id")
	}

	tests := []struct {
		name string
		id   uuid.UUID
		user uuid.UUID
		want error
	}{
		{"owner", txn.ID, alice, nil},
		{"other user", txn.ID, bob, ErrForbidden},
		{"unknown id", uuid.New(), alice, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Transactions.FindOwned(ctx, tt.id, tt.user)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := s.Transactions.Delete(ctx, txn.ID, bob); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by other user err = %v", err)
	}
	if err := s.Transactions.Delete(ctx, txn.ID, alice); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if _, err := s.Transactions.FindOwned(ctx, txn.ID, alice); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete err = %v", err)
	}
}

func TestBudgetDuplicateCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	first := models.BudgetLimit{UserID: user, Category: models.CategoryFood, Amount: 5000}
	if err := s.Budgets.Create(ctx, &first); err != nil {
		t.Fatalf("first budget: %v", err)
	}
	second := models.BudgetLimit{UserID: user, Category: models.CategoryFood, Amount: 100}
	if err := s.Budgets.Create(ctx, &second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second budget err = %v, want ErrDuplicate", err)
	}

	other := newUser(t, s, "b@example.com")
	if err := s.Budgets.Create(ctx, &models.BudgetLimit{UserID: other, Category: models.CategoryFood, Amount: 1}); err != nil {
		t.Fatalf("same category for another user: %v", err)
	}
}

func TestSpentInCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")
	may := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

	for _, txn := range []models.Transaction{
		{Amount: 100, Category: models.CategoryFood, Date: may},
		{Amount: 50.5, Category: models.CategoryFood, Date: may.AddDate(0, 0, 5)},
		{Amount: 999, Category: models.CategoryFood, Date: may.AddDate(0, 1, 0)},
		{Amount: 70, Category: models.CategoryBills, Date: may},
	} {
		txn.UserID = user
		txn.PaymentMode = models.PaymentUPI
		if err := s.Transactions.Create(ctx, &txn); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	got, err := s.Transactions.SpentInCategory(ctx, user, models.CategoryFood, from, to)
	if err != nil {
		t.Fatalf("SpentInCategory: %v", err)
	}
	if got != 150.5 {
		t.Fatalf("spent = %v, want 150.5", got)
	}

	empty, err := s.Transactions.SpentInCategory(ctx, user, models.CategoryShopping, from, to)
	if err != nil || empty != 0 {
		t.Fatalf("empty category = %v, %v", empty, err)
	}
}

func TestClientIDDedup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")
	id := "tmp-1"

	batch := []models.Transaction{
		{UserID: user, ClientID: &id, Amount: 10, Category: models.CategoryOther, PaymentMode: models.PaymentCash, Date: time.Now().UTC()},
		{UserID: user, Amount: 20, Category: models.CategoryOther, PaymentMode: models.PaymentCash, Date: time.Now().UTC()},
		{UserID: user, Amount: 30, Category: models.CategoryOther, PaymentMode: models.PaymentCash, Date: time.Now().UTC()},
	}
	if err := s.Transactions.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	existing, err := s.Transactions.ExistingClientIDs(ctx, user, []string{"tmp-1", "tmp-2"})
	if err != nil {
		t.Fatalf("ExistingClientIDs: %v", err)
	}
	if !existing["tmp-1"] || existing["tmp-2"] {
		t.Fatalf("existing = %v", existing)
	}

	again := []models.Transaction{{UserID: user, ClientID: &id, Amount: 10, Category: models.CategoryOther, PaymentMode: models.PaymentCash, Date: time.Now().UTC()}}
	if err := s.Transactions.CreateBatch(ctx, again); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("replayed client id err = %v, want ErrDuplicate", err)
	}
}

func TestGoalContribute(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	goal := models.SavingsGoal{
		UserID:        user,
		Name:          "Trip",
		TargetAmount:  10000,
		CurrentAmount: 9500,
		TargetDate:    time.Now().UTC().AddDate(0, 6, 0),
	}
	if err := s.Goals.Create(ctx, &goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	got, note, err := s.Goals.Contribute(ctx, goal.ID, user, 600)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if got.CurrentAmount != 10100 || !got.IsCompleted {
		t.Fatalf("goal after contribution = %+v", got)
	}
	if note == nil || note.Type != models.NotificationGoalCompleted {
		t.Fatalf("completion notification = %+v", note)
	}

	got, note, err = s.Goals.Contribute(ctx, goal.ID, user, 100)
	if err != nil {
		t.Fatalf("second Contribute: %v", err)
	}
	if got.CurrentAmount != 10200 || note != nil {
		t.Fatalf("second contribution = %v, notification %+v", got.CurrentAmount, note)
	}

	notes, err := s.Notifications.List(ctx, user, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}

	if _, _, err := s.Goals.Contribute(ctx, goal.ID, user, 0); err == nil {
		t.Fatal("zero contribution accepted")
	}
	other := newUser(t, s, "b@example.com")
	if _, _, err := s.Goals.Contribute(ctx, goal.ID, other, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("contribution by other user err = %v", err)
	}
}

func TestGoalContributeConcurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	goal := models.SavingsGoal{UserID: user, Name: "Laptop", TargetAmount: 1000, TargetDate: time.Now().UTC().AddDate(1, 0, 0)}
	if err := s.Goals.Create(ctx, &goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	const workers = 10
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		notes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, note, err := s.Goals.Contribute(ctx, goal.ID, user, 100)
			if err != nil {
				t.Errorf("Contribute: %v", err)
				return
			}
			if note != nil {
				mu.Lock()
				notes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := s.Goals.FindOwned(ctx, goal.ID, user)
	if err != nil {
		t.Fatalf("FindOwned: %v", err)
	}
	if final.CurrentAmount != 1000 || !final.IsCompleted {
		t.Fatalf("final goal = %+v", final)
	}
	if notes != 1 {
		t.Fatalf("completion notifications = %d, want 1", notes)
	}
}

func TestGoalUpdateCompletes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	goal := models.SavingsGoal{UserID: user, Name: "Bike", TargetAmount: 5000, CurrentAmount: 3000, TargetDate: time.Now().UTC().AddDate(0, 3, 0)}
	if err := s.Goals.Create(ctx, &goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	goal.TargetAmount = 2500
	goal.CurrentAmount = 0 // ignored by Update
	note, err := s.Goals.Update(ctx, &goal)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if note == nil || !goal.IsCompleted || goal.CurrentAmount != 3000 {
		t.Fatalf("goal = %+v, notification = %+v", goal, note)
	}
}

func TestGoalUpdateTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	goal := models.SavingsGoal{UserID: user, Name: "Bike", TargetAmount: 5000, TargetDate: time.Now().UTC().AddDate(0, 3, 0)}
	if err := s.Goals.Create(ctx, &goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	stale := time.Now().UTC().Add(-48 * time.Hour)
	if err := s.DB.Model(&goal).UpdateColumn("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	goal.Name = "Road bike"
	if _, err := s.Goals.Update(ctx, &goal); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if goal.Name != "Road bike" || !goal.UpdatedAt.After(stale.Add(time.Hour)) {
		t.Fatalf("goal after update = %+v", goal)
	}
}

func TestNotificationsReadState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := newUser(t, s, "a@example.com")

	var first models.Notification
	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: user, Type: models.NotificationSystem, Title: "t", Message: "m", RelatedTo: models.RelatedSystem}
		if err := s.Notifications.Create(ctx, &n); err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			first = n
		}
	}

	if _, err := s.Notifications.MarkRead(ctx, first.ID, user); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n, _ := s.Notifications.UnreadCount(ctx, user); n != 2 {
		t.Fatalf("unread = %d, want 2", n)
	}
	unread, err := s.Notifications.List(ctx, user, 20, true)
	if err != nil || len(unread) != 2 {
		t.Fatalf("unread list = %d, %v", len(unread), err)
	}

	changed, err := s.Notifications.MarkAllRead(ctx, user)
	if err != nil || changed != 2 {
		t.Fatalf("MarkAllRead = %d, %v", changed, err)
	}
	if n, _ := s.Notifications.UnreadCount(ctx, user); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
}
