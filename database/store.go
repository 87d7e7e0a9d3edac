package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

// Store groups the repositories the HTTP layer works with.
type Store struct {
	DB            *gorm.DB
	Users         *Users
	Transactions  *Transactions
	Budgets       *Budgets
	Incomes       *Repository[models.Income]
	Goals         *Goals
	Notifications *Notifications
	Rules         *Repository[models.PayeeRule]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:            db,
		Users:         &Users{db: db},
		Transactions:  &Transactions{Repository: NewRepository[models.Transaction](db), db: db},
		Budgets:       &Budgets{Repository: NewRepository[models.BudgetLimit](db), db: db},
		Incomes:       NewRepository[models.Income](db),
		Goals:         &Goals{Repository: NewRepository[models.SavingsGoal](db), db: db},
		Notifications: &Notifications{Repository: NewRepository[models.Notification](db), db: db},
		Rules:         NewRepository[models.PayeeRule](db),
	}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type Users struct {
	db *gorm.DB
}

// Create stores a new user. Emails are compared case-insensitively.
func (u *Users) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if _, err := u.ByEmail(ctx, user.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (u *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Transactions struct {
	*Repository[models.Transaction]
	db *gorm.DB
}

// InRange returns the user's transactions dated within [from, to], newest first.
func (t *Transactions) InRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	return t.FindByUser(ctx, userID, DateRange("date", from, to), OrderBy("date DESC"))
}

// SpentInCategory sums the user's spending in one category within [from, to].
func (t *Transactions) SpentInCategory(ctx context.Context, userID uuid.UUID, category models.Category, from, to time.Time) (float64, error) {
	var total float64
	err := t.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND category = ?", userID, category).
		Scopes(DateRange("date", from, to)).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}

// ExistingClientIDs reports which of ids the user has already synced.
func (t *Transactions) ExistingClientIDs(ctx context.Context, userID uuid.UUID, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []string
	err := t.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND client_id IN ?", userID, ids).
		Pluck("client_id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// CreateBatch inserts txns in one database transaction.
func (t *Transactions) CreateBatch(ctx context.Context, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if err := t.db.WithContext(ctx).CreateInBatches(txns, 100).Error; err != nil {
		return translate(err)
	}
	return nil
}

type Budgets struct {
	*Repository[models.BudgetLimit]
	db *gorm.DB
}

// Create rejects a second limit for the same category with ErrDuplicate.
func (b *Budgets) Create(ctx context.Context, limit *models.BudgetLimit) error {
	if _, err := b.ForCategory(ctx, limit.UserID, limit.Category); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return b.Repository.Create(ctx, limit)
}

func (b *Budgets) ForCategory(ctx context.Context, userID uuid.UUID, category models.Category) (*models.BudgetLimit, error) {
	var limit models.BudgetLimit
	err := b.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		First(&limit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

type Goals struct {
	*Repository[models.SavingsGoal]
	db *gorm.DB
}

// Contribute adds amount to the goal's saved total. The increment happens in
// SQL so concurrent contributions are never lost, and the goal_completed
// notification is created at most once, by whichever call completes the goal.
// The returned notification is nil unless this call completed the goal.
func (g *Goals) Contribute(ctx context.Context, id, userID uuid.UUID, amount float64) (*models.SavingsGoal, *models.Notification, error) {
	if err := finance.ValidateAmount(amount); err != nil {
		return nil, nil, err
	}

	var (
		goal *models.SavingsGoal
		note *models.Notification
	)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[models.SavingsGoal](tx, id, userID); err != nil {
			return err
		}
		err := tx.Model(&models.SavingsGoal{}).
			Where("id = ?", id).
			Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
		if err != nil {
			return err
		}
		if goal, err = findOwned[models.SavingsGoal](tx, id, userID); err != nil {
			return err
		}
		note, err = completeOnce(tx, goal)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return goal, note, nil
}

// Update writes the editable fields of goal, leaving the saved amount alone,
// and completes the goal if the new target has already been reached.
func (g *Goals) Update(ctx context.Context, goal *models.SavingsGoal) (*models.Notification, error) {
	var note *models.Notification
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.SavingsGoal{}).
			Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
			Select("name", "target_amount", "target_date", "description", "category", "updated_at").
			Updates(goal).Error
		if err != nil {
			return translate(err)
		}
		fresh, err := findOwned[models.SavingsGoal](tx, goal.ID, goal.UserID)
		if err != nil {
			return err
		}
		*goal = *fresh
		note, err = completeOnce(tx, goal)
		return err
	})
	return note, err
}

func completeOnce(tx *gorm.DB, goal *models.SavingsGoal) (*models.Notification, error) {
	if !finance.MarkCompleted(goal) {
		return nil, nil
	}
	res := tx.Model(&models.SavingsGoal{}).
		Where("id = ? AND is_completed = ?", goal.ID, false).
		Update("is_completed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Completed concurrently; that call owns the notification.
		return nil, nil
	}
	note := finance.GoalCompletedNotification(*goal)
	if err := tx.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

type Notifications struct {
	*Repository[models.Notification]
	db *gorm.DB
}

// List returns the newest notifications first.
func (n *Notifications) List(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]models.Notification, error) {
	scopes := []Scope{OrderBy("created_at DESC")}
	if unreadOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("is_read = ?", false) })
	}
	if limit > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Limit(limit) })
	}
	return n.FindByUser(ctx, userID, scopes...)
}

func (n *Notifications) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (n *Notifications) MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error) {
	note, err := n.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if note.IsRead {
		return note, nil
	}
	err = n.db.WithContext(ctx).Model(note).Update("is_read", true).Error
	if err != nil {
		return nil, err
	}
	note.IsRead = true
	return note, nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed.
func (n *Notifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := n.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
