package models

import (
	"time"

	"github.com/google/uuid"
)

// Owned is implemented by every record that belongs to a single user.
type Owned interface {
	OwnerID() uuid.UUID
}

// User represents a user in the system.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transaction represents a single expense. Transactions are never edited after
// creation; GSTRate is always derived from Category on the write path.
type Transaction struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_user_client" json:"userId"`
	ClientID    *string     `gorm:"uniqueIndex:idx_transactions_user_client" json:"clientId,omitempty"` // tempId from the offline queue
	Amount      float64     `gorm:"not null" json:"amount"`
	Category    Category    `gorm:"not null;index" json:"category"`
	PaymentMode PaymentMode `gorm:"not null" json:"paymentMode"`
	UpiID       string      `json:"upiId,omitempty"`
	GSTRate     float64     `json:"gstRate"`
	Description string      `json:"description"`
	Date        time.Time   `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// BudgetLimit is a monthly spending cap. A user has at most one per category.
type BudgetLimit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_budget_limits_user_category" json:"userId"`
	Category  Category  `gorm:"not null;uniqueIndex:idx_budget_limits_user_category" json:"category"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Income struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID    `gorm:"type:uuid;not null;index" json:"userId"`
	Amount             float64      `gorm:"not null" json:"amount"`
	Source             IncomeSource `gorm:"not null" json:"source"`
	Description        string       `json:"description"`
	Date               time.Time    `gorm:"not null;index" json:"date"`
	IsRecurring        bool         `gorm:"default:false" json:"isRecurring"`
	RecurringFrequency Frequency    `gorm:"default:monthly" json:"recurringFrequency"`
	Taxable            bool         `json:"taxable"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// SavingsGoal is a target the user saves toward with incremental contributions.
// Progress figures are derived on read and never stored.
type SavingsGoal struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"userId"`
	Name          string       `gorm:"not null" json:"name"`
	TargetAmount  float64      `gorm:"not null" json:"targetAmount"`
	CurrentAmount float64      `gorm:"not null;default:0" json:"currentAmount"`
	TargetDate    time.Time    `gorm:"not null" json:"targetDate"`
	Description   string       `json:"description"`
	Category      GoalCategory `gorm:"default:Other" json:"category"`
	IsCompleted   bool         `gorm:"default:false" json:"isCompleted"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type Notification struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_created" json:"userId"`
	Type       NotificationType `gorm:"not null" json:"type"`
	Title      string           `gorm:"not null" json:"title"`
	Message    string           `gorm:"not null" json:"message"`
	RelatedTo  RelatedTo        `gorm:"default:system" json:"relatedTo"`
	RelatedID  *uuid.UUID       `gorm:"type:uuid" json:"relatedId"`
	IsRead     bool             `gorm:"default:false;index" json:"isRead"`
	IsPriority bool             `gorm:"default:false" json:"isPriority"`
	CreatedAt  time.Time        `gorm:"index:idx_notifications_user_created" json:"createdAt"`
}

// PayeeRule maps a UPI handle or description keyword to a category and merchant.
type PayeeRule struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Pattern        string    `gorm:"not null" json:"pattern"` // matched case-insensitively
	TargetCategory Category  `gorm:"not null" json:"targetCategory"`
	TargetMerchant string    `gorm:"not null" json:"targetMerchant"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u User) OwnerID() uuid.UUID         { return u.ID }
func (t Transaction) OwnerID() uuid.UUID  { return t.UserID }
func (b BudgetLimit) OwnerID() uuid.UUID  { return b.UserID }
func (i Income) OwnerID() uuid.UUID       { return i.UserID }
func (g SavingsGoal) OwnerID() uuid.UUID  { return g.UserID }
func (n Notification) OwnerID() uuid.UUID { return n.UserID }
func (r PayeeRule) OwnerID() uuid.UUID    { return r.UserID }

// All lists every model for migrations.
func All() []any {
	return []any{
		&User{},
		&Transaction{},
		&BudgetLimit{},
		&Income{},
		&SavingsGoal{},
		&Notification{},
		&PayeeRule{},
	}
}
