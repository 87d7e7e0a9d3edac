package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"money-tracker-go-be/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("record belongs to another user")
	ErrDuplicate = errors.New("record already exists")
)

// Scope narrows a query, e.g. DateRange or OrderBy.
type Scope = func(*gorm.DB) *gorm.DB

// Repository holds the user-scoped operations shared by every owned model.
type Repository[T models.Owned] struct {
	db *gorm.DB
}

func NewRepository[T models.Owned](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByUser returns every record owned by userID after applying scopes.
func (r *Repository[T]) FindByUser(ctx context.Context, userID uuid.UUID, scopes ...Scope) ([]T, error) {
	var recs []T
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(scopes...).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// FindOwned loads one record, returning ErrNotFound when no such id exists and
// ErrForbidden when it exists but belongs to someone else.
func (r *Repository[T]) FindOwned(ctx context.Context, id, userID uuid.UUID) (*T, error) {
	return findOwned[T](r.db.WithContext(ctx), id, userID)
}

func (r *Repository[T]) Save(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the record after the same ownership check as FindOwned.
func (r *Repository[T]) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[T](tx, id, userID); err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(new(T)).Error
	})
}

func findOwned[T models.Owned](db *gorm.DB, id, userID uuid.UUID) (*T, error) {
	var rec T
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.OwnerID() != userID {
		return nil, ErrForbidden
	}
	return &rec, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// DateRange keeps rows whose column lies in [from, to]. Zero bounds are open.
func DateRange(column string, from, to time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if !to.IsZero() {
			db = db.Where(column+" <= ?", to.UTC())
		}
		return db
	}
}

func OrderBy(clause string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}

// Equal keeps rows where column equals value, or every row when value is empty.
func Equal(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}
