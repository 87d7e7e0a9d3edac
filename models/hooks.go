package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are generated in Go so that SQLite and Postgres behave the same.

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { newID(&u.ID); return nil }
func (t *Transaction) BeforeCreate(*gorm.DB) error  { newID(&t.ID); return nil }
func (b *BudgetLimit) BeforeCreate(*gorm.DB) error  { newID(&b.ID); return nil }
func (i *Income) BeforeCreate(*gorm.DB) error       { newID(&i.ID); return nil }
func (g *SavingsGoal) BeforeCreate(*gorm.DB) error  { newID(&g.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error { newID(&n.ID); return nil }
func (r *PayeeRule) BeforeCreate(*gorm.DB) error    { newID(&r.ID); return nil }
