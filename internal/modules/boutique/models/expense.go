package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinAutoExpenseAmount is the smallest expense (FCFA) the assistant may
// record on its own; anything lower is asked back to the user.
const MinAutoExpenseAmount = 100

type Expense struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BoutiqueID uuid.UUID `gorm:"type:uuid;not null;index:idx_expenses_boutique" json:"boutique_id"`

	Category    string `gorm:"type:text;not null" json:"category"`
	Amount      int    `gorm:"type:bigint;not null" json:"amount"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	SpentAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"spent_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.SpentAt.IsZero() {
		e.SpentAt = time.Now().UTC()
	}
	return nil
}
