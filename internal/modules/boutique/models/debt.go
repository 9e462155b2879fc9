package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DebtStatusOpen    = "open"
	DebtStatusSettled = "settled"

	// MinAutoDebtAmount is the smallest debt (FCFA) the assistant may record
	// on its own.
	MinAutoDebtAmount = 500
)

// Debt is money a client owes the boutique. RemainingAmount starts equal to
// InitialAmount and only decreases through payments; auto-recording creates
// new debts only, never payments.
type Debt struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BoutiqueID uuid.UUID `gorm:"type:uuid;not null;index:idx_debts_boutique" json:"boutique_id"`

	ClientName      string `gorm:"type:varchar(100);not null" json:"client_name"`
	InitialAmount   int    `gorm:"type:bigint;not null" json:"initial_amount"`
	RemainingAmount int    `gorm:"type:bigint;not null" json:"remaining_amount"`
	Status          string `gorm:"type:varchar(20);not null;default:'open'" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Debt) TableName() string {
	return "debts"
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DebtStatusOpen
	}
	return nil
}

// AgeDays returns how many days the debt has been open.
func (d *Debt) AgeDays(now time.Time) int {
	return int(now.Sub(d.CreatedAt).Hours() / 24)
}
