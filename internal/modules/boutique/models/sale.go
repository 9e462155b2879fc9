package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale records one sale of a product. The unit price is snapshotted at sale
// time so later catalog edits never rewrite history. Creating a sale and
// decrementing the product stock happen in the same database transaction.
type Sale struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BoutiqueID uuid.UUID `gorm:"type:uuid;not null;index:idx_sales_boutique" json:"boutique_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`

	Quantity    int `gorm:"type:integer;not null" json:"quantity"`
	UnitPrice   int `gorm:"type:bigint;not null" json:"unit_price"`
	TotalAmount int `gorm:"type:bigint;not null" json:"total_amount"`

	SoldAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"sold_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Product Product `gorm:"foreignKey:ProductID;references:ID" json:"-"`
}

func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = time.Now().UTC()
	}
	return nil
}
