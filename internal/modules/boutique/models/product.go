package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry owned by one boutique. Stock never goes
// negative: a sale that would drive it below zero must be rejected.
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BoutiqueID uuid.UUID `gorm:"type:uuid;not null;index:idx_products_boutique" json:"boutique_id"`

	Name      string `gorm:"type:text;not null" json:"name"`
	UnitPrice int    `gorm:"type:bigint;not null" json:"unit_price"` // FCFA, no subunits
	Stock     int    `gorm:"type:integer;not null;default:0" json:"stock"`

	AlertThreshold int    `gorm:"type:integer;not null;default:5" json:"alert_threshold"`
	Category       string `gorm:"type:text" json:"category,omitempty"`

	IsActive bool `gorm:"type:boolean;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLowStock reports whether the product is at or below its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.AlertThreshold
}
