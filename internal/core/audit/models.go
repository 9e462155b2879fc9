package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Source values distinguish who initiated a recorded action.
const (
	SourceAssistant = "assistant"
	SourceManual    = "manual"
)

// AuditLog tracks every mutation of financial records, whether entered
// manually or auto-recorded by the assistant.
type AuditLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BoutiqueID uuid.UUID `json:"boutique_id" gorm:"type:uuid;index"`

	Action   string `json:"action" gorm:"type:text;not null;index"` // create, create_auto, update, delete
	Entity   string `json:"entity" gorm:"type:text;not null;index"` // sales, expenses, debts, products
	EntityID string `json:"entity_id" gorm:"type:text;index"`
	Source   string `json:"source" gorm:"type:text;not null;default:'manual'"`

	OldValue datatypes.JSON `json:"old_value,omitempty" gorm:"type:jsonb"`
	NewValue datatypes.JSON `json:"new_value,omitempty" gorm:"type:jsonb"`

	Description string `json:"description,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
