package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service provides audit logging over financial records.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a new audit log entry.
func (s *Service) Log(ctx context.Context, entry *AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// LogChange records a mutation with its before/after state. Serialization
// problems are logged and tolerated; the mutation itself already happened.
func (s *Service) LogChange(ctx context.Context, boutiqueID uuid.UUID, action, entity, entityID, source string, oldValue, newValue interface{}) error {
	oldJSON, err := toJSON(oldValue)
	if err != nil {
		log.Printf("Warning: failed to serialize old value: %v", err)
	}

	newJSON, err := toJSON(newValue)
	if err != nil {
		log.Printf("Warning: failed to serialize new value: %v", err)
	}

	return s.Log(ctx, &AuditLog{
		BoutiqueID: boutiqueID,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Source:     source,
		OldValue:   oldJSON,
		NewValue:   newJSON,
	})
}

// GetEntityHistory retrieves all recorded changes for one entity.
func (s *Service) GetEntityHistory(boutiqueID uuid.UUID, entity, entityID string) ([]AuditLog, error) {
	var logs []AuditLog
	err := s.db.Where("boutique_id = ? AND entity = ? AND entity_id = ?", boutiqueID, entity, entityID).
		Order("created_at DESC").
		Find(&logs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get entity history: %w", err)
	}

	return logs, nil
}

// DeleteOldLogs deletes audit logs older than the retention window.
func (s *Service) DeleteOldLogs(daysToKeep int) error {
	if daysToKeep < 1 {
		return fmt.Errorf("daysToKeep must be at least 1")
	}

	cutoffDate := s.db.NowFunc().AddDate(0, 0, -daysToKeep)

	result := s.db.Where("created_at < ?", cutoffDate).Delete(&AuditLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}

	log.Printf("Deleted %d old audit logs (older than %d days)", result.RowsAffected, daysToKeep)
	return nil
}

func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
