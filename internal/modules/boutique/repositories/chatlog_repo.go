package repositories

import (
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatLogRepo interface {
	Create(log *models.ChatLog) error
	// CountSince counts turns in the window, used for the monthly quota.
	CountSince(boutiqueID uuid.UUID, since time.Time) (int64, error)
	// CountAutoRecordedSince counts turns whose stored reply carries a
	// confirmation marker, used by the burst guard on auto-recording.
	CountAutoRecordedSince(boutiqueID uuid.UUID, since time.Time) (int64, error)
	Recent(boutiqueID uuid.UUID, limit int) ([]models.ChatLog, error)
	Clear(boutiqueID uuid.UUID) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type chatLogRepo struct {
	db *gorm.DB
}

func NewChatLogRepo(db *gorm.DB) ChatLogRepo {
	return &chatLogRepo{db: db}
}

func (r *chatLogRepo) Create(log *models.ChatLog) error {
	return r.db.Create(log).Error
}

func (r *chatLogRepo) CountSince(boutiqueID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatLog{}).
		Where("boutique_id = ? AND created_at >= ?", boutiqueID, since).
		Count(&count).Error

	return count, err
}

func (r *chatLogRepo) CountAutoRecordedSince(boutiqueID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatLog{}).
		Where("boutique_id = ? AND created_at >= ?", boutiqueID, since).
		Where("bot_response LIKE ? OR bot_response LIKE ?", "%enregistrée:%", "%recorded:%").
		Count(&count).Error

	return count, err
}

func (r *chatLogRepo) Recent(boutiqueID uuid.UUID, limit int) ([]models.ChatLog, error) {
	if limit < 1 {
		limit = 50
	}

	var logs []models.ChatLog
	err := r.db.Where("boutique_id = ?", boutiqueID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error

	return logs, err
}

func (r *chatLogRepo) Clear(boutiqueID uuid.UUID) (int64, error) {
	res := r.db.Where("boutique_id = ?", boutiqueID).Delete(&models.ChatLog{})
	return res.RowsAffected, res.Error
}

func (r *chatLogRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&models.ChatLog{})
	return res.RowsAffected, res.Error
}
