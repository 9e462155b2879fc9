package repositories

import (
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DebtRepo interface {
	Create(debt *models.Debt) error
	OpenTotal(boutiqueID uuid.UUID) (int64, error)
	ListOpen(boutiqueID uuid.UUID, limit int) ([]models.Debt, error)
	// CountOpenOlderThan counts open debts created before the cutoff,
	// used for the "critical debts" figure in the assistant's context.
	CountOpenOlderThan(boutiqueID uuid.UUID, cutoff time.Time) (int64, error)
}

type debtRepo struct {
	db *gorm.DB
}

func NewDebtRepo(db *gorm.DB) DebtRepo {
	return &debtRepo{db: db}
}

func (r *debtRepo) Create(debt *models.Debt) error {
	return r.db.Create(debt).Error
}

func (r *debtRepo) OpenTotal(boutiqueID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&models.Debt{}).
		Where("boutique_id = ? AND status = ?", boutiqueID, models.DebtStatusOpen).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&total).Error

	return total, err
}

func (r *debtRepo) ListOpen(boutiqueID uuid.UUID, limit int) ([]models.Debt, error) {
	if limit < 1 {
		limit = 10
	}

	var debts []models.Debt
	err := r.db.Where("boutique_id = ? AND status = ?", boutiqueID, models.DebtStatusOpen).
		Order("created_at ASC").
		Limit(limit).
		Find(&debts).Error

	return debts, err
}

func (r *debtRepo) CountOpenOlderThan(boutiqueID uuid.UUID, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Debt{}).
		Where("boutique_id = ? AND status = ? AND created_at <= ?", boutiqueID, models.DebtStatusOpen, cutoff).
		Count(&count).Error

	return count, err
}
