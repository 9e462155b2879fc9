package repositories

import (
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepo interface {
	Create(expense *models.Expense) error
	SumSince(boutiqueID uuid.UUID, since time.Time) (int64, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepo {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) SumSince(boutiqueID uuid.UUID, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.Expense{}).
		Where("boutique_id = ? AND spent_at >= ?", boutiqueID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error

	return total, err
}
