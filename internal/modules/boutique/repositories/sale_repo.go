package repositories

import (
	"errors"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when the guarded stock decrement matches
// no row, i.e. the product's stock dropped below the requested quantity
// between the catalog read and the commit.
var ErrInsufficientStock = errors.New("insufficient stock")

type SaleRepo interface {
	// CreateWithStockDecrement creates the sale and decrements the product's
	// stock in one transaction. The decrement carries a stock >= quantity
	// guard so two concurrent sales can never drive stock negative.
	CreateWithStockDecrement(sale *models.Sale) error
	SumSince(boutiqueID uuid.UUID, since time.Time) (int64, error)
	Recent(boutiqueID uuid.UUID, limit int) ([]models.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepo {
	return &saleRepo{db: db}
}

func (r *saleRepo) CreateWithStockDecrement(sale *models.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND boutique_id = ? AND stock >= ?", sale.ProductID, sale.BoutiqueID, sale.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", sale.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		return tx.Create(sale).Error
	})
}

func (r *saleRepo) SumSince(boutiqueID uuid.UUID, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.Sale{}).
		Where("boutique_id = ? AND sold_at >= ?", boutiqueID, since).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error

	return total, err
}

func (r *saleRepo) Recent(boutiqueID uuid.UUID, limit int) ([]models.Sale, error) {
	if limit < 1 {
		limit = 5
	}

	var sales []models.Sale
	err := r.db.Preload("Product").
		Where("boutique_id = ?", boutiqueID).
		Order("sold_at DESC").
		Limit(limit).
		Find(&sales).Error

	return sales, err
}
