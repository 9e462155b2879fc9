package repositories

import (
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepo interface {
	// Catalog returns active products in stable creation order. The slice is
	// the per-turn snapshot shared by the intent extractor and the entity
	// resolver so both see the same names.
	Catalog(boutiqueID uuid.UUID, limit int) ([]models.Product, error)
	LowStock(boutiqueID uuid.UUID, limit int) ([]models.Product, error)
	CountLowStock(boutiqueID uuid.UUID) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Catalog(boutiqueID uuid.UUID, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 30
	}

	var products []models.Product
	err := r.db.Where("boutique_id = ? AND is_active = ?", boutiqueID, true).
		Order("created_at ASC").
		Limit(limit).
		Find(&products).Error

	return products, err
}

func (r *productRepo) LowStock(boutiqueID uuid.UUID, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 5
	}

	var products []models.Product
	err := r.db.Where("boutique_id = ? AND is_active = ? AND stock <= alert_threshold", boutiqueID, true).
		Order("stock ASC").
		Limit(limit).
		Find(&products).Error

	return products, err
}

func (r *productRepo) CountLowStock(boutiqueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("boutique_id = ? AND is_active = ? AND stock <= alert_threshold", boutiqueID, true).
		Count(&count).Error

	return count, err
}
