package services

import (
	"strings"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
)

// ResolveProduct matches an extracted product name against the catalog
// snapshot: case-insensitive substring, first hit in catalog order wins.
// "riz" therefore matches both "Riz parfumé" and "Sac de riz"; the older
// product takes it.
func ResolveProduct(catalog []models.Product, name string) *models.Product {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for i := range catalog {
		if strings.Contains(strings.ToLower(catalog[i].Name), needle) {
			return &catalog[i]
		}
	}
	return nil
}
