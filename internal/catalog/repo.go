package catalog

import (
	"context"
	"fmt"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repo reads catalog reference rows.
type Repo struct {
	db *gorm.DB
}

// NewRepo builds the catalog repository.
func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Repo{db: db}, nil
}

// LoadTree returns every category with its subcategories and products.
func (r *Repo) LoadTree(ctx context.Context) ([]models.CatalogCategory, error) {
	var rows []models.CatalogCategory
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Subcategories.Products").
		Order("position asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
