package pricing

import (
	"context"
	"fmt"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repo reads the service catalog rows.
type Repo struct {
	db *gorm.DB
}

// NewRepo builds the service catalog repository.
func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var rows []models.ServiceCategory
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) ListServices(ctx context.Context) ([]models.Service, error) {
	var rows []models.Service
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) ListTiers(ctx context.Context) ([]models.ServiceTier, error) {
	var rows []models.ServiceTier
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
