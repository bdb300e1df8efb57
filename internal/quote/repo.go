package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/markwize/quotewizard-backend/pkg/db"
	"github.com/markwize/quotewizard-backend/pkg/db/models"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repo persists quotes and their line snapshots.
type Repo struct {
	db *gorm.DB
}

// NewRepo builds a quote repository over the given connection.
func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &Repo{db: db}, nil
}

// CreateInTx inserts the quote and its lines inside the caller's
// transaction. Lines ride along as a gorm association.
func (r *Repo) CreateInTx(tx *gorm.DB, quote *models.Quote) error {
	if err := tx.Create(quote).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "quote number already taken")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist quote")
	}
	return nil
}

// GetByID loads a quote with its lines.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").
				WithDetails(map[string]any{"quote_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return &quote, nil
}

// GetByNumber loads a quote by its public number.
func (r *Repo) GetByNumber(ctx context.Context, number string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").
				WithDetails(map[string]any{"number": number})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return &quote, nil
}
