package pricing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Book is the loaded service catalog: flat services plus tier tables,
// indexed for cart resolution. Read-only after construction.
type Book struct {
	categories []models.ServiceCategory
	services   map[string]models.Service
	tiers      map[string][]models.ServiceTier
}

// NewBook indexes the given rows. Tier tables are kept in position order.
func NewBook(categories []models.ServiceCategory, services []models.Service, tiers []models.ServiceTier) *Book {
	b := &Book{
		categories: make([]models.ServiceCategory, len(categories)),
		services:   make(map[string]models.Service, len(services)),
		tiers:      make(map[string][]models.ServiceTier),
	}
	copy(b.categories, categories)
	sort.SliceStable(b.categories, func(i, j int) bool {
		return b.categories[i].Position < b.categories[j].Position
	})
	for _, svc := range services {
		b.services[svc.ID] = svc
	}
	for _, tier := range tiers {
		b.tiers[tier.CategoryID] = append(b.tiers[tier.CategoryID], tier)
	}
	for id := range b.tiers {
		rows := b.tiers[id]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Position < rows[j].Position
		})
		b.tiers[id] = rows
	}
	return b
}

// Categories returns the category list in position order.
func (b *Book) Categories() []models.ServiceCategory {
	out := make([]models.ServiceCategory, len(b.categories))
	copy(out, b.categories)
	return out
}

// FlatService returns the flat service with the given id.
func (b *Book) FlatService(id string) (models.Service, bool) {
	svc, ok := b.services[id]
	return svc, ok
}

// Tiers returns the tier table of a category in position order.
func (b *Book) Tiers(categoryID string) []models.ServiceTier {
	rows := b.tiers[categoryID]
	out := make([]models.ServiceTier, len(rows))
	copy(out, rows)
	return out
}

// HasTieredCategory reports whether the category has a tier table.
func (b *Book) HasTieredCategory(categoryID string) bool {
	return len(b.tiers[categoryID]) > 0
}

type bookRepository interface {
	ListCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ListTiers(ctx context.Context) ([]models.ServiceTier, error)
}

// Loader loads the service catalog once and serves the cached book.
type Loader struct {
	repo bookRepository

	mu   sync.RWMutex
	book *Book
}

// NewLoader builds a book loader over the given repository.
func NewLoader(repo bookRepository) (*Loader, error) {
	if repo == nil {
		return nil, fmt.Errorf("book repository required")
	}
	return &Loader{repo: repo}, nil
}

// Load fetches the catalog rows and swaps the cached book in. A load
// failure keeps the previous book, if any.
func (l *Loader) Load(ctx context.Context) error {
	categories, err := l.repo.ListCategories(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service categories")
	}
	services, err := l.repo.ListServices(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load services")
	}
	tiers, err := l.repo.ListTiers(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service tiers")
	}

	for _, tier := range tiers {
		if tier.MaxQty != nil && *tier.MaxQty < tier.MinQty {
			return pkgerrors.New(pkgerrors.CodeDependency, "malformed tier table").
				WithDetails(map[string]any{"tier": tier.ID})
		}
	}

	book := NewBook(categories, services, tiers)

	l.mu.Lock()
	l.book = book
	l.mu.Unlock()
	return nil
}

// Book returns the cached book.
func (l *Loader) Book() (*Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.book == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "service catalog not loaded")
	}
	return l.book, nil
}
