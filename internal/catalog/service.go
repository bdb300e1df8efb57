package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Product is a leaf of the catalog tree.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	TariffCode    string              `json:"tariff_code"`
	MarkingStatus enums.MarkingStatus `json:"marking_status"`
}

// Subcategory groups products under a category.
type Subcategory struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Group is a top-level category with its nested subcategories.
type Group struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Stats aggregates counts over the loaded tree.
type Stats struct {
	Groups       int                         `json:"groups"`
	Products     int                         `json:"products"`
	ByMarkingTag map[enums.MarkingStatus]int `json:"by_marking_status"`
}

// Tree is the loaded catalog. Read-only after load.
type Tree struct {
	Groups []Group `json:"groups"`
	Stats  Stats   `json:"stats"`

	products map[string]productRef
}

type productRef struct {
	product       Product
	categoryID    string
	subcategoryID string
}

type treeRepository interface {
	LoadTree(ctx context.Context) ([]models.CatalogCategory, error)
}

// Service loads the category tree once and serves it from memory.
type Service struct {
	repo treeRepository

	mu   sync.RWMutex
	tree *Tree
}

// NewService builds the catalog service.
func NewService(repo treeRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repo}, nil
}

// Load fetches and validates the tree, then swaps it in. Malformed
// rows fail closed: the previous tree, if any, stays active.
func (s *Service) Load(ctx context.Context) error {
	rows, err := s.repo.LoadTree(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog tree")
	}

	tree, err := buildTree(rows)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return nil
}

// Tree returns the loaded tree.
func (s *Service) Tree() (*Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tree == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog not loaded")
	}
	return s.tree, nil
}

// FindProduct resolves a product id to its node and placement.
func (s *Service) FindProduct(id string) (Product, string, string, error) {
	tree, err := s.Tree()
	if err != nil {
		return Product{}, "", "", err
	}
	ref, ok := tree.products[id]
	if !ok {
		return Product{}, "", "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": id})
	}
	return ref.product, ref.categoryID, ref.subcategoryID, nil
}

func buildTree(rows []models.CatalogCategory) (*Tree, error) {
	tree := &Tree{
		products: map[string]productRef{},
	}
	tree.Stats.ByMarkingTag = map[enums.MarkingStatus]int{}

	for _, category := range rows {
		group := Group{ID: category.ID, Name: category.Name}
		for _, sub := range category.Subcategories {
			node := Subcategory{ID: sub.ID, Name: sub.Name}
			for _, row := range sub.Products {
				if strings.TrimSpace(row.TariffCode) == "" {
					return nil, pkgerrors.New(pkgerrors.CodeDependency, "malformed catalog row").
						WithDetails(map[string]any{"product_id": row.ID, "reason": "missing tariff code"})
				}
				if !row.MarkingStatus.IsValid() {
					return nil, pkgerrors.New(pkgerrors.CodeDependency, "malformed catalog row").
						WithDetails(map[string]any{"product_id": row.ID, "reason": "unknown marking status"})
				}
				if _, exists := tree.products[row.ID]; exists {
					return nil, pkgerrors.New(pkgerrors.CodeDependency, "malformed catalog row").
						WithDetails(map[string]any{"product_id": row.ID, "reason": "duplicate id"})
				}

				product := Product{
					ID:            row.ID,
					Name:          row.Name,
					TariffCode:    row.TariffCode,
					MarkingStatus: row.MarkingStatus,
				}
				node.Products = append(node.Products, product)
				tree.products[row.ID] = productRef{
					product:       product,
					categoryID:    category.ID,
					subcategoryID: sub.ID,
				}
				tree.Stats.Products++
				tree.Stats.ByMarkingTag[row.MarkingStatus]++
			}
			group.Subcategories = append(group.Subcategories, node)
		}
		tree.Groups = append(tree.Groups, group)
		tree.Stats.Groups++
	}

	return tree, nil
}
