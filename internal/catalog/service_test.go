package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"github.com/markwize/quotewizard-backend/pkg/enums"
)

type fakeRepo struct {
	rows []models.CatalogCategory
	err  error
}

func (f *fakeRepo) LoadTree(ctx context.Context) ([]models.CatalogCategory, error) {
	return f.rows, f.err
}

func validRows() []models.CatalogCategory {
	return []models.CatalogCategory{
		{
			ID:   "apparel",
			Name: "Apparel",
			Subcategories: []models.CatalogSubcategory{
				{
					ID:   "footwear",
					Name: "Footwear",
					Products: []models.CatalogProduct{
						{ID: "p1", Name: "Leather shoes", TariffCode: "6403", MarkingStatus: enums.MarkingStatusMandatory},
						{ID: "p2", Name: "Sneakers", TariffCode: "6404", MarkingStatus: enums.MarkingStatusMandatory},
					},
				},
			},
		},
		{
			ID:   "dairy",
			Name: "Dairy",
			Subcategories: []models.CatalogSubcategory{
				{
					ID:   "cheese",
					Name: "Cheese",
					Products: []models.CatalogProduct{
						{ID: "p3", Name: "Hard cheese", TariffCode: "0406", MarkingStatus: enums.MarkingStatusExperimental},
					},
				},
			},
		},
	}
}

func TestLoadBuildsTreeAndStats(t *testing.T) {
	svc, err := NewService(&fakeRepo{rows: validRows()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	tree, err := svc.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if tree.Stats.Groups != 2 || tree.Stats.Products != 3 {
		t.Fatalf("unexpected stats %+v", tree.Stats)
	}
	if tree.Stats.ByMarkingTag[enums.MarkingStatusMandatory] != 2 {
		t.Fatalf("expected 2 mandatory products, got %d", tree.Stats.ByMarkingTag[enums.MarkingStatusMandatory])
	}

	product, categoryID, subcategoryID, err := svc.FindProduct("p3")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if product.TariffCode != "0406" || categoryID != "dairy" || subcategoryID != "cheese" {
		t.Fatalf("unexpected placement %+v %s/%s", product, categoryID, subcategoryID)
	}

	if _, _, _, err := svc.FindProduct("ghost"); err == nil {
		t.Fatal("expected not found for unknown product")
	}
}

func TestTreeBeforeLoadFailsClosed(t *testing.T) {
	svc, err := NewService(&fakeRepo{rows: validRows()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Tree(); err == nil {
		t.Fatal("expected error before load")
	}
}

func TestLoadRejectsMalformedRowsAndKeepsPreviousTree(t *testing.T) {
	repo := &fakeRepo{rows: validRows()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	repo.rows = []models.CatalogCategory{
		{
			ID: "broken",
			Subcategories: []models.CatalogSubcategory{
				{
					ID: "sub",
					Products: []models.CatalogProduct{
						{ID: "px", Name: "No code", TariffCode: "", MarkingStatus: enums.MarkingStatusMandatory},
					},
				},
			},
		},
	}
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected load failure for malformed row")
	}

	// The previously loaded tree stays active.
	tree, err := svc.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if tree.Stats.Products != 3 {
		t.Fatalf("previous tree replaced, stats %+v", tree.Stats)
	}
}

func TestLoadRejectsDuplicateProductIDs(t *testing.T) {
	rows := validRows()
	rows[1].Subcategories[0].Products[0].ID = "p1"
	svc, err := NewService(&fakeRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected load failure for duplicate product id")
	}
}

func TestLoadWrapsRepositoryErrors(t *testing.T) {
	svc, err := NewService(&fakeRepo{err: errors.New("db offline")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected dependency error")
	}
}
