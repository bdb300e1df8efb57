package models

import (
	"time"

	"github.com/markwize/quotewizard-backend/pkg/enums"
)

// CatalogCategory is a top-level group in the product tree. Catalog rows
// are reference data seeded by migrations; the engine never mutates them.
type CatalogCategory struct {
	ID            string               `gorm:"column:id;primaryKey"`
	Name          string               `gorm:"column:name;not null"`
	Position      int                  `gorm:"column:position;not null;default:0"`
	Subcategories []CatalogSubcategory `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (CatalogCategory) TableName() string { return "catalog_categories" }

// CatalogSubcategory nests under a category and owns products.
type CatalogSubcategory struct {
	ID         string           `gorm:"column:id;primaryKey"`
	CategoryID string           `gorm:"column:category_id;not null;index"`
	Name       string           `gorm:"column:name;not null"`
	Position   int              `gorm:"column:position;not null;default:0"`
	Products   []CatalogProduct `gorm:"foreignKey:SubcategoryID"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (CatalogSubcategory) TableName() string { return "catalog_subcategories" }

// CatalogProduct is a leaf node carrying the tariff classification code
// and the marking regime the product falls under.
type CatalogProduct struct {
	ID            string              `gorm:"column:id;primaryKey"`
	SubcategoryID string              `gorm:"column:subcategory_id;not null;index"`
	Name          string              `gorm:"column:name;not null"`
	TariffCode    string              `gorm:"column:tariff_code;not null"`
	MarkingStatus enums.MarkingStatus `gorm:"column:marking_status;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (CatalogProduct) TableName() string { return "catalog_products" }
