package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCategory partitions purchasable services. Tiered categories
// price by quantity bracket instead of a fixed fee.
type ServiceCategory struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Tiered    bool      `gorm:"column:tiered;not null;default:false"`
	Unit      string    `gorm:"column:unit;not null;default:'unit'"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

// Service is a flat-fee purchasable line.
type Service struct {
	ID         string          `gorm:"column:id;primaryKey"`
	CategoryID string          `gorm:"column:category_id;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Unit       string          `gorm:"column:unit;not null"`
	Position   int             `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Service) TableName() string { return "services" }

// ServiceTier is one quantity bracket of a tiered category. Brackets are
// expected to be contiguous and non-overlapping; MaxQty nil means the
// bracket is open-ended.
type ServiceTier struct {
	ID         string          `gorm:"column:id;primaryKey"`
	CategoryID string          `gorm:"column:category_id;not null;index"`
	TierLabel  string          `gorm:"column:tier_label;not null"`
	MinQty     int             `gorm:"column:min_qty;not null"`
	MaxQty     *int            `gorm:"column:max_qty"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	Position   int             `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (ServiceTier) TableName() string { return "service_tiers" }
