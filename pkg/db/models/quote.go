package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Quote is the persisted result of a wizard submission. Only the
// submission service creates quotes; the engine never fabricates one.
type Quote struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Number             string          `gorm:"column:number;not null;uniqueIndex"`
	SessionID          string          `gorm:"column:session_id;not null;index"`
	CompanyName        string          `gorm:"column:company_name;not null"`
	CompanyRegNumber   string          `gorm:"column:company_reg_number;not null"`
	CompanyAddress     *string         `gorm:"column:company_address"`
	ContactName        string          `gorm:"column:contact_name;not null"`
	ContactPhone       string          `gorm:"column:contact_phone;not null"`
	ContactEmail       *string         `gorm:"column:contact_email"`
	RefCode            *string         `gorm:"column:ref_code"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	ValidUntil         time.Time       `gorm:"column:valid_until;not null"`
	Lines              []QuoteLine     `gorm:"foreignKey:QuoteID"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteLine snapshots one priced position of a quote.
type QuoteLine struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID    uuid.UUID           `gorm:"column:quote_id;type:uuid;not null;index"`
	Kind       enums.QuoteLineKind `gorm:"column:kind;not null"`
	ServiceID  *string             `gorm:"column:service_id"`
	CategoryID *string             `gorm:"column:category_id"`
	TierLabel  *string             `gorm:"column:tier_label"`
	Label      string              `gorm:"column:label;not null"`
	Quantity   int                 `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,4);not null"`
	LineTotal  decimal.Decimal     `gorm:"column:line_total;type:numeric(14,2);not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (QuoteLine) TableName() string { return "quote_lines" }
