package quote

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Quote{}, &models.QuoteLine{}))
	return conn
}

func sampleQuote() *models.Quote {
	id := uuid.New()
	serviceID := "reg"
	categoryID := "codes"
	tierLabel := "101 to 1000"
	return &models.Quote{
		ID:               id,
		Number:           "MW-20260829-AB12CD34",
		SessionID:        "sess-1",
		CompanyName:      "Acme LLC",
		CompanyRegNumber: "1157746000000",
		ContactName:      "Ivan",
		ContactPhone:     "+79990000000",
		TotalAmount:      decimal.NewFromInt(9000),
		ValidUntil:       time.Now().UTC().AddDate(0, 0, 14),
		Lines: []models.QuoteLine{
			{
				ID:        uuid.New(),
				QuoteID:   id,
				Kind:      enums.QuoteLineKindFlat,
				ServiceID: &serviceID,
				Label:     "Turnkey registration",
				Quantity:  1,
				UnitPrice: decimal.NewFromInt(5000),
				LineTotal: decimal.NewFromInt(5000),
			},
			{
				ID:         uuid.New(),
				QuoteID:    id,
				Kind:       enums.QuoteLineKindTiered,
				CategoryID: &categoryID,
				TierLabel:  &tierLabel,
				Label:      "Code emission",
				Quantity:   500,
				UnitPrice:  decimal.NewFromInt(8),
				LineTotal:  decimal.NewFromInt(4000),
			},
		},
	}
}

func TestRepoCreateAndLoadWithLines(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	record := sampleQuote()
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.CreateInTx(tx, record)
	}))

	loaded, err := repo.GetByID(context.Background(), record.ID.String())
	require.NoError(t, err)
	require.Equal(t, record.Number, loaded.Number)
	require.Len(t, loaded.Lines, 2)
	require.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(9000)))

	byNumber, err := repo.GetByNumber(context.Background(), record.Number)
	require.NoError(t, err)
	require.Equal(t, record.ID, byNumber.ID)
}

func TestRepoNotFound(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), uuid.NewString())
	require.Error(t, err)

	_, err = repo.GetByNumber(context.Background(), "MW-00000000-MISSING1")
	require.Error(t, err)
}

func TestRepoRejectsDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	first := sampleQuote()
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.CreateInTx(tx, first)
	}))

	second := sampleQuote()
	second.ID = uuid.New()
	for i := range second.Lines {
		second.Lines[i].ID = uuid.New()
		second.Lines[i].QuoteID = second.ID
	}
	require.Error(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.CreateInTx(tx, second)
	}))
}
