package pricing

import (
	"context"
	"testing"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceTier{},
	))
	return conn
}

func TestLoaderBuildsBookFromRows(t *testing.T) {
	db := newTestDB(t)
	max := 100

	require.NoError(t, db.Create(&models.ServiceCategory{ID: "codes", Name: "Code emission", Tiered: true, Unit: "code", Position: 1}).Error)
	require.NoError(t, db.Create(&models.ServiceCategory{ID: "registration", Name: "Registration", Unit: "order", Position: 2}).Error)
	require.NoError(t, db.Create(&models.Service{ID: "reg", CategoryID: "registration", Name: "Turnkey registration", Price: decimal.NewFromInt(5000), Unit: "order", Position: 1}).Error)
	require.NoError(t, db.Create(&models.ServiceTier{ID: "codes-s", CategoryID: "codes", TierLabel: "up to 100", MinQty: 0, MaxQty: &max, UnitPrice: decimal.NewFromInt(10), Position: 1}).Error)

	repo, err := NewRepo(db)
	require.NoError(t, err)
	loader, err := NewLoader(repo)
	require.NoError(t, err)

	_, err = loader.Book()
	require.Error(t, err, "book must not be served before load")

	require.NoError(t, loader.Load(context.Background()))

	book, err := loader.Book()
	require.NoError(t, err)

	svc, ok := book.FlatService("reg")
	require.True(t, ok)
	require.Equal(t, "Turnkey registration", svc.Name)

	require.True(t, book.HasTieredCategory("codes"))
	require.Len(t, book.Tiers("codes"), 1)
	require.False(t, book.HasTieredCategory("registration"))
}

func TestLoaderRejectsMalformedTierTable(t *testing.T) {
	db := newTestDB(t)
	badMax := 10

	require.NoError(t, db.Create(&models.ServiceTier{ID: "broken", CategoryID: "codes", TierLabel: "broken", MinQty: 50, MaxQty: &badMax, UnitPrice: decimal.NewFromInt(1), Position: 1}).Error)

	repo, err := NewRepo(db)
	require.NoError(t, err)
	loader, err := NewLoader(repo)
	require.NoError(t, err)

	require.Error(t, loader.Load(context.Background()))

	_, err = loader.Book()
	require.Error(t, err, "failed load must not swap a book in")
}
