package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/infrastructure/database"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by ATELIER_TEST_DATABASE_URL and
// skips the test when it is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("ATELIER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ATELIER_TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) *entity.Product {
	t.Helper()
	suffix := uuid.NewString()[:8]
	p := &entity.Product{
		Name:          "Test Bilezik " + suffix,
		Slug:          "test-bilezik-" + suffix,
		Code:          "TB-" + suffix,
		SalePrice:     decimal.NewFromInt(100),
		PurchasePrice: decimal.NewFromInt(60),
		IsActive:      true,
	}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), p))
	return p
}

func TestSaleRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSaleRepository(db)
	p := seedProduct(t, db)

	sale := &entity.Sale{
		SaleNo:       "SAT-IT" + uuid.NewString()[:6],
		SaleDate:     time.Now(),
		CustomerName: "Integration",
		SubTotal:     decimal.NewFromInt(200),
		TaxRate:      decimal.NewFromInt(18),
		TaxAmount:    decimal.NewFromInt(36),
		TotalAmount:  decimal.NewFromInt(236),
		Items: []entity.SaleItem{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: p.SalePrice, UnitCost: p.PurchasePrice, TotalPrice: p.SalePrice},
			{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: p.SalePrice, UnitCost: p.PurchasePrice, TotalPrice: p.SalePrice},
		},
	}
	require.NoError(t, repo.Create(ctx, sale))
	t.Cleanup(func() { _ = repo.Delete(ctx, sale.ID) })

	got, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[1].Position)

	got.Items = got.Items[:1]
	require.NoError(t, repo.Replace(ctx, got))

	again, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, again.Items, 1)

	list, total, err := repo.List(ctx, &domainRepo.SaleFilterParams{
		Pagination: pagination.Default(),
		Search:     sale.SaleNo,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAnalyticsDailyProfit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db)

	day := time.Date(2001, 2, 3, 10, 0, 0, 0, time.UTC)
	sale := &entity.Sale{
		SaleNo:         "SAT-AN" + uuid.NewString()[:6],
		SaleDate:       day,
		CustomerName:   "Analytics",
		SubTotal:       decimal.NewFromInt(200),
		DiscountAmount: decimal.NewFromInt(20),
		TaxRate:        decimal.NewFromInt(18),
		TaxAmount:      decimal.RequireFromString("32.4"),
		TotalAmount:    decimal.RequireFromString("212.4"),
		Items: []entity.SaleItem{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 2, UnitPrice: p.SalePrice, UnitCost: p.PurchasePrice, TotalPrice: decimal.NewFromInt(200)},
		},
	}
	sales := NewSaleRepository(db)
	require.NoError(t, sales.Create(ctx, sale))
	t.Cleanup(func() { _ = sales.Delete(ctx, sale.ID) })

	rows, err := NewAnalyticsRepository(db).DailyProfit(ctx, day.Truncate(24*time.Hour), day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Revenue.Equal(decimal.NewFromInt(180)), rows[0].Revenue.String())
	assert.True(t, rows[0].Cost.Equal(decimal.NewFromInt(120)), rows[0].Cost.String())
}

func TestCampaignMarkSending(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewCampaignRepository(db)

	c := &entity.Campaign{Title: "Spring", Subject: "New rings", Body: "b"}
	require.NoError(t, repo.Create(ctx, c))
	t.Cleanup(func() { db.Unscoped().Delete(&entity.Campaign{}, "id = ?", c.ID) })

	ok, err := repo.MarkSending(ctx, c.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkSending(ctx, c.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CampaignStatusSending, got.Status)
	assert.Equal(t, 3, got.RecipientCount)
}

func TestIdempotencyCreateReplacesExpiredRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewIdempotencyRepository(db)
	key := "it-" + uuid.NewString()
	t.Cleanup(func() { db.Where("key = ?", key).Delete(&entity.IdempotencyKey{}) })

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: key, ClientID: "192.0.2.1", Endpoint: "POST /api/sales",
		RequestHash: "old", ResponseCode: 201, ResponseBody: `{"n":0}`,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: key, ClientID: "192.0.2.1", Endpoint: "POST /api/sales",
		RequestHash: "new", ResponseCode: 201, ResponseBody: `{"n":1}`,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: key, ClientID: "192.0.2.1", Endpoint: "POST /api/sales",
		RequestHash: "racer", ResponseCode: 201, ResponseBody: `{"n":2}`,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	got, err := repo.GetByKey(ctx, key, "192.0.2.1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.RequestHash)
	assert.Equal(t, `{"n":1}`, got.ResponseBody)
}
