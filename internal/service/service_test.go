package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))

	return repo.New(db, nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

type productSpec struct {
	Name      string
	Price     string
	SalePrice string
	Stock     uint
	Inactive  bool
}

func seedProduct(t *testing.T, r *repo.GormRepo, spec productSpec) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        spec.Name,
		Slug:        spec.Name,
		Description: spec.Name,
		Price:       dec(spec.Price),
		Stock:       spec.Stock,
		IsActive:    !spec.Inactive,
	}
	if spec.SalePrice != "" {
		p.SalePrice = nullDec(spec.SalePrice)
	}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func productStock(t *testing.T, r *repo.GormRepo, id uint) uint {
	t.Helper()

	var p models.Product
	require.NoError(t, r.DB.First(&p, id).Error)
	return p.Stock
}

func cartSize(t *testing.T, r *repo.GormRepo, userID uint) int {
	t.Helper()

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	return int(count)
}
