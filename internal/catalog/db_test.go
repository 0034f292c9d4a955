package catalog

import (
	"testing"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// in-memory sqlite lives per connection
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price string, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		Category: category,
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}
