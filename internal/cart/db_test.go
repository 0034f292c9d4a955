package cart

import (
	"testing"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/google/uuid"
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
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductImage{}, &models.CartItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, qty int) *models.CartItem {
	t.Helper()

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to seed cart item: %v", err)
	}
	return item
}
