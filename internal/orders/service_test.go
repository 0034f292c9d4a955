package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// in-memory sqlite lives per connection
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return conn
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total string, placedAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:          userID,
		TotalAmount:     decimal.RequireFromString(total),
		ShippingAddress: "1 Main St",
		CreatedAt:       placedAt,
	}
	require.NoError(t, db.Create(order).Error)

	item := models.OrderItem{
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Quantity:  1,
		Price:     decimal.RequireFromString(total),
	}
	require.NoError(t, db.Create(&item).Error)
	return order
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	userID := uuid.New()

	older := seedOrder(t, db, userID, "49.99", time.Now().Add(-2*time.Hour))
	newer := seedOrder(t, db, userID, "299.99", time.Now().Add(-time.Hour))
	seedOrder(t, db, uuid.New(), "199.99", time.Now())

	history, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, newer.ID, history[0].ID)
	require.Equal(t, older.ID, history[1].ID)
	require.Len(t, history[0].Items, 1)
}

func TestHistoryEmptyForNewUser(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	history, err := svc.History(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestGetLoadsOwnOrder(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	userID := uuid.New()

	placed := seedOrder(t, db, userID, "299.99", time.Now())

	order, err := svc.Get(context.Background(), userID, placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.ID, order.ID)
	require.Equal(t, "299.99", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 1)
}

func TestGetRejectsForeignOrder(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	placed := seedOrder(t, db, uuid.New(), "49.99", time.Now())

	_, err := svc.Get(context.Background(), uuid.New(), placed.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestGetUnknownOrder(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
