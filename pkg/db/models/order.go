package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the immutable record produced at checkout. There is no status
// lifecycle; the row is written once and never updated.
type Order struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;not null"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
