package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/arshoplabs/arshop-backend/internal/cart"
	"github.com/arshoplabs/arshop-backend/internal/orders"
	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a cart into a placed order.
type Service interface {
	Preview(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
	Execute(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput captures the form payload for placing an order.
type CheckoutInput struct {
	ShippingAddress string
}

type service struct {
	tx         txRunner
	cartRepo   *cart.Repository
	ordersRepo *orders.Repository
}

// NewService builds the checkout service.
func NewService(tx txRunner, cartRepo *cart.Repository, ordersRepo *orders.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
	}, nil
}

// Preview returns the cart lines and total shown before placing the order.
func (s *service) Preview(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	rows, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart")
	}
	return cart.FromModels(rows), nil
}

// Execute places an order from the user's live cart inside one transaction:
// compute the total, insert the order, snapshot each cart line's product
// price into an order item, then clear the cart. Stock is not touched.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	shipping := strings.TrimSpace(input.ShippingAddress)
	if shipping == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		lines, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		for _, line := range lines {
			qty := decimal.NewFromInt(int64(line.Quantity))
			total = total.Add(line.Product.Price.Mul(qty))
		}

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			UserID:          userID,
			TotalAmount:     total,
			ShippingAddress: shipping,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
		}
		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order items")
		}

		if err := cartRepo.DeleteByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
		}

		order.Items = items
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders.FromModel(placed), nil
}
