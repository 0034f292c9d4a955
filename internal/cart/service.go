package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustAction names the two cart quantity mutations.
type AdjustAction string

const (
	ActionIncrease AdjustAction = "increase"
	ActionDecrease AdjustAction = "decrease"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the per-user cart operations.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AddResult, error)
	Adjust(ctx context.Context, userID, itemID uuid.UUID, action AdjustAction) (*AdjustResult, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	View(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Add merges the quantity into the user's existing line for the product,
// or creates a new line. Stock is not checked at add time.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AddResult, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if err := s.repo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
		}
		return &AddResult{ItemID: existing.ID, Quantity: merged, Merged: true}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		item, err := s.repo.Create(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart line")
		}
		return &AddResult{ItemID: item.ID, Quantity: item.Quantity}, nil

	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}
}

// Adjust applies an increase or decrease to a cart line the user owns.
// An increase at the stock cap and a decrease at quantity 1 are refused
// with a warning rather than an error; the decrease case removes the row.
func (s *service) Adjust(ctx context.Context, userID, itemID uuid.UUID, action AdjustAction) (*AdjustResult, error) {
	item, err := s.loadOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionIncrease:
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
		}
		if item.Quantity >= product.Stock {
			return &AdjustResult{
				ItemID:   item.ID,
				Quantity: item.Quantity,
				Warning:  fmt.Sprintf("Cannot add more. Only %d in stock.", product.Stock),
			}, nil
		}
		next := item.Quantity + 1
		if err := s.repo.UpdateQuantity(ctx, item.ID, next); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
		}
		return &AdjustResult{ItemID: item.ID, Quantity: next}, nil

	case ActionDecrease:
		if item.Quantity <= 1 {
			if err := s.repo.Delete(ctx, item.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
			}
			return &AdjustResult{
				ItemID:  item.ID,
				Removed: true,
				Warning: "Item removed from cart.",
			}, nil
		}
		next := item.Quantity - 1
		if err := s.repo.UpdateQuantity(ctx, item.ID, next); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
		}
		return &AdjustResult{ItemID: item.ID, Quantity: next}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be increase or decrease")
	}
}

// Remove deletes a cart line the user owns.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.loadOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
	}
	return nil
}

// View returns the user's cart lines with the total recomputed from
// live product prices.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart")
	}
	return FromModels(rows), nil
}

func (s *service) loadOwned(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}
	if item.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
	}
	return item, nil
}
