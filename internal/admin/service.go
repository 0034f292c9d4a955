package admin

import (
	"context"
	"fmt"

	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardDTO carries the entity counts shown on the admin landing view.
type DashboardDTO struct {
	UserCount    int64 `json:"user_count"`
	ProductCount int64 `json:"product_count"`
	OrderCount   int64 `json:"order_count"`
}

// Service exposes the admin read surface.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

type service struct {
	users    counter
	products counter
	orders   counter
}

// NewService constructs the admin service from the entity repositories.
func NewService(users, products, orders counter) (Service, error) {
	if users == nil || products == nil || orders == nil {
		return nil, fmt.Errorf("users, products, and orders repositories required")
	}
	return &service{users: users, products: products, orders: orders}, nil
}

// Dashboard returns the current entity counts.
func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting users")
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting products")
	}
	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting orders")
	}
	return &DashboardDTO{
		UserCount:    userCount,
		ProductCount: productCount,
		OrderCount:   orderCount,
	}, nil
}
