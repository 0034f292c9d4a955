package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/arshoplabs/arshop-backend/internal/users"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	"github.com/arshoplabs/arshop-backend/pkg/db"
	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
	"github.com/arshoplabs/arshop-backend/pkg/security"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

// Run populates the dev database with an admin account and sample
// products. It is idempotent: existing rows are left untouched.
func Run(ctx context.Context, client *db.Client, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	if client == nil {
		return fmt.Errorf("db client required")
	}

	return client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := seedAdmin(ctx, tx, passwordCfg); err != nil {
			return err
		}
		if err := seedProducts(ctx, tx); err != nil {
			return err
		}
		if logg != nil {
			logg.Info(ctx, "seed data ensured")
		}
		return nil
	})
}

func seedAdmin(ctx context.Context, tx *gorm.DB, passwordCfg config.PasswordConfig) error {
	repo := users.NewRepository(tx)
	_, err := repo.FindByUsername(ctx, adminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("looking up admin user: %w", err)
	}

	hash, err := security.HashPassword(adminPassword, passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hash,
		IsAdmin:      true,
	}); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	return nil
}

func seedProducts(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{
			Name:        "Premium Sofa",
			Description: "High-quality mesh comfort sofa",
			Price:       decimal.RequireFromString("299.99"),
			MainImage:   "/static/img/sofa.webp",
			Stock:       50,
			Category:    "furniture",
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "/static/img/sofaqr.png", IsSecondary: true},
			},
		},
		{
			Name:        "Smart Lamp",
			Description: "Advanced smart lamp",
			Price:       decimal.RequireFromString("199.99"),
			MainImage:   "/static/img/lamp.png",
			Stock:       30,
			Category:    "Electronics",
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "/static/img/lampqr.png", IsSecondary: true},
			},
		},
		{
			Name:        "Designer Chair",
			Description: "Premium Quality chair",
			Price:       decimal.RequireFromString("49.99"),
			MainImage:   "/static/img/chair.jpg",
			Stock:       100,
			Category:    "furniture",
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "/static/img/chairqr.png", IsSecondary: true},
			},
		},
	}
	if err := tx.WithContext(ctx).Create(&products).Error; err != nil {
		return fmt.Errorf("creating sample products: %w", err)
	}
	return nil
}
