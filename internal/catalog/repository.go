package catalog

import (
	"context"
	"strings"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilters narrows the active-product listing.
type ListFilters struct {
	Category string
	Search   string
}

// Repository exposes product read operations for the storefront.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active products matching the filters, newest first.
// Category is an exact match; search is a case-insensitive name substring.
func (r *Repository) ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(filters.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}

	var rows []models.Product
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// Featured returns the first n active products.
func (r *Repository) Featured(ctx context.Context, n int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

// FindByID loads a product with its images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories returns the distinct non-empty categories of active products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// ListAll returns every product including inactive ones, for admin views.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}
