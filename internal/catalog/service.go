package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/arshoplabs/arshop-backend/pkg/config"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes storefront catalog reads.
type Service interface {
	Featured(ctx context.Context) ([]ProductDTO, error)
	List(ctx context.Context, filters ListFilters) (*ListingDTO, error)
	Get(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error)
	ARAssets(ctx context.Context, productID uuid.UUID) (*ARAssetsDTO, error)
	AdminList(ctx context.Context) ([]ProductDTO, error)
}

type service struct {
	repo          *Repository
	featuredCount int
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	count := cfg.FeaturedCount
	if count <= 0 {
		count = 4
	}
	return &service{repo: repo, featuredCount: count}, nil
}

// Featured returns the landing-page product selection.
func (s *service) Featured(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.Featured(ctx, s.featuredCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing featured products")
	}
	return productsFromModels(rows), nil
}

// List returns the filtered active products plus the distinct categories.
func (s *service) List(ctx context.Context, filters ListFilters) (*ListingDTO, error) {
	rows, err := s.repo.ListActive(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing categories")
	}
	return &ListingDTO{
		Products:   productsFromModels(rows),
		Categories: categories,
	}, nil
}

// Get loads a product detail with images.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return detailFromModel(product), nil
}

// ARAssets returns the assets for the AR experience view of a product.
func (s *service) ARAssets(ctx context.Context, productID uuid.UUID) (*ARAssetsDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	secondary := make([]ProductImageDTO, 0, len(product.Images))
	for _, img := range product.Images {
		if img.IsSecondary {
			secondary = append(secondary, imageFromModel(img))
		}
	}
	return &ARAssetsDTO{
		ProductID:       product.ID,
		Name:            product.Name,
		MainImage:       product.MainImage,
		SecondaryImages: secondary,
	}, nil
}

// AdminList returns every product including inactive ones.
func (s *service) AdminList(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing all products")
	}
	return productsFromModels(rows), nil
}
