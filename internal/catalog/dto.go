package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
)

// ProductDTO is the listing shape for storefront reads.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MainImage   string          `json:"main_image"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductImageDTO is the transport shape for an additional product asset.
type ProductImageDTO struct {
	ID          uuid.UUID `json:"id"`
	ImageURL    string    `json:"image_url"`
	IsSecondary bool      `json:"is_secondary"`
}

// ProductDetailDTO extends the listing shape with the product's images.
type ProductDetailDTO struct {
	ProductDTO
	Images []ProductImageDTO `json:"images"`
}

// ARAssetsDTO carries the assets needed by the AR experience view.
type ARAssetsDTO struct {
	ProductID       uuid.UUID         `json:"product_id"`
	Name            string            `json:"name"`
	MainImage       string            `json:"main_image"`
	SecondaryImages []ProductImageDTO `json:"secondary_images"`
}

// ListingDTO pairs filtered products with the distinct category set.
type ListingDTO struct {
	Products   []ProductDTO `json:"products"`
	Categories []string     `json:"categories"`
}

func productFromModel(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		MainImage:   p.MainImage,
		Stock:       p.Stock,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func productsFromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromModel(row))
	}
	return out
}

func imageFromModel(img models.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:          img.ID,
		ImageURL:    img.ImageURL,
		IsSecondary: img.IsSecondary,
	}
}

func detailFromModel(p *models.Product) *ProductDetailDTO {
	if p == nil {
		return nil
	}
	images := make([]ProductImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageFromModel(img))
	}
	return &ProductDetailDTO{
		ProductDTO: productFromModel(*p),
		Images:     images,
	}
}
