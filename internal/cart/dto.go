package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
)

// LineDTO is one cart row joined with its product data.
type LineDTO struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	MainImage string          `json:"main_image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     int             `json:"stock"`
}

// CartDTO is the full cart view with the recomputed total.
type CartDTO struct {
	Items []LineDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// AddResult reports the line state after an add operation.
type AddResult struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Merged   bool      `json:"merged"`
}

// AdjustResult reports the line state after an increase/decrease.
// Warning carries the user-facing message when the adjustment was
// refused or the row was removed; it is not an error.
type AdjustResult struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Removed  bool      `json:"removed"`
	Warning  string    `json:"warning,omitempty"`
}

func lineFromModel(item models.CartItem) LineDTO {
	qty := decimal.NewFromInt(int64(item.Quantity))
	return LineDTO{
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Name:      item.Product.Name,
		MainImage: item.Product.MainImage,
		Price:     item.Product.Price,
		Quantity:  item.Quantity,
		LineTotal: item.Product.Price.Mul(qty),
		Stock:     item.Product.Stock,
	}
}

// FromModels builds the cart view from preloaded line items.
func FromModels(rows []models.CartItem) *CartDTO {
	items := make([]LineDTO, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		line := lineFromModel(row)
		items = append(items, line)
		total = total.Add(line.LineTotal)
	}
	return &CartDTO{Items: items, Total: total}
}
