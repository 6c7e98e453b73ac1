package models

import (
	"time"

	"github.com/google/uuid"
)

// Storefront listing sections. Home fetches all three concurrently.
type ProductSection string

const (
	SectionFeatured   ProductSection = "featured"
	SectionNewArrival ProductSection = "new"
	SectionTopSelling ProductSection = "top-selling"
)

// Product prices: ListPrice is the pre-discount MRP, SellingPrice the price
// the buyer actually pays. Both in rupees.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ListPrice     float64   `json:"list_price"`
	SellingPrice  float64   `json:"selling_price"`
	StockQuantity int       `json:"stock_quantity"`
	Featured      bool      `json:"featured"`
	TopSelling    bool      `json:"top_selling"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category" validate:"required"`
	ListPrice     float64 `json:"list_price" validate:"required,gt=0"`
	SellingPrice  float64 `json:"selling_price" validate:"required,gt=0,ltefield=ListPrice"`
	StockQuantity int     `json:"stock_quantity" validate:"required,gte=0"`
	Featured      bool    `json:"featured"`
	TopSelling    bool    `json:"top_selling"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	ListPrice     *float64 `json:"list_price,omitempty" validate:"omitempty,gt=0"`
	SellingPrice  *float64 `json:"selling_price,omitempty" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Featured      *bool    `json:"featured,omitempty"`
	TopSelling    *bool    `json:"top_selling,omitempty"`
}

type HomeResponse struct {
	Featured    []*Product `json:"featured"`
	NewArrivals []*Product `json:"new_arrivals"`
	TopSelling  []*Product `json:"top_selling"`
}
