package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/pricing"
)

// BuyType distinguishes checkout entered from the persisted cart from the
// single-product "buy now" path. The strings are part of the API contract.
type BuyType string

const (
	BuyTypeCart   BuyType = "cartBuy"
	BuyTypeDirect BuyType = "directBuy"
)

// CartItem is one persisted cart line. Only product id, quantity and the unit
// price snapshot are stored; the derived amounts are recomputed through the
// pricing package on every read.
type CartItem struct {
	ProductID        uuid.UUID `json:"product_id"`
	Quantity         int       `json:"quantity"`
	UnitSellingPrice float64   `json:"unit_selling_price"`
	UnitListPrice    float64   `json:"unit_list_price"`
	ProductName      string    `json:"product_name,omitempty"`
}

// Cart is the priced view handed to clients. A direct-buy cart is synthesized
// in memory (ID is zero, nothing persisted) and Mode is BuyTypeDirect.
type Cart struct {
	ID        uuid.UUID            `json:"id,omitempty"`
	UserID    uuid.UUID            `json:"user_id"`
	Mode      BuyType              `json:"mode"`
	Items     []CartItem           `json:"items"`
	Lines     []pricing.PricedLine `json:"lines"`
	Totals    pricing.Totals       `json:"totals"`
	CreatedAt time.Time            `json:"created_at,omitzero"`
	UpdatedAt time.Time            `json:"updated_at,omitzero"`
}

// LineItems adapts the stored items for the pricing package.
func (c *Cart) LineItems() []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, pricing.LineItem{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitSellingPrice: it.UnitSellingPrice,
			UnitListPrice:    it.UnitListPrice,
		})
	}

	return items
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}
