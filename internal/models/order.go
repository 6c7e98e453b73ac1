package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is one product line of a placed order, the row shape the storefront
// order list renders. Product and address details are snapshots taken at
// placement time; later catalog or address edits never rewrite an order.
type Order struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"user_id"`
	ProductID         uuid.UUID     `json:"product_id"`
	ProductName       string        `json:"product_name"`
	Quantity          int           `json:"quantity"`
	TotalPrice        int64         `json:"total_price"`
	PriceOfDiscount   int64         `json:"price_of_discount"`
	ActualPrice       int64         `json:"actual_price"`
	AddressSnapshot   *Address      `json:"address_snapshot"`
	PaymentSessionID  string        `json:"payment_session_id,omitempty"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	Status            OrderStatus   `json:"status"`
	BuyType           BuyType       `json:"buy_type"`
	DeliveryDays      int           `json:"delivery_days"`
	EstimatedDelivery time.Time     `json:"estimated_delivery,omitzero"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// PlaceOrderRequest starts order placement. For directBuy the product and
// quantity describe the ad-hoc line; for cartBuy the persisted cart is used.
// DeliveryDays comes from the delivery-timing dialog (0-3 day offset).
type PlaceOrderRequest struct {
	BuyType      BuyType    `json:"buy_type" validate:"required,oneof=cartBuy directBuy"`
	DeliveryDays int        `json:"delivery_days" validate:"min=0,max=3"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	Quantity     int        `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// PlaceOrderResponse returns the gateway session the client must complete.
// Missing session or order ids on the client side is a hard failure.
type PlaceOrderResponse struct {
	PaymentSessionID string      `json:"payment_session_id"`
	OrderIDs         []uuid.UUID `json:"order_ids"`
	Orders           []*Order    `json:"orders"`
	Amount           int64       `json:"amount"`
}

type VerifyOrderRequest struct {
	PaymentSessionID string      `json:"payment_session_id" validate:"required"`
	OrderIDs         []uuid.UUID `json:"order_ids" validate:"required,min=1"`
	BuyType          BuyType     `json:"buy_type" validate:"required,oneof=cartBuy directBuy"`
}

type VerifyOrderResponse struct {
	Verified bool     `json:"verified"`
	Orders   []*Order `json:"orders,omitempty"`
}
