// Package mocks provides testify mocks of the service interfaces for
// handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/pkg/payments"
	"github.com/stretchr/testify/mock"
)

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.LoginResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, section models.ProductSection, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, section, page, pageSize)
	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *ProductService) Home(ctx context.Context) (*models.HomeResponse, error) {
	args := m.Called(ctx)
	if home, ok := args.Get(0).(*models.HomeResponse); ok {
		return home, args.Error(1)
	}

	return nil, args.Error(1)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateCartQuantityRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) DirectBuy(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

type AddressService struct {
	mock.Mock
}

func (m *AddressService) List(ctx context.Context, userID uuid.UUID) (*models.AddressListResponse, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).(*models.AddressListResponse); ok {
		return list, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressService) Add(ctx context.Context, userID uuid.UUID, req *models.AddAddressRequest) (*models.AddAddressResponse, error) {
	args := m.Called(ctx, userID, req)
	if resp, ok := args.Get(0).(*models.AddAddressResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressService) Edit(ctx context.Context, userID uuid.UUID, req *models.EditAddressRequest) (*models.Address, error) {
	args := m.Called(ctx, userID, req)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, addressID)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressService) Select(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, addressID)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if session, ok := args.Get(0).(*checkout.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CheckoutService) EnterSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error) {
	args := m.Called(ctx, userID, section)
	if session, ok := args.Get(0).(*checkout.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CheckoutService) LeaveSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error) {
	args := m.Called(ctx, userID, section)
	if session, ok := args.Get(0).(*checkout.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) (*models.PlaceOrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if resp, ok := args.Get(0).(*models.PlaceOrderResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderService) VerifyOrder(ctx context.Context, userID uuid.UUID, req *models.VerifyOrderRequest) (*models.VerifyOrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if resp, ok := args.Get(0).(*models.VerifyOrderResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	if orders, ok := args.Get(0).([]*models.Order); ok {
		return orders, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (payments.Event, error) {
	args := m.Called(ctx, payload, signature)
	if event, ok := args.Get(0).(payments.Event); ok {
		return event, args.Error(1)
	}

	return payments.Event{}, args.Error(1)
}
