// Package mocks holds hand-written testify mocks for the repository
// interfaces, shared by the service and handler tests.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *CartRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, section models.ProductSection, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, section, page, size)
	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *ProductRepository) ListSection(ctx context.Context, section models.ProductSection, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, section, limit)
	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Error(1)
	}

	return nil, args.Error(1)
}

type AddressRepository struct {
	mock.Mock
}

func (m *AddressRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

func (m *AddressRepository) GetAddressByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, addressID)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	args := m.Called(ctx, userID)
	if addresses, ok := args.Get(0).([]models.Address); ok {
		return addresses, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

func (m *AddressRepository) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, addressID)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AddressRepository) SetSelectedAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) error {
	args := m.Called(ctx, userID, addressID)

	return args.Error(0)
}

func (m *AddressRepository) GetSelectedAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID)
	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrders(ctx context.Context, orders []*models.Order) error {
	args := m.Called(ctx, orders)

	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderRepository) GetOrdersByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, userID, ids)
	if orders, ok := args.Get(0).([]*models.Order); ok {
		return orders, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderRepository) GetOrdersBySessionID(ctx context.Context, sessionID string) ([]*models.Order, error) {
	args := m.Called(ctx, sessionID)
	if orders, ok := args.Get(0).([]*models.Order); ok {
		return orders, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	if orders, ok := args.Get(0).([]*models.Order); ok {
		return orders, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *OrderRepository) MarkOrdersPaid(ctx context.Context, ids []uuid.UUID, estimatedDelivery time.Time) error {
	args := m.Called(ctx, ids, estimatedDelivery)

	return args.Error(0)
}

func (m *OrderRepository) MarkOrdersFailed(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)

	return args.Error(0)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

type CheckoutSessionRepository struct {
	mock.Mock
}

func (m *CheckoutSessionRepository) GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if session, ok := args.Get(0).(*checkout.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CheckoutSessionRepository) SaveSession(ctx context.Context, session *checkout.Session) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *CheckoutSessionRepository) DeleteSession(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
