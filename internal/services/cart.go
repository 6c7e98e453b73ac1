package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/pricing"
	repository "github.com/kartverse/storefront/internal/repositories"
)

// CartService produces a consistent priced cart view regardless of entry
// path: the persisted cart or a single-product direct buy. Totals are always
// recomputed server-side from current product prices; the client's local
// arithmetic is never trusted.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateCartQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
	// DirectBuy synthesizes an unpersisted single-line cart for "buy now".
	DirectBuy(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error)
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	sessions    repository.CheckoutSessionRepository
	rules       pricing.Rules
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, sessions repository.CheckoutSessionRepository, rules pricing.Rules) CartService {
	return &cartService{repo: repo, productRepo: productRepo, sessions: sessions, rules: rules}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return s.emptyCart(userID), nil
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	s.price(cart)

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if product.StockQuantity < req.Quantity {
		return nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
	}

	cart, err := s.repo.GetCartByUserID(ctx, userID)

	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		// First add creates the cart.
		cart = &models.Cart{UserID: userID, Mode: models.BuyTypeCart}
		cart.Items = append(cart.Items, itemFromProduct(product, req.Quantity))

		if err := s.repo.CreateCart(ctx, cart); err != nil {
			return nil, errors.DatabaseError("Failed to create cart").WithError(err)
		}

		s.price(cart)

		return cart, nil
	case err != nil:
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	merged := false

	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			if product.StockQuantity < cart.Items[i].Quantity+req.Quantity {
				return nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
			}

			cart.Items[i].Quantity += req.Quantity
			merged = true

			break
		}
	}

	if !merged {
		cart.Items = append(cart.Items, itemFromProduct(product, req.Quantity))
	}

	cart.UpdatedAt = time.Now()

	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.price(cart)

	return cart, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateCartQuantityRequest) (*models.Cart, error) {

	if err := s.requireUnlockedCheckout(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NotFoundError("Cart not found").WithError(err)
	}

	line := -1

	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			line = i

			break
		}
	}

	if line < 0 {
		return nil, errors.BadRequestError("Item not found in the cart")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if product.StockQuantity < req.Quantity {
		return nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
	}

	cart.Items[line].Quantity = req.Quantity
	cart.UpdatedAt = time.Now()

	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.price(cart)

	return cart, nil
}

// RemoveItem refuses to drop the last line: a cart reachable from checkout
// always carries at least one item.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {

	if err := s.requireUnlockedCheckout(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NotFoundError("Cart not found").WithError(err)
	}

	if len(cart.Items) <= 1 {
		return nil, errors.BadRequestError("Cannot remove the only item in the cart")
	}

	items := cart.Items[:0]
	found := false

	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true

			continue
		}

		items = append(items, item)
	}

	if !found {
		return nil, errors.BadRequestError("Item not found in the cart")
	}

	cart.Items = items
	cart.UpdatedAt = time.Now()

	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.price(cart)

	return cart, nil
}

func (s *cartService) DirectBuy(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {

	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	cart := &models.Cart{
		UserID: userID,
		Mode:   models.BuyTypeDirect,
		Items:  []models.CartItem{itemFromProduct(product, quantity)},
	}

	s.price(cart)

	return cart, nil
}

// price refreshes the derived lines and totals on the cart in place.
func (s *cartService) price(cart *models.Cart) {
	cart.Lines, cart.Totals = pricing.ComputeTotals(cart.LineItems(), s.rules)
}

func (s *cartService) emptyCart(userID uuid.UUID) *models.Cart {
	cart := &models.Cart{UserID: userID, Mode: models.BuyTypeCart, Items: []models.CartItem{}}
	s.price(cart)

	return cart
}

// Cart mutations are blocked while a checkout step is being edited, matching
// the disabled quantity/removal controls on the checkout page.
func (s *cartService) requireUnlockedCheckout(ctx context.Context, userID uuid.UUID) error {

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return errors.InternalError("Failed to read checkout session").WithError(err)
	}

	if session != nil && session.Gate.Locked() {
		return errors.CheckoutLockedError("Cart cannot change while a checkout step is active")
	}

	return nil
}

func itemFromProduct(product *models.Product, quantity int) models.CartItem {
	return models.CartItem{
		ProductID:        product.ID,
		Quantity:         quantity,
		UnitSellingPrice: product.SellingPrice,
		UnitListPrice:    product.ListPrice,
		ProductName:      product.Name,
	}
}
