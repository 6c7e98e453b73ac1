package service

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/metrics"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/pricing"
	repository "github.com/kartverse/storefront/internal/repositories"
	"github.com/kartverse/storefront/pkg/payments"
)

// OrderService drives the order-placement sequence: preconditions, pricing,
// gateway session creation, payment verification and finalization. Every
// step fails closed; a placement is never surfaced as successful until the
// gateway confirms payment.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) (*models.PlaceOrderResponse, error)
	VerifyOrder(ctx context.Context, userID uuid.UUID, req *models.VerifyOrderRequest) (*models.VerifyOrderResponse, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (payments.Event, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	addressRepo    repository.AddressRepository
	sessions       repository.CheckoutSessionRepository
	gateway        payments.Client
	rules          pricing.Rules
	currency       string
	gatewayTimeout time.Duration
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	sessions repository.CheckoutSessionRepository,
	gateway payments.Client,
	rules pricing.Rules,
	currency string,
	gatewayTimeout time.Duration,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		addressRepo:    addressRepo,
		sessions:       sessions,
		gateway:        gateway,
		rules:          rules,
		currency:       currency,
		gatewayTimeout: gatewayTimeout,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) (*models.PlaceOrderResponse, error) {

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, errors.InternalError("Failed to read checkout session").WithError(err)
	}

	if session == nil {
		session = checkout.NewSession(userID)
	}

	if session.Gate.Locked() {
		metrics.ObserveOrderPlacement(string(req.BuyType), "locked")
		return nil, errors.CheckoutLockedError("Finish the active checkout step before placing the order")
	}

	if session.Placing {
		metrics.ObserveOrderPlacement(string(req.BuyType), "in_progress")
		return nil, errors.PlacementInProgressError("An order placement is already in progress")
	}

	// Precondition: a selected delivery address. On failure the buyer is
	// sent back to the address step; nothing is created.
	address, err := s.addressRepo.GetSelectedAddress(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch selected address").WithError(err)
	}

	if address == nil {
		session.Gate.TryEnter(checkout.SectionAddress)

		if err := s.sessions.SaveSession(ctx, session); err != nil {
			slog.Warn("Failed to persist checkout redirect", slog.Any("error", err))
		}

		metrics.ObserveOrderPlacement(string(req.BuyType), "precondition")

		return nil, errors.PreconditionError("No delivery address selected", string(checkout.SectionAddress))
	}

	items, names, err := s.resolveLineItems(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	lines, totals := pricing.ComputeTotals(items, s.rules)

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	gatewaySession, err := s.gateway.CreateSession(gwCtx, totals.GrandTotal, s.currency,
		fmt.Sprintf("Order of %d item(s)", totals.ProductsCount),
		map[string]string{"user_id": userID.String()})
	if err != nil {
		metrics.ObserveOrderPlacement(string(req.BuyType), "gateway_error")
		return nil, errors.ThirdPartyError("Failed to create payment session").WithError(err)
	}

	if gatewaySession == nil || gatewaySession.ID == "" {
		metrics.ObserveOrderPlacement(string(req.BuyType), "gateway_error")
		return nil, errors.ThirdPartyError("Payment gateway returned no session")
	}

	orders := make([]*models.Order, 0, len(lines))
	orderIDs := make([]uuid.UUID, 0, len(lines))

	for _, line := range lines {

		order := &models.Order{
			ID:               uuid.New(),
			UserID:           userID,
			ProductID:        line.ProductID,
			ProductName:      names[line.ProductID],
			Quantity:         line.Quantity,
			TotalPrice:       line.TotalPrice,
			PriceOfDiscount:  line.PriceOfDiscount,
			ActualPrice:      line.ActualPrice,
			AddressSnapshot:  address,
			PaymentSessionID: gatewaySession.ID,
			PaymentStatus:    models.PaymentStatusPending,
			Status:           models.OrderStatusPending,
			BuyType:          req.BuyType,
			DeliveryDays:     req.DeliveryDays,
		}

		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err := s.orderRepo.CreateOrders(ctx, orders); err != nil {

		// Best effort: don't leave a chargeable session behind. The
		// compensation call gets its own budget, detached from the
		// placement context, which may already be spent or cancelled.
		cancelCtx, release := context.WithTimeout(context.WithoutCancel(ctx), s.gatewayTimeout)
		defer release()

		if cancelErr := s.gateway.CancelSession(cancelCtx, gatewaySession.ID); cancelErr != nil {
			slog.Warn("Failed to cancel orphaned payment session",
				slog.String("sessionId", gatewaySession.ID), slog.Any("error", cancelErr))
		}

		metrics.ObserveOrderPlacement(string(req.BuyType), "error")

		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	session.Placing = true
	session.PaymentSessionID = gatewaySession.ID
	session.PendingOrderIDs = orderIDs

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		slog.Warn("Failed to mark placement in progress", slog.Any("error", err))
	}

	metrics.ObserveOrderPlacement(string(req.BuyType), "created")

	return &models.PlaceOrderResponse{
		PaymentSessionID: gatewaySession.ID,
		OrderIDs:         orderIDs,
		Orders:           orders,
		Amount:           totals.GrandTotal,
	}, nil
}

// VerifyOrder asks the gateway for the session's payment status. Anything
// short of a confirmed payment is a failure: orders stay pending (or flip to
// failed on an explicit decline) and nothing is finalized.
func (s *orderService) VerifyOrder(ctx context.Context, userID uuid.UUID, req *models.VerifyOrderRequest) (*models.VerifyOrderResponse, error) {

	orders, err := s.orderRepo.GetOrdersByIDs(ctx, userID, req.OrderIDs)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	if len(orders) != len(req.OrderIDs) {
		return nil, errors.NotFoundError("Order not found")
	}

	for _, order := range orders {
		if order.PaymentSessionID != req.PaymentSessionID {
			return nil, errors.BadRequestError("Payment session does not match the orders")
		}
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	status, err := s.gateway.SessionStatus(gwCtx, req.PaymentSessionID)
	if err != nil {
		metrics.ObservePaymentVerification("error")
		s.clearPlacing(ctx, userID)

		return nil, errors.ThirdPartyError("Failed to verify payment").WithError(err)
	}

	if status != payments.StatusPaid {

		if status == payments.StatusFailed {
			if err := s.orderRepo.MarkOrdersFailed(ctx, req.OrderIDs); err != nil {
				slog.Error("Failed to record declined payment", slog.Any("error", err))
			}
		}

		metrics.ObservePaymentVerification("rejected")
		s.clearPlacing(ctx, userID)

		return nil, errors.PaymentNotVerifiedError("Payment was not confirmed by the gateway")
	}

	deliveryDays := orders[0].DeliveryDays
	estimated := time.Now().AddDate(0, 0, deliveryDays)

	if err := s.orderRepo.MarkOrdersPaid(ctx, req.OrderIDs, estimated); err != nil {
		metrics.ObservePaymentVerification("error")
		return nil, errors.DatabaseError("Failed to finalize orders").WithError(err)
	}

	if req.BuyType == models.BuyTypeCart {
		if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
			// The order is already confirmed; a stale cart is recoverable.
			slog.Error("Failed to clear cart after verified order",
				slog.String("userId", userID.String()), slog.Any("error", err))
		}
	}

	if err := s.sessions.DeleteSession(ctx, userID); err != nil {
		slog.Warn("Failed to delete checkout session", slog.Any("error", err))
	}

	verified, err := s.orderRepo.GetOrdersByIDs(ctx, userID, req.OrderIDs)
	if err != nil {
		verified = orders
	}

	metrics.ObservePaymentVerification("verified")

	return &models.VerifyOrderResponse{Verified: true, Orders: verified}, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// CancelOrder is only allowed before the order ships.
func (s *orderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if order.UserID != userID {
		return nil, errors.ForbiddenError("You don't have permission to cancel this order")
	}

	if order.Status != models.OrderStatusPending {
		return nil, errors.BadRequestError("Only pending orders can be cancelled")
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, errors.DatabaseError("Failed to cancel order").WithError(err)
	}

	order.Status = models.OrderStatusCancelled

	return order, nil
}

// ProcessWebhook records asynchronous payment outcomes pushed by the
// gateway. Unknown event types are acknowledged and ignored.
func (s *orderService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (payments.Event, error) {

	event, err := s.gateway.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return event, errors.UnauthorizedError("Invalid webhook signature").WithError(err)
	}

	var object struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return event, errors.BadRequestError("Malformed webhook payload").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		orders, err := s.orderRepo.GetOrdersBySessionID(ctx, object.ID)
		if err != nil || len(orders) == 0 {
			return event, nil
		}

		ids := make([]uuid.UUID, 0, len(orders))
		for _, order := range orders {
			ids = append(ids, order.ID)
		}

		estimated := time.Now().AddDate(0, 0, orders[0].DeliveryDays)

		if err := s.orderRepo.MarkOrdersPaid(ctx, ids, estimated); err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return event, errors.DatabaseError("Failed to record payment").WithError(err)
		}
	case "payment_intent.payment_failed", "payment_intent.canceled":
		orders, err := s.orderRepo.GetOrdersBySessionID(ctx, object.ID)
		if err != nil || len(orders) == 0 {
			return event, nil
		}

		ids := make([]uuid.UUID, 0, len(orders))
		for _, order := range orders {
			ids = append(ids, order.ID)
		}

		if err := s.orderRepo.MarkOrdersFailed(ctx, ids); err != nil {
			return event, errors.DatabaseError("Failed to record payment failure").WithError(err)
		}
	}

	return event, nil
}

// resolveLineItems builds the pricing input for either entry path. Prices
// always come from the catalog rows, never from the request.
func (s *orderService) resolveLineItems(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) ([]pricing.LineItem, map[uuid.UUID]string, error) {

	if req.BuyType == models.BuyTypeDirect {

		if req.ProductID == nil {
			return nil, nil, errors.BadRequestError("product_id is required for a direct buy")
		}

		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
		}

		product, err := s.productRepo.GetProductByID(ctx, *req.ProductID)
		if err != nil {
			return nil, nil, errors.NotFoundError("Product not found").WithError(err)
		}

		if product.StockQuantity < quantity {
			return nil, nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
		}

		items := []pricing.LineItem{{
			ProductID:        product.ID,
			Quantity:         quantity,
			UnitSellingPrice: product.SellingPrice,
			UnitListPrice:    product.ListPrice,
		}}

		return items, map[uuid.UUID]string{product.ID: product.Name}, nil
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, nil, errors.NotFoundError("Cart not found").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, nil, errors.BadRequestError("Cannot place an order with an empty cart")
	}

	items := make([]pricing.LineItem, 0, len(cart.Items))
	names := make(map[uuid.UUID]string, len(cart.Items))

	for _, item := range cart.Items {

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, nil, errors.NotFoundError("Product not found: " + item.ProductID.String()).WithError(err)
		}

		if product.StockQuantity < item.Quantity {
			return nil, nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
		}

		items = append(items, pricing.LineItem{
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitSellingPrice: product.SellingPrice,
			UnitListPrice:    product.ListPrice,
		})
		names[item.ProductID] = product.Name
	}

	return items, names, nil
}

func (s *orderService) clearPlacing(ctx context.Context, userID uuid.UUID) {

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil || session == nil {
		return
	}

	session.Placing = false

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		slog.Warn("Failed to reset placement flag", slog.Any("error", err))
	}
}
