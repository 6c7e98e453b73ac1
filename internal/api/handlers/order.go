package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kartverse/storefront/internal/api/middleware"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/kartverse/storefront/internal/utils"
	"github.com/kartverse/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: utils.NewValidator()}
}

// PlaceOrder godoc
//	@Summary		Place an order
//	@Description	Runs the placement preconditions, prices the lines and opens a payment session. On a missing delivery address the response carries the checkout step to redirect to.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.PlaceOrderRequest	true	"Buy type, delivery timing and (for directBuy) the product"
//	@Success		201		{object}	models.PlaceOrderResponse	"Payment session to complete"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error, empty cart or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		409		{object}	response.ErrorResponse		"Checkout step active or placement already in progress"
//	@Failure		412		{object}	response.ErrorResponse		"No delivery address selected"
//	@Failure		502		{object}	response.ErrorResponse		"Payment gateway failure"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order placement attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("userID", claims.UserID.String()))

		var req models.PlaceOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid place order input")
			return
		}

		result, err := h.orderService.PlaceOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to place order", slog.String("buyType", string(req.BuyType)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("paymentSessionId", result.PaymentSessionID),
			slog.Int("orderCount", len(result.OrderIDs)))
		response.Success(w, http.StatusCreated, result)
	}
}

// VerifyOrder godoc
//	@Summary		Verify payment and finalize an order
//	@Description	Confirms the payment session with the gateway. Anything short of a confirmed payment leaves the order unfinalized.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			verification	body		models.VerifyOrderRequest	true	"Session and order ids from placement"
//	@Success		200				{object}	models.VerifyOrderResponse	"Verified orders"
//	@Failure		400				{object}	response.ErrorResponse		"Validation error or session mismatch"
//	@Failure		401				{object}	response.ErrorResponse		"Authentication required"
//	@Failure		402				{object}	response.ErrorResponse		"Payment not confirmed"
//	@Failure		404				{object}	response.ErrorResponse		"Orders not found"
//	@Security		BearerAuth
//	@Router			/orders/verify [post]
func (h *OrderHandler) VerifyOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order verification attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("userID", claims.UserID.String()))

		var req models.VerifyOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid verify order input")
			return
		}

		result, err := h.orderService.VerifyOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Order verification failed",
				slog.String("paymentSessionId", req.PaymentSessionID),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order verified", slog.String("paymentSessionId", req.PaymentSessionID))
		response.Success(w, http.StatusOK, result)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Not the order's owner"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if order.UserID != claims.UserID {
			logger.Warn("Attempted to access another user's order",
				slog.String("requesterId", claims.UserID.String()),
				slog.String("ownerId", order.UserID.String()))
			response.Error(w, errors.ForbiddenError("You don't have permission to access this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List the buyer's orders with pagination
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"		minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Order page"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		orders, total, err := h.orderService.ListOrdersByUser(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CancelOrder godoc
//	@Summary		Cancel a pending order
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Cancelled order"
//	@Failure		400	{object}	response.ErrorResponse	"Order is no longer pending"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Not the order's owner"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order cancel attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to cancel order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled", slog.String("orderId", id.String()))
		response.Success(w, http.StatusOK, order)
	}
}

// HandlePaymentWebhook receives asynchronous payment outcomes from the
// gateway. The route is unauthenticated; the signature header is the
// authentication.
func (h *OrderHandler) HandlePaymentWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			slog.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			slog.Error("Missing webhook signature")
			response.Error(w, errors.BadRequestError("Signature header is required"))
			return
		}

		event, err := h.orderService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			slog.Error("Failed to process payment webhook",
				slog.String("eventId", event.ID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Payment webhook processed", slog.String("eventId", event.ID))
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
