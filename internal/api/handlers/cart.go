package handlers

import (
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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart godoc
//	@Summary		Get the priced cart
//	@Description	Returns the buyer's cart with every line repriced server-side.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Priced cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.Cart					"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add cart item", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added", slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Change a cart line's quantity
//	@Description	Rejected with CHECKOUT_LOCKED while a checkout step holds the gate.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateCartQuantityRequest	true	"Product and new quantity"
//	@Success		200		{object}	models.Cart							"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse				"Validation error"
//	@Failure		401		{object}	response.ErrorResponse				"Authentication required"
//	@Failure		409		{object}	response.ErrorResponse				"Checkout step active"
//	@Security		BearerAuth
//	@Router			/cart/items [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateCartQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to update cart quantity", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Description	The last remaining item cannot be removed.
//	@Tags			Cart
//	@Produce		json
//	@Param			productId	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200			{object}	models.Cart				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse	"Last item or invalid ID"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409			{object}	response.ErrorResponse	"Checkout step active"
//	@Security		BearerAuth
//	@Router			/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed", slog.String("productId", productID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// DirectBuy godoc
//	@Summary		Price a single product for "buy now"
//	@Description	Returns a priced single-line cart without touching the persisted cart.
//	@Tags			Cart
//	@Produce		json
//	@Param			productId	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Param			quantity	query		int						false	"Quantity (default: 1)"	minimum(1)
//	@Success		200			{object}	models.Cart				"Priced direct-buy cart"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/cart/direct-buy/{productId} [get]
func (h *CartHandler) DirectBuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized direct buy attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
		if err != nil || quantity < 1 {
			quantity = 1
		}

		cart, err := h.cartService.DirectBuy(r.Context(), claims.UserID, productID, quantity)
		if err != nil {
			logger.Error("Failed to price direct buy", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}
