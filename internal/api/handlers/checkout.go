package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kartverse/storefront/internal/api/middleware"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/errors"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/kartverse/storefront/internal/utils"
	"github.com/kartverse/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: utils.NewValidator()}
}

// GetSession godoc
//	@Summary		Get the buyer's checkout session state
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	checkout.Session		"Current session"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/checkout/session [get]
func (h *CheckoutHandler) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout session access")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		session, err := h.checkoutService.GetSession(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to load checkout session", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

// EnterSection godoc
//	@Summary		Claim a checkout step
//	@Description	Only one step can be active at a time; a different active step yields CHECKOUT_LOCKED.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			section	body		checkout.EnterSectionRequest	true	"Step to enter"
//	@Success		200		{object}	checkout.Session				"Session after entering"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		409		{object}	response.ErrorResponse			"Another step is active"
//	@Security		BearerAuth
//	@Router			/checkout/section/enter [post]
func (h *CheckoutHandler) EnterSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout step claim")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req checkout.EnterSectionRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid enter section input")
			return
		}

		session, err := h.checkoutService.EnterSection(r.Context(), claims.UserID, req.Section)
		if err != nil {
			logger.Warn("Checkout step claim rejected", slog.String("section", string(req.Section)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout step entered", slog.String("section", string(req.Section)))
		response.Success(w, http.StatusOK, session)
	}
}

// LeaveSection godoc
//	@Summary		Release a checkout step
//	@Description	Only the step that holds the gate can release it; other values are a no-op.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			section	body		checkout.LeaveSectionRequest	true	"Step to leave"
//	@Success		200		{object}	checkout.Session				"Session after leaving"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Security		BearerAuth
//	@Router			/checkout/section/leave [post]
func (h *CheckoutHandler) LeaveSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout step release")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req checkout.LeaveSectionRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid leave section input")
			return
		}

		session, err := h.checkoutService.LeaveSection(r.Context(), claims.UserID, req.Section)
		if err != nil {
			logger.Error("Failed to release checkout step", slog.String("section", string(req.Section)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, session)
	}
}
