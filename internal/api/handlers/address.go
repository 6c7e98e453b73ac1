package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kartverse/storefront/internal/api/middleware"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/kartverse/storefront/internal/utils"
	"github.com/kartverse/storefront/internal/utils/response"
)

type AddressHandler struct {
	addressService service.AddressService
	validator      *validator.Validate
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService, validator: utils.NewValidator()}
}

// ListAddresses godoc
//	@Summary		List the buyer's addresses with the current selection
//	@Tags			Addresses
//	@Produce		json
//	@Success		200	{object}	models.AddressListResponse	"Addresses, oldest first"
//	@Failure		401	{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/addresses [get]
func (h *AddressHandler) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized address access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		list, err := h.addressService.List(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list addresses", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, list)
	}
}

// AddAddress godoc
//	@Summary		Add a shipping address
//	@Description	The new address becomes the selected one and the new-address checkout step is released.
//	@Tags			Addresses
//	@Accept			json
//	@Produce		json
//	@Param			address	body		models.AddAddressRequest	true	"Address details"
//	@Success		201		{object}	models.AddAddressResponse	"Created address and selection"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/addresses [post]
func (h *AddressHandler) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized address creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add address input")
			return
		}

		result, err := h.addressService.Add(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add address", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Address added", slog.String("addressId", result.Address.ID.String()))
		response.Success(w, http.StatusCreated, result)
	}
}

// EditAddress godoc
//	@Summary		Edit a shipping address
//	@Tags			Addresses
//	@Accept			json
//	@Produce		json
//	@Param			address	body		models.EditAddressRequest	true	"Address details including ID"
//	@Success		200		{object}	models.Address				"Updated address"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Address not found"
//	@Security		BearerAuth
//	@Router			/addresses [put]
func (h *AddressHandler) EditAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized address edit attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.EditAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid edit address input")
			return
		}

		address, err := h.addressService.Edit(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to edit address", slog.String("addressId", req.ID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Address updated", slog.String("addressId", address.ID.String()))
		response.Success(w, http.StatusOK, address)
	}
}

// DeleteAddress godoc
//	@Summary		Delete a shipping address
//	@Description	Deleting the selected address moves the selection to the oldest remaining one.
//	@Tags			Addresses
//	@Produce		json
//	@Param			id	path		string					true	"Address ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Address			"New selected address, if any"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Address not found"
//	@Security		BearerAuth
//	@Router			/addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized address delete attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid address id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		selected, err := h.addressService.Delete(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to delete address", slog.String("addressId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Address deleted", slog.String("addressId", id.String()))
		response.Success(w, http.StatusOK, selected)
	}
}

// SelectAddress godoc
//	@Summary		Mark an address as the delivery selection
//	@Tags			Addresses
//	@Produce		json
//	@Param			id	path		string					true	"Address ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Address			"Selected address"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Address not found"
//	@Security		BearerAuth
//	@Router			/addresses/{id}/select [post]
func (h *AddressHandler) SelectAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized address select attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid address id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		address, err := h.addressService.Select(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to select address", slog.String("addressId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Address selected", slog.String("addressId", id.String()))
		response.Success(w, http.StatusOK, address)
	}
}
