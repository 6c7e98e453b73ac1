package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/api/handlers"
	appErrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/services/mocks"
	"github.com/kartverse/storefront/internal/testutils"
	"github.com/kartverse/storefront/pkg/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Returns the payment session", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		orderID := uuid.New()
		svc.On("PlaceOrder", mock.Anything, userID, mock.MatchedBy(func(req *models.PlaceOrderRequest) bool {
			return req.BuyType == models.BuyTypeCart && req.DeliveryDays == 2
		})).Return(&models.PlaceOrderResponse{
			PaymentSessionID: "pi_123",
			OrderIDs:         []uuid.UUID{orderID},
			Amount:           5019,
		}, nil).Once()

		body, _ := json.Marshal(map[string]any{"buy_type": "cartBuy", "delivery_days": 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.PlaceOrder()(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})

	t.Run("Missing address returns 412 with the redirect step", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("PlaceOrder", mock.Anything, userID, mock.Anything).
			Return(nil, appErrors.PreconditionError("No delivery address selected", "address")).Once()

		body, _ := json.Marshal(map[string]any{"buy_type": "cartBuy", "delivery_days": 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.PlaceOrder()(rec, req)

		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodePreconditionFailed, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "address", resp.Error.Details[0])
	})

	t.Run("Active checkout step returns 409", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("PlaceOrder", mock.Anything, userID, mock.Anything).
			Return(nil, appErrors.CheckoutLockedError("Finish the active checkout step before placing the order")).Once()

		body, _ := json.Marshal(map[string]any{"buy_type": "directBuy", "delivery_days": 1, "product_id": uuid.New()})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.PlaceOrder()(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown buy type never reaches the service", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		body, _ := json.Marshal(map[string]any{"buy_type": "giftBuy", "delivery_days": 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.PlaceOrder()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Delivery days beyond the window never reach the service", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		body, _ := json.Marshal(map[string]any{"buy_type": "cartBuy", "delivery_days": 7})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.PlaceOrder()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerifyOrderHandler(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	verifyBody := func() []byte {
		body, _ := json.Marshal(map[string]any{
			"payment_session_id": "pi_123",
			"order_ids":          []string{orderID.String()},
			"buy_type":           "cartBuy",
		})

		return body
	}

	t.Run("Verified orders come back", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("VerifyOrder", mock.Anything, userID, mock.Anything).
			Return(&models.VerifyOrderResponse{Verified: true, Orders: []*models.Order{{ID: orderID}}}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/verify", bytes.NewReader(verifyBody()), userID, nil)
		rec := httptest.NewRecorder()

		handler.VerifyOrder()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
	})

	t.Run("Unconfirmed payment returns 402", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("VerifyOrder", mock.Anything, userID, mock.Anything).
			Return(nil, appErrors.PaymentNotVerifiedError("Payment was not confirmed by the gateway")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/verify", bytes.NewReader(verifyBody()), userID, nil)
		rec := httptest.NewRecorder()

		handler.VerifyOrder()(rec, req)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("Another user's order is forbidden", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("GetOrderByID", mock.Anything, orderID).
			Return(&models.Order{ID: orderID, UserID: uuid.New()}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil,
			userID, map[string]string{"id": orderID.String()})
		rec := httptest.NewRecorder()

		handler.GetOrder()(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Owner gets the order", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("GetOrderByID", mock.Anything, orderID).
			Return(&models.Order{ID: orderID, UserID: userID}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil,
			userID, map[string]string{"id": orderID.String()})
		rec := httptest.NewRecorder()

		handler.GetOrder()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPaymentWebhookHandler(t *testing.T) {
	t.Run("Acknowledges a processed event", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
		svc.On("ProcessWebhook", mock.Anything, payload, "sig_header").
			Return(payments.Event{ID: "evt_1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", "sig_header")
		rec := httptest.NewRecorder()

		handler.HandlePaymentWebhook()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"received":true`)
		svc.AssertExpectations(t)
	})

	t.Run("Missing signature header is rejected", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		handler.HandlePaymentWebhook()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bad signature maps to 401", func(t *testing.T) {
		svc := &mocks.OrderService{}
		handler := handlers.NewOrderHandler(svc)

		svc.On("ProcessWebhook", mock.Anything, mock.Anything, "bad_sig").
			Return(payments.Event{}, appErrors.UnauthorizedError("Invalid webhook signature")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{}`))
		req.Header.Set("Stripe-Signature", "bad_sig")
		rec := httptest.NewRecorder()

		handler.HandlePaymentWebhook()(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
