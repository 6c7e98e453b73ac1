package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/api/handlers"
	"github.com/kartverse/storefront/internal/checkout"
	appErrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/services/mocks"
	"github.com/kartverse/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetCheckoutSessionHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Returns the session state", func(t *testing.T) {
		svc := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(svc)

		session := checkout.NewSession(userID)
		require.True(t, session.Gate.TryEnter(checkout.SectionAddress))
		svc.On("GetSession", mock.Anything, userID).Return(session, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/checkout/session", nil, userID, nil)
		rec := httptest.NewRecorder()

		handler.GetSession()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"active_section":"address"`)
	})
}

func TestEnterSectionHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Claims the step", func(t *testing.T) {
		svc := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(svc)

		session := checkout.NewSession(userID)
		require.True(t, session.Gate.TryEnter(checkout.SectionNewAddress))
		svc.On("EnterSection", mock.Anything, userID, checkout.SectionNewAddress).Return(session, nil).Once()

		body, _ := json.Marshal(map[string]string{"section": "new-address"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/section/enter", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.EnterSection()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("A different active step maps to 409 with the holder", func(t *testing.T) {
		svc := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(svc)

		svc.On("EnterSection", mock.Anything, userID, checkout.SectionAddress).
			Return(nil, appErrors.CheckoutLockedError("Another checkout step is already active").
				WithDetail(string(checkout.SectionLogin))).Once()

		body, _ := json.Marshal(map[string]string{"section": "address"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/section/enter", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.EnterSection()(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeCheckoutLocked, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "login", resp.Error.Details[0])
	})

	t.Run("Unknown section never reaches the service", func(t *testing.T) {
		svc := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(svc)

		body, _ := json.Marshal(map[string]string{"section": "payment"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/section/enter", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.EnterSection()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "EnterSection", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLeaveSectionHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Releases the step", func(t *testing.T) {
		svc := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(svc)

		session := checkout.NewSession(userID)
		svc.On("LeaveSection", mock.Anything, userID, checkout.SectionAddress).Return(session, nil).Once()

		body, _ := json.Marshal(map[string]string{"section": "address"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/section/leave", bytes.NewReader(body), userID, nil)
		rec := httptest.NewRecorder()

		handler.LeaveSection()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"active_section":""`)
	})
}
