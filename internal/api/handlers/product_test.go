package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/api/handlers"
	appErrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/services/mocks"
	"github.com/kartverse/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListProductsHandler(t *testing.T) {
	t.Run("Section query narrows the listing", func(t *testing.T) {
		svc := &mocks.ProductService{}
		handler := handlers.NewProductHandler(svc)

		featured := []*models.Product{{ID: uuid.New(), Name: "Desk Lamp", Featured: true}}
		svc.On("ListProducts", mock.Anything, models.SectionFeatured, 1, 10).
			Return(featured, 1, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products?section=featured", nil, nil)
		rec := httptest.NewRecorder()

		handler.ListProducts()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})

	t.Run("No section lists the full catalog", func(t *testing.T) {
		svc := &mocks.ProductService{}
		handler := handlers.NewProductHandler(svc)

		svc.On("ListProducts", mock.Anything, models.ProductSection(""), 1, 10).
			Return([]*models.Product{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products", nil, nil)
		rec := httptest.NewRecorder()

		handler.ListProducts()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown section is a bad request", func(t *testing.T) {
		svc := &mocks.ProductService{}
		handler := handlers.NewProductHandler(svc)

		svc.On("ListProducts", mock.Anything, models.ProductSection("giftpacks"), 1, 10).
			Return(nil, 0, appErrors.BadRequestError("Unknown product section")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products?section=giftpacks", nil, nil)
		rec := httptest.NewRecorder()

		handler.ListProducts()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, appErrors.ErrCodeBadRequest, resp.Error.Code)
	})
}
