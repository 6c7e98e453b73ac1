package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/repositories/mocks"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process stand-in for the Redis cache, enough to
// observe hits, misses and invalidation.
type memoryCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.store[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(data, value)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)

	return nil
}

func (c *memoryCache) Close() error { return nil }

func newProductFixture() (*mocks.ProductRepository, *memoryCache, service.ProductService) {
	repo := &mocks.ProductRepository{}
	memCache := newMemoryCache()

	return repo, memCache, service.NewProductService(repo, memCache, 10*time.Minute)
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Sanitizes markup in text fields", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		var created *models.Product
		repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Product)
			}).Return(nil).Once()

		product, err := svc.CreateProduct(ctx, &models.CreateProductRequest{
			Name:          `Desk Lamp<script>alert("x")</script>`,
			Description:   "<b>Warm</b> light",
			Category:      "lighting",
			ListPrice:     1299,
			SellingPrice:  999,
			StockQuantity: 10,
		})

		require.NoError(t, err)
		assert.NotContains(t, created.Name, "<script>")
		assert.NotContains(t, created.Description, "<b>")
		assert.Equal(t, product.ID, created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Database failure surfaces", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		repo.On("CreateProduct", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		product, err := svc.CreateProduct(ctx, &models.CreateProductRequest{
			Name:          "Desk Lamp",
			Category:      "lighting",
			ListPrice:     1299,
			SellingPrice:  999,
			StockQuantity: 10,
		})

		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestGetProductByID(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{ID: uuid.New(), Name: "Desk Lamp", SellingPrice: 999, ListPrice: 1299}

	t.Run("Second read is served from cache", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		repo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

		first, err := svc.GetProductByID(ctx, product.ID)
		require.NoError(t, err)

		second, err := svc.GetProductByID(ctx, product.ID)
		require.NoError(t, err)

		assert.Equal(t, first.Name, second.Name)
		repo.AssertNumberOfCalls(t, "GetProductByID", 1)
	})

	t.Run("Unknown product is not found", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		id := uuid.New()

		repo.On("GetProductByID", ctx, id).Return(nil, errors.New("no rows")).Once()

		result, err := svc.GetProductByID(ctx, id)

		assert.Nil(t, result)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Selling price above list price is rejected", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		stored := &models.Product{ID: uuid.New(), Name: "Desk Lamp", ListPrice: 1299, SellingPrice: 999}

		repo.On("GetProductByID", ctx, stored.ID).Return(stored, nil).Once()

		higher := 1500.0
		result, err := svc.UpdateProduct(ctx, stored.ID, &models.UpdateProductRequest{SellingPrice: &higher})

		assert.Nil(t, result)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		repo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Update invalidates the cached product", func(t *testing.T) {
		repo, memCache, svc := newProductFixture()
		stored := &models.Product{ID: uuid.New(), Name: "Desk Lamp", ListPrice: 1299, SellingPrice: 999}

		repo.On("GetProductByID", ctx, stored.ID).Return(stored, nil)
		repo.On("UpdateProduct", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.GetProductByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, memCache.store)

		name := "Bright Desk Lamp"
		updated, err := svc.UpdateProduct(ctx, stored.ID, &models.UpdateProductRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.NotContains(t, memCache.store, "product:"+stored.ID.String())
	})
}

func TestHome(t *testing.T) {
	ctx := context.Background()

	featured := []*models.Product{{ID: uuid.New(), Name: "Desk Lamp", Featured: true}}
	arrivals := []*models.Product{{ID: uuid.New(), Name: "Bookshelf"}}
	topSelling := []*models.Product{{ID: uuid.New(), Name: "Office Chair", TopSelling: true}}

	t.Run("Assembles all three sections and caches them", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		repo.On("ListSection", mock.Anything, models.SectionFeatured, mock.AnythingOfType("int")).Return(featured, nil).Once()
		repo.On("ListSection", mock.Anything, models.SectionNewArrival, mock.AnythingOfType("int")).Return(arrivals, nil).Once()
		repo.On("ListSection", mock.Anything, models.SectionTopSelling, mock.AnythingOfType("int")).Return(topSelling, nil).Once()

		home, err := svc.Home(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", home.Featured[0].Name)
		assert.Equal(t, "Bookshelf", home.NewArrivals[0].Name)
		assert.Equal(t, "Office Chair", home.TopSelling[0].Name)

		cached, err := svc.Home(ctx)
		require.NoError(t, err)
		assert.Equal(t, home.Featured[0].ID, cached.Featured[0].ID)
		repo.AssertNumberOfCalls(t, "ListSection", 3)
	})

	t.Run("One failing section fails the whole response", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		repo.On("ListSection", mock.Anything, models.SectionFeatured, mock.Anything).Return(featured, nil).Maybe()
		repo.On("ListSection", mock.Anything, models.SectionNewArrival, mock.Anything).Return(nil, errors.New("query failed")).Once()
		repo.On("ListSection", mock.Anything, models.SectionTopSelling, mock.Anything).Return(topSelling, nil).Maybe()

		home, err := svc.Home(ctx)

		assert.Nil(t, home)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})

	t.Run("Product creation invalidates the home cache", func(t *testing.T) {
		repo, memCache, svc := newProductFixture()

		repo.On("ListSection", mock.Anything, mock.Anything, mock.Anything).Return(featured, nil)
		repo.On("CreateProduct", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.Home(ctx)
		require.NoError(t, err)
		assert.Contains(t, memCache.store, "home:sections")

		_, err = svc.CreateProduct(ctx, &models.CreateProductRequest{
			Name:          "Floor Lamp",
			Category:      "lighting",
			ListPrice:     2499,
			SellingPrice:  1999,
			StockQuantity: 4,
		})
		require.NoError(t, err)
		assert.NotContains(t, memCache.store, "home:sections")
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Section filter reaches the repository", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		featured := []*models.Product{{ID: uuid.New(), Name: "Desk Lamp", Featured: true}}
		repo.On("ListProducts", ctx, models.SectionFeatured, 1, 10).Return(featured, 1, nil).Once()

		products, total, err := svc.ListProducts(ctx, models.SectionFeatured, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, products, 1)
		assert.True(t, products[0].Featured)
		repo.AssertExpectations(t)
	})

	t.Run("Empty section lists the full catalog", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		repo.On("ListProducts", ctx, models.ProductSection(""), 2, 25).Return([]*models.Product{}, 60, nil).Once()

		_, total, err := svc.ListProducts(ctx, "", 2, 25)

		require.NoError(t, err)
		assert.Equal(t, 60, total)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown section is rejected before the repository", func(t *testing.T) {
		repo, _, svc := newProductFixture()

		products, _, err := svc.ListProducts(ctx, models.ProductSection("giftpacks"), 1, 10)

		assert.Nil(t, products)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		repo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
