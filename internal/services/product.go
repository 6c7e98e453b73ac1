package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	repository "github.com/kartverse/storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
)

const homeSectionLimit = 12

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, section models.ProductSection, page, pageSize int) ([]*models.Product, int, error)
	Home(ctx context.Context) (*models.HomeResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache, cacheTTL time.Duration) ProductService {
	return &productService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:            uuid.New(),
		Name:          s.sanitizer.Sanitize(req.Name),
		Description:   s.sanitizer.Sanitize(req.Description),
		Category:      s.sanitizer.Sanitize(req.Category),
		ListPrice:     req.ListPrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
		TopSelling:    req.TopSelling,
	}

	err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidateHome(ctx)

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.cacheTTL); err != nil {
		slog.Warn("Failed to cache product", slog.String("productId", id.String()), slog.Any("error", err))
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}
	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Category != nil {
		product.Category = s.sanitizer.Sanitize(*req.Category)
	}
	if req.ListPrice != nil {
		product.ListPrice = *req.ListPrice
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if product.SellingPrice > product.ListPrice {
		return nil, errors.BadRequestError("Selling price cannot exceed list price")
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.TopSelling != nil {
		product.TopSelling = *req.TopSelling
	}

	err = s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		slog.Warn("Failed to invalidate product cache", slog.Any("error", err))
	}
	s.invalidateHome(ctx)

	return product, nil
}

// page means "page number requested"
// pageSize means "number of products to be displayed per page"
// An empty section lists the full catalog.
func (s *productService) ListProducts(ctx context.Context, section models.ProductSection, page, pageSize int) ([]*models.Product, int, error) {

	switch section {
	case "", models.SectionFeatured, models.SectionNewArrival, models.SectionTopSelling:
	default:
		return nil, 0, errors.BadRequestError("Unknown product section")
	}

	products, total, err := s.repo.ListProducts(ctx, section, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

// Home assembles the storefront landing sections. The three section queries
// run concurrently; the assembled response is cached as one unit.
func (s *productService) Home(ctx context.Context) (*models.HomeResponse, error) {

	key := cache.Key(cache.HomeKeyPrefix, "sections")

	var cached models.HomeResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	var home models.HomeResponse

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.repo.ListSection(gCtx, models.SectionFeatured, homeSectionLimit)
		home.Featured = products

		return err
	})
	g.Go(func() error {
		products, err := s.repo.ListSection(gCtx, models.SectionNewArrival, homeSectionLimit)
		home.NewArrivals = products

		return err
	})
	g.Go(func() error {
		products, err := s.repo.ListSection(gCtx, models.SectionTopSelling, homeSectionLimit)
		home.TopSelling = products

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.DatabaseError("Failed to fetch home sections").WithError(err)
	}

	if err := s.cache.Set(ctx, key, &home, s.cacheTTL); err != nil {
		slog.Warn("Failed to cache home sections", slog.Any("error", err))
	}

	return &home, nil
}

func (s *productService) invalidateHome(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.Key(cache.HomeKeyPrefix, "sections")); err != nil {
		slog.Warn("Failed to invalidate home cache", slog.Any("error", err))
	}
}
