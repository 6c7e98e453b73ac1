package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	// ListProducts returns one page of the catalog, optionally narrowed
	// to a storefront section. An empty section means the full catalog.
	ListProducts(ctx context.Context, section models.ProductSection, page, size int) ([]*models.Product, int, error)
	// ListSection returns the products for one storefront home section.
	ListSection(ctx context.Context, section models.ProductSection, limit int) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, description, category, list_price, selling_price,
	stock_quantity, featured, top_selling, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.ListPrice, &p.SellingPrice,
		&p.StockQuantity, &p.Featured, &p.TopSelling, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, name, description, category, list_price, selling_price,
			stock_quantity, featured, top_selling)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	return r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Description, product.Category, product.ListPrice,
		product.SellingPrice, product.StockQuantity, product.Featured, product.TopSelling).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), product); err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, list_price = $4, selling_price = $5,
			stock_quantity = $6, featured = $7, top_selling = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Description, product.Category, product.ListPrice, product.SellingPrice,
		product.StockQuantity, product.Featured, product.TopSelling, product.ID).
		Scan(&product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, section models.ProductSection, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var filter string

	switch section {
	// "new" is the full catalog in newest-first order, which is the
	// listing's order already.
	case "", models.SectionNewArrival:
		filter = ""
	case models.SectionFeatured:
		filter = ` WHERE featured`
	case models.SectionTopSelling:
		filter = ` WHERE top_selling`
	default:
		return nil, 0, fmt.Errorf("unknown product section %q", section)
	}

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`+filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + productColumns + ` FROM products` + filter + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListSection(ctx context.Context, section models.ProductSection, limit int) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var query string

	switch section {
	case models.SectionFeatured:
		query = `SELECT ` + productColumns + ` FROM products WHERE featured ORDER BY created_at DESC LIMIT $1`
	case models.SectionTopSelling:
		query = `SELECT ` + productColumns + ` FROM products WHERE top_selling ORDER BY created_at DESC LIMIT $1`
	case models.SectionNewArrival:
		query = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown product section %q", section)
	}

	rows, err := r.DB.QueryContext(dbCtx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing %s products: %w", section, err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		if err := scanProduct(rows, product); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
