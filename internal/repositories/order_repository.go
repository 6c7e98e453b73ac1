package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/utils"
	"github.com/lib/pq"
)

type OrderRepository interface {
	// CreateOrders inserts all rows of one placement atomically.
	CreateOrders(ctx context.Context, orders []*models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrdersByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*models.Order, error)
	GetOrdersBySessionID(ctx context.Context, sessionID string) ([]*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error)
	// MarkOrdersPaid finalizes a verified placement in one transaction.
	MarkOrdersPaid(ctx context.Context, ids []uuid.UUID, estimatedDelivery time.Time) error
	MarkOrdersFailed(ctx context.Context, ids []uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, product_id, product_name, quantity, total_price,
	price_of_discount, actual_price, address_snapshot, payment_session_id, payment_status,
	status, buy_type, delivery_days, estimated_delivery, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *models.Order) error {
	var (
		addressJSON []byte
		estimated   sql.NullTime
	)

	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.Quantity, &o.TotalPrice,
		&o.PriceOfDiscount, &o.ActualPrice, &addressJSON, &o.PaymentSessionID, &o.PaymentStatus,
		&o.Status, &o.BuyType, &o.DeliveryDays, &estimated, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	if estimated.Valid {
		o.EstimatedDelivery = estimated.Time
	}

	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &o.AddressSnapshot); err != nil {
			return fmt.Errorf("failed to unmarshal address snapshot: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) CreateOrders(ctx context.Context, orders []*models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("starting order transaction: %w", err)
	}

	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, product_id, product_name, quantity, total_price,
			price_of_discount, actual_price, address_snapshot, payment_session_id,
			payment_status, status, buy_type, delivery_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	for _, order := range orders {

		addressJSON, err := json.Marshal(order.AddressSnapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal address snapshot: %w", err)
		}

		err = tx.QueryRowContext(dbCtx, query,
			order.ID, order.UserID, order.ProductID, order.ProductName, order.Quantity,
			order.TotalPrice, order.PriceOfDiscount, order.ActualPrice, addressJSON,
			order.PaymentSessionID, order.PaymentStatus, order.Status, order.BuyType,
			order.DeliveryDays).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	if err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id), order); err != nil {
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrdersByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND id = ANY($2) ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) GetOrdersBySessionID(ctx context.Context, sessionID string) ([]*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_session_id = $1`

	rows, err := r.DB.QueryContext(dbCtx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by session: %w", err)
	}

	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) MarkOrdersPaid(ctx context.Context, ids []uuid.UUID, estimatedDelivery time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, estimated_delivery = $2, updated_at = NOW()
		WHERE id = ANY($3)
	`

	result, err := r.DB.ExecContext(dbCtx, query, models.PaymentStatusPaid, estimatedDelivery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark orders paid: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading update result: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) MarkOrdersFailed(ctx context.Context, ids []uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, status = $2, updated_at = NOW()
		WHERE id = ANY($3)
	`

	_, err := r.DB.ExecContext(dbCtx, query, models.PaymentStatusFailed, models.OrderStatusCancelled, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark orders failed: %w", err)
	}

	return nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading update result: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order

	for rows.Next() {
		order := &models.Order{}

		if err := scanOrder(rows, order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
