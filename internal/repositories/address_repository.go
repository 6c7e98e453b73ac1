package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/models"
	"github.com/kartverse/storefront/internal/utils"
)

// ErrAddressNotFound is returned when an address id does not exist for the
// buyer; services map it onto a NOT_FOUND AppError.
var ErrAddressNotFound = errors.New("address not found")

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) error
	GetAddressByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	UpdateAddress(ctx context.Context, address *models.Address) error
	// DeleteAddress removes the address and, when it was the selected one,
	// moves the selection pointer to the oldest remaining address (or NULL).
	// Returns the newly selected address, nil when none remain or the
	// selection was untouched by the delete.
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	SetSelectedAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) error
	GetSelectedAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type addressRepository struct {
	DB *sql.DB
}

func NewAddressRepo(db *sql.DB) AddressRepository {
	return &addressRepository{DB: db}
}

const addressColumns = `id, user_id, name, phone_number, pin_code, locality, address, city, state,
	landmark, alternate_phone, address_type, is_default, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }, a *models.Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.Name, &a.PhoneNumber, &a.PinCode, &a.Locality,
		&a.Address, &a.City, &a.State, &a.Landmark, &a.AlternatePhone,
		&a.AddressType, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}

func (r *addressRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO addresses (id, user_id, name, phone_number, pin_code, locality, address,
			city, state, landmark, alternate_phone, address_type, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}

	return r.DB.QueryRowContext(dbCtx, query,
		address.ID, address.UserID, address.Name, address.PhoneNumber, address.PinCode,
		address.Locality, address.Address, address.City, address.State, address.Landmark,
		address.AlternatePhone, address.AddressType, address.IsDefault).
		Scan(&address.CreatedAt, &address.UpdatedAt)
}

func (r *addressRepository) GetAddressByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	address := &models.Address{}

	err := scanAddress(r.DB.QueryRowContext(dbCtx, query, addressID, userID), address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}

		return nil, fmt.Errorf("querying address: %w", err)
	}

	return address, nil
}

func (r *addressRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}

	defer rows.Close()

	var addresses []models.Address

	for rows.Next() {
		var address models.Address

		if err := scanAddress(rows, &address); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}

		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (r *addressRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE addresses
		SET name = $1, phone_number = $2, pin_code = $3, locality = $4, address = $5,
			city = $6, state = $7, landmark = $8, alternate_phone = $9, address_type = $10,
			is_default = $11, updated_at = NOW()
		WHERE id = $12 AND user_id = $13
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		address.Name, address.PhoneNumber, address.PinCode, address.Locality, address.Address,
		address.City, address.State, address.Landmark, address.AlternatePhone, address.AddressType,
		address.IsDefault, address.ID, address.UserID).
		Scan(&address.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAddressNotFound
		}

		return fmt.Errorf("updating address: %w", err)
	}

	return nil
}

func (r *addressRepository) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting delete transaction: %w", err)
	}

	defer tx.Rollback()

	var selectedID *uuid.UUID

	err = tx.QueryRowContext(dbCtx, `SELECT selected_address_id FROM users WHERE id = $1`, userID).
		Scan(&selectedID)
	if err != nil {
		return nil, fmt.Errorf("reading selected address: %w", err)
	}

	result, err := tx.ExecContext(dbCtx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting address: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading delete result: %w", err)
	}

	if deleted == 0 {
		return nil, ErrAddressNotFound
	}

	var fallback *models.Address

	if selectedID != nil && *selectedID == addressID {

		// Selection fallback: oldest remaining address, or NULL.
		fallback = &models.Address{}

		err := scanAddress(tx.QueryRowContext(dbCtx,
			`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`,
			userID), fallback)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			fallback = nil
		case err != nil:
			return nil, fmt.Errorf("selecting fallback address: %w", err)
		}

		var newSelectedID *uuid.UUID
		if fallback != nil {
			newSelectedID = &fallback.ID
		}

		_, err = tx.ExecContext(dbCtx,
			`UPDATE users SET selected_address_id = $1, updated_at = NOW() WHERE id = $2`,
			newSelectedID, userID)
		if err != nil {
			return nil, fmt.Errorf("updating selected address: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}

	return fallback, nil
}

func (r *addressRepository) SetSelectedAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE users SET selected_address_id = $1, updated_at = NOW() WHERE id = $2`,
		addressID, userID)
	if err != nil {
		return fmt.Errorf("setting selected address: %w", err)
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

func (r *addressRepository) GetSelectedAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = (SELECT selected_address_id FROM users WHERE id = $1)
	`

	address := &models.Address{}

	err := scanAddress(r.DB.QueryRowContext(dbCtx, query, userID), address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("querying selected address: %w", err)
	}

	return address, nil
}
