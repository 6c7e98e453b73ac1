package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/checkout"
)

// Checkout sessions are short-lived; an abandoned checkout simply expires.
const checkoutSessionTTL = 30 * time.Minute

type CheckoutSessionRepository interface {
	// GetSession returns the buyer's session, or nil when none exists.
	GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error)
	SaveSession(ctx context.Context, session *checkout.Session) error
	DeleteSession(ctx context.Context, userID uuid.UUID) error
}

type checkoutSessionRepository struct {
	store cache.Cache
}

func NewCheckoutSessionRepo(store cache.Cache) CheckoutSessionRepository {
	return &checkoutSessionRepository{store: store}
}

func (r *checkoutSessionRepository) GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error) {

	session := &checkout.Session{}

	found, err := r.store.Get(ctx, cache.Key(cache.CheckoutKeyPrefix, userID.String()), session)
	if err != nil {
		return nil, fmt.Errorf("loading checkout session: %w", err)
	}

	if !found {
		return nil, nil
	}

	return session, nil
}

func (r *checkoutSessionRepository) SaveSession(ctx context.Context, session *checkout.Session) error {

	session.UpdatedAt = time.Now()

	err := r.store.Set(ctx, cache.Key(cache.CheckoutKeyPrefix, session.UserID.String()), session, checkoutSessionTTL)
	if err != nil {
		return fmt.Errorf("saving checkout session: %w", err)
	}

	return nil
}

func (r *checkoutSessionRepository) DeleteSession(ctx context.Context, userID uuid.UUID) error {

	err := r.store.Delete(ctx, cache.Key(cache.CheckoutKeyPrefix, userID.String()))
	if err != nil {
		return fmt.Errorf("deleting checkout session: %w", err)
	}

	return nil
}
