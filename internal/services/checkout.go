package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/errors"
	repository "github.com/kartverse/storefront/internal/repositories"
)

// CheckoutService exposes the step gate: one checkout section editable at a
// time, per buyer. Entering a section while another is active is rejected
// instead of overwriting it.
type CheckoutService interface {
	GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error)
	EnterSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error)
	LeaveSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error)
}

type checkoutService struct {
	sessions repository.CheckoutSessionRepository
}

func NewCheckoutService(sessions repository.CheckoutSessionRepository) CheckoutService {
	return &checkoutService{sessions: sessions}
}

func (s *checkoutService) GetSession(ctx context.Context, userID uuid.UUID) (*checkout.Session, error) {

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, errors.InternalError("Failed to read checkout session").WithError(err)
	}

	if session == nil {
		session = checkout.NewSession(userID)
	}

	return session, nil
}

func (s *checkoutService) EnterSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error) {

	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !session.Gate.TryEnter(section) {
		return nil, errors.CheckoutLockedError("Another checkout step is already active").
			WithDetail(string(session.Gate.Active()))
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, errors.InternalError("Failed to save checkout session").WithError(err)
	}

	return session, nil
}

func (s *checkoutService) LeaveSection(ctx context.Context, userID uuid.UUID, section checkout.Section) (*checkout.Session, error) {

	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	session.Gate.Leave(section)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, errors.InternalError("Failed to save checkout session").WithError(err)
	}

	return session, nil
}
