// Package payments wraps the payment gateway behind a small interface.
// The checkout flow only needs three things from the gateway: issue a
// payment session for an amount, report the session's payment status, and
// authenticate webhook callbacks.
package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

type Event = stripe.Event

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Session is one checkout attempt at the gateway. ID is the opaque payment
// session identifier the browser-side checkout is opened with.
type Session struct {
	ID           string
	ClientSecret string
	Amount       int64
	Status       Status
}

type Client interface {
	// CreateSession opens a payment session for amount (integer rupees).
	CreateSession(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*Session, error)
	// SessionStatus reports the gateway's view of the session.
	SessionStatus(ctx context.Context, sessionID string) (Status, error)
	CancelSession(ctx context.Context, sessionID string) error
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

type gatewayClient struct {
	webhookSecret string
}

func NewClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &gatewayClient{webhookSecret: webhookSecret}
}

// CreateSession implements Client. The gateway bills in the currency's
// smallest unit, so rupees are converted to paise here.
func (g *gatewayClient) CreateSession(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*Session, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx, Metadata: metadata},
		Amount:      stripe.Int64(amount * 100),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Status:       statusOf(intent.Status),
	}, nil
}

// SessionStatus implements Client.
func (g *gatewayClient) SessionStatus(ctx context.Context, sessionID string) (Status, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	intent, err := paymentintent.Get(sessionID, params)
	if err != nil {
		return StatusFailed, err
	}

	return statusOf(intent.Status), nil
}

// CancelSession implements Client.
func (g *gatewayClient) CancelSession(ctx context.Context, sessionID string) error {
	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	}

	_, err := paymentintent.Cancel(sessionID, params)

	return err
}

// VerifyWebhookSignature implements Client.
func (g *gatewayClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if g.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, g.webhookSecret)
}

func statusOf(s stripe.PaymentIntentStatus) Status {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusPaid
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}
