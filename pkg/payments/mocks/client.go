// Package mocks provides a testify mock of the payment gateway client.
package mocks

import (
	"context"

	"github.com/kartverse/storefront/pkg/payments"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) CreateSession(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*payments.Session, error) {
	args := m.Called(ctx, amount, currency, description, metadata)
	if session, ok := args.Get(0).(*payments.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *Client) SessionStatus(ctx context.Context, sessionID string) (payments.Status, error) {
	args := m.Called(ctx, sessionID)

	return args.Get(0).(payments.Status), args.Error(1)
}

func (m *Client) CancelSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)

	return args.Error(0)
}

func (m *Client) VerifyWebhookSignature(payload []byte, signature string) (payments.Event, error) {
	args := m.Called(payload, signature)

	return args.Get(0).(payments.Event), args.Error(1)
}
