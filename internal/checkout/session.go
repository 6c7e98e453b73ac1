package checkout

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-buyer checkout state, persisted in Redis for the
// lifetime of one checkout attempt. Placing guards against a second
// place-order request while one is already in flight.
type Session struct {
	UserID           uuid.UUID   `json:"user_id"`
	Gate             StepGate    `json:"active_section"`
	Placing          bool        `json:"placing"`
	PaymentSessionID string      `json:"payment_session_id,omitempty"`
	PendingOrderIDs  []uuid.UUID `json:"pending_order_ids,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func NewSession(userID uuid.UUID) *Session {
	return &Session{UserID: userID, UpdatedAt: time.Now()}
}

type EnterSectionRequest struct {
	Section Section `json:"section" validate:"required,oneof=login address new-address edit-address"`
}

type LeaveSectionRequest struct {
	Section Section `json:"section" validate:"required,oneof=login address new-address edit-address"`
}
