package api

import (
	"context"
	"time"
)

// ConversationState is the one-row-per-user tuple the engine persists
// between turns: which step it is waiting on, the draft so far, and when
// the conversation times out.
type ConversationState struct {
	UserID    int64
	StateID   string
	Draft     Draft
	ExpiresAt time.Time
}

// StateStore persists conversation state keyed by user. Implementations
// must serialize writes per row; the engine itself never locks users.
//
// Load returns ErrStateNotFound when the user has no row. Expiry is a
// read-time policy applied by the router, not by the store: Load returns
// expired rows as-is.
type StateStore interface {
	Load(ctx context.Context, userID int64) (*ConversationState, error)
	Save(ctx context.Context, st *ConversationState) error
	Clear(ctx context.Context, userID int64) error

	// PurgeExpired physically deletes rows whose expiry is before now and
	// returns how many were removed. Optional hygiene; correctness never
	// depends on it.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Agreement is the permanent record a completed flow materializes.
type Agreement struct {
	ID          string
	UserID      int64
	Kind        FlowKind
	Title       string
	Description string
	Role        string
	StartDate   string
	Currency    string
	Amount      string
	DueDay      int
	Monthly     bool
	Timing      string
	Yearly      bool
	CreatedAt   time.Time
}

// Reminder is a dated notification attached to an agreement.
type Reminder struct {
	ID          string
	AgreementID string
	Title       string
	Date        string
	Amount      string
	Timing      string
}

// RecordStore creates and mutates the permanent records.
type RecordStore interface {
	// CreateAgreementAndReminders creates the agreement and its reminders
	// as a single atomic unit and returns the agreement ID. On error
	// nothing is created.
	CreateAgreementAndReminders(ctx context.Context, ag *Agreement, rems []Reminder) (string, error)

	// UpdateAgreementField applies a single-field patch to an agreement.
	UpdateAgreementField(ctx context.Context, agreementID, field, value string) error

	// GetAgreement returns the agreement or ErrAgreementNotFound.
	GetAgreement(ctx context.Context, agreementID string) (*Agreement, error)
}

// Localizer resolves a message key to user-facing text for a locale.
type Localizer interface {
	Localize(locale, key string, args ...any) string
}

// Deliverer pushes one outbound message into the chat transport.
type Deliverer interface {
	Deliver(ctx context.Context, action DeliveryAction) error
}
