package api

import "context"

// Engine is the conversational workflow engine as seen by the bot
// dispatch layer. One call per inbound event; calls for different users
// are safe to make concurrently.
type Engine interface {
	// OnText routes a free-text message through the user's current flow
	// and returns the messages to deliver in response.
	OnText(ctx context.Context, ev TextEvent) ([]DeliveryAction, error)

	// OnCallback routes a button press. Menu and cancel tokens are
	// recognized regardless of the user's current state.
	OnCallback(ctx context.Context, ev CallbackEvent) ([]DeliveryAction, error)

	// PurgeExpired physically removes expired conversation state rows and
	// returns how many were deleted. Intended for a periodic hygiene job;
	// expired rows are already invisible to OnText/OnCallback.
	PurgeExpired(ctx context.Context) (int, error)
}
