// Package dispatch connects an Engine to the chat transport: it feeds
// inbound events into the engine and pushes the resulting delivery
// actions through a Deliverer.
//
// The dispatcher is the single place where engine errors surface to the
// operator log; the engine itself only reports through its Observer.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/petrijr/convo/pkg/api"
)

// Dispatcher routes inbound chat events through an Engine and delivers
// the responses.
type Dispatcher struct {
	engine    api.Engine
	deliverer api.Deliverer
	logger    *slog.Logger
}

// New creates a Dispatcher. If logger is nil, slog.Default() is used.
func New(engine api.Engine, deliverer api.Deliverer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		engine:    engine,
		deliverer: deliverer,
		logger:    logger,
	}
}

// HandleText processes one inbound text message. Engine errors are
// logged but never abort delivery: the engine always produces a
// user-facing response, even for failures.
func (d *Dispatcher) HandleText(ctx context.Context, ev api.TextEvent) error {
	actions, err := d.engine.OnText(ctx, ev)
	if err != nil {
		d.logger.ErrorContext(ctx, "engine_error",
			slog.Int64("user_id", ev.UserID),
			slog.String("event", "text"),
			slog.Any("error", err),
		)
	}
	return d.deliver(ctx, actions)
}

// HandleCallback processes one inbound button press.
func (d *Dispatcher) HandleCallback(ctx context.Context, ev api.CallbackEvent) error {
	actions, err := d.engine.OnCallback(ctx, ev)
	if err != nil {
		d.logger.ErrorContext(ctx, "engine_error",
			slog.Int64("user_id", ev.UserID),
			slog.String("event", "callback"),
			slog.Any("error", err),
		)
	}
	return d.deliver(ctx, actions)
}

func (d *Dispatcher) deliver(ctx context.Context, actions []api.DeliveryAction) error {
	for _, a := range actions {
		if err := d.deliverer.Deliver(ctx, a); err != nil {
			d.logger.ErrorContext(ctx, "delivery_failed",
				slog.Int64("chat_id", a.ChatID),
				slog.Any("error", err),
			)
			return err
		}
	}
	return nil
}
