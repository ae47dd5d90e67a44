package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the engine for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be
// done asynchronously so as not to delay event handling. The engine keeps
// no process-wide state of its own: everything observable flows through
// the Observer it was constructed with.
type Observer interface {
	// OnFlowStarted is called when a menu selection starts (or restarts)
	// a flow for a user.
	OnFlowStarted(ctx context.Context, userID int64, flow FlowKind)

	// OnStepAdvanced is called after a valid input moved the user from
	// one step to the next and the new state was persisted.
	OnStepAdvanced(ctx context.Context, userID int64, from, to string, duration time.Duration)

	// OnInputRejected is called when an input fails validation. No state
	// was written.
	OnInputRejected(ctx context.Context, userID int64, stateID, reason string)

	// OnFlowCompleted is called after the commit stage succeeded and the
	// state row was deleted.
	OnFlowCompleted(ctx context.Context, userID int64, flow FlowKind, agreementID string)

	// OnFlowCancelled is called after a cancel token deleted the state.
	OnFlowCancelled(ctx context.Context, userID int64, stateID string)

	// OnCommitFailed is called when the commit stage could not create the
	// records. The conversation state was left in place so the user can
	// retry. This is the operator-visible error channel.
	OnCommitFailed(ctx context.Context, userID int64, flow FlowKind, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnFlowStarted(ctx context.Context, userID int64, flow FlowKind) {}
func (NoopObserver) OnStepAdvanced(ctx context.Context, userID int64, from, to string, d time.Duration) {
}
func (NoopObserver) OnInputRejected(ctx context.Context, userID int64, stateID, reason string) {}
func (NoopObserver) OnFlowCompleted(ctx context.Context, userID int64, flow FlowKind, agreementID string) {
}
func (NoopObserver) OnFlowCancelled(ctx context.Context, userID int64, stateID string)        {}
func (NoopObserver) OnCommitFailed(ctx context.Context, userID int64, flow FlowKind, err error) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnFlowStarted(ctx context.Context, userID int64, flow FlowKind) {
	for _, o := range c.observers {
		o.OnFlowStarted(ctx, userID, flow)
	}
}

func (c *CompositeObserver) OnStepAdvanced(ctx context.Context, userID int64, from, to string, d time.Duration) {
	for _, o := range c.observers {
		o.OnStepAdvanced(ctx, userID, from, to, d)
	}
}

func (c *CompositeObserver) OnInputRejected(ctx context.Context, userID int64, stateID, reason string) {
	for _, o := range c.observers {
		o.OnInputRejected(ctx, userID, stateID, reason)
	}
}

func (c *CompositeObserver) OnFlowCompleted(ctx context.Context, userID int64, flow FlowKind, agreementID string) {
	for _, o := range c.observers {
		o.OnFlowCompleted(ctx, userID, flow, agreementID)
	}
}

func (c *CompositeObserver) OnFlowCancelled(ctx context.Context, userID int64, stateID string) {
	for _, o := range c.observers {
		o.OnFlowCancelled(ctx, userID, stateID)
	}
}

func (c *CompositeObserver) OnCommitFailed(ctx context.Context, userID int64, flow FlowKind, err error) {
	for _, o := range c.observers {
		o.OnCommitFailed(ctx, userID, flow, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs flow lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnFlowStarted(ctx context.Context, userID int64, flow FlowKind) {
	o.Logger.InfoContext(ctx, "flow_started",
		slog.Int64("user_id", userID),
		slog.String("flow", string(flow)),
	)
}

func (o *LoggingObserver) OnStepAdvanced(ctx context.Context, userID int64, from, to string, d time.Duration) {
	o.Logger.DebugContext(ctx, "step_advanced",
		slog.Int64("user_id", userID),
		slog.String("from", from),
		slog.String("to", to),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnInputRejected(ctx context.Context, userID int64, stateID, reason string) {
	o.Logger.DebugContext(ctx, "input_rejected",
		slog.Int64("user_id", userID),
		slog.String("state_id", stateID),
		slog.String("reason", reason),
	)
}

func (o *LoggingObserver) OnFlowCompleted(ctx context.Context, userID int64, flow FlowKind, agreementID string) {
	o.Logger.InfoContext(ctx, "flow_completed",
		slog.Int64("user_id", userID),
		slog.String("flow", string(flow)),
		slog.String("agreement_id", agreementID),
	)
}

func (o *LoggingObserver) OnFlowCancelled(ctx context.Context, userID int64, stateID string) {
	o.Logger.InfoContext(ctx, "flow_cancelled",
		slog.Int64("user_id", userID),
		slog.String("state_id", stateID),
	)
}

func (o *LoggingObserver) OnCommitFailed(ctx context.Context, userID int64, flow FlowKind, err error) {
	o.Logger.ErrorContext(ctx, "commit_failed",
		slog.Int64("user_id", userID),
		slog.String("flow", string(flow)),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters and aggregate step durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	flowsStarted      atomic.Int64
	flowsCompleted    atomic.Int64
	flowsCancelled    atomic.Int64
	stepsAdvanced     atomic.Int64
	inputsRejected    atomic.Int64
	commitsFailed     atomic.Int64
	totalStepDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	FlowsStarted   int64
	FlowsCompleted int64
	FlowsCancelled int64
	FlowsInFlight  int64

	StepsAdvanced   int64
	InputsRejected  int64
	CommitsFailed   int64
	AvgStepDuration time.Duration
}

func (m *BasicMetrics) OnFlowStarted(ctx context.Context, userID int64, flow FlowKind) {
	m.flowsStarted.Add(1)
}

func (m *BasicMetrics) OnStepAdvanced(ctx context.Context, userID int64, from, to string, d time.Duration) {
	m.stepsAdvanced.Add(1)
	m.totalStepDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnInputRejected(ctx context.Context, userID int64, stateID, reason string) {
	m.inputsRejected.Add(1)
}

func (m *BasicMetrics) OnFlowCompleted(ctx context.Context, userID int64, flow FlowKind, agreementID string) {
	m.flowsCompleted.Add(1)
}

func (m *BasicMetrics) OnFlowCancelled(ctx context.Context, userID int64, stateID string) {
	m.flowsCancelled.Add(1)
}

func (m *BasicMetrics) OnCommitFailed(ctx context.Context, userID int64, flow FlowKind, err error) {
	m.commitsFailed.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.flowsStarted.Load()
	completed := m.flowsCompleted.Load()
	cancelled := m.flowsCancelled.Load()
	steps := m.stepsAdvanced.Load()
	totalNs := m.totalStepDuration.Load()

	var avg time.Duration
	if steps > 0 {
		avg = time.Duration(totalNs / steps)
	}

	return BasicMetricsSnapshot{
		FlowsStarted:    started,
		FlowsCompleted:  completed,
		FlowsCancelled:  cancelled,
		FlowsInFlight:   started - completed - cancelled,
		StepsAdvanced:   steps,
		InputsRejected:  m.inputsRejected.Load(),
		CommitsFailed:   m.commitsFailed.Load(),
		AvgStepDuration: avg,
	}
}
