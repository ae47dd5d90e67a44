// Package convo is an embeddable conversational workflow engine for
// chat bots: a finite-state machine that walks one user through a
// multi-step form, validates every answer, accumulates a draft across
// turns, and commits the finished draft as permanent records.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Engine
//  2. Flows and steps
//  3. Stores
//  4. Dispatcher
//  5. Observer
//
// # Engine
//
// The Engine receives one inbound event at a time (a text message or a
// button callback), resolves the user's current conversation state,
// dispatches to the step the state addresses, and returns the messages
// to deliver in response. Engines can be backed by different storage:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Postgres
//   - Redis (conversation state only, with native key expiry)
//
// # Flows and steps
//
// Three flows ship with the engine: the rent-agreement flow, the
// custom-agreement flow with its reminder loop, and the single-field
// edit flow. Each flow is a fixed, ordered list of steps; each step
// declares how to validate the answer, how the answer mutates the
// draft, which step comes next, and what to ask the user. The step
// tables are built once at startup into a single immutable registry
// keyed by state id.
//
// A conversation can always be interrupted with the cancel token, times
// out after thirty minutes of inactivity, and is silently restarted
// when the user picks a menu entry mid-flow.
//
// # Stores
//
// Conversation state is a single row per user: the step the engine is
// waiting on, the draft so far, and the expiry. Completed drafts become
// agreement and reminder records, created as one atomic unit.
//
// # Dispatcher
//
// The dispatch package connects an Engine to the chat transport: it
// feeds events in and pushes the resulting delivery actions through a
// Deliverer implementation.
//
// # Observer
//
// All observability flows through an injected Observer: structured
// logging via log/slog, in-process counters, or Prometheus collectors
// from the metrics package. The engine itself keeps no process-wide
// state.
//
// For runnable examples, see the /examples directory.
package convo
