package convo

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/convo/internal/persistence"
	"github.com/petrijr/convo/internal/router"
	"github.com/petrijr/convo/pkg/api"
	"github.com/petrijr/convo/pkg/i18n"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine            = api.Engine
	TextEvent         = api.TextEvent
	CallbackEvent     = api.CallbackEvent
	DeliveryAction    = api.DeliveryAction
	Prompt            = api.Prompt
	Keyboard          = api.Keyboard
	Button            = api.Button
	Draft             = api.Draft
	FlowKind          = api.FlowKind
	ConversationState = api.ConversationState
	Agreement         = api.Agreement
	Reminder          = api.Reminder
	StateStore        = api.StateStore
	RecordStore       = api.RecordStore
	Localizer         = api.Localizer
	Deliverer         = api.Deliverer
	Observer          = api.Observer
	LoggingObserver   = api.LoggingObserver
	BasicMetrics      = api.BasicMetrics
	CompositeObserver = api.CompositeObserver
	NoopObserver      = api.NoopObserver
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export flow kinds for convenience.

const (
	FlowRent   = api.FlowRent
	FlowCustom = api.FlowCustom
	FlowEdit   = api.FlowEdit
)

// DefaultTTL is the default inactivity timeout of a conversation.
const DefaultTTL = router.DefaultTTL

// Config wires an Engine from its collaborators. States and Records are
// required; Locales defaults to the built-in English bundle, Observer to
// a no-op, TTL to DefaultTTL.
type Config struct {
	States   api.StateStore
	Records  api.RecordStore
	Locales  api.Localizer
	Observer api.Observer
	TTL      time.Duration
}

// NewEngine creates an Engine from explicit collaborators.
func NewEngine(cfg Config) api.Engine {
	loc := cfg.Locales
	if loc == nil {
		loc = i18n.Default()
	}
	return router.New(router.Config{
		States:   cfg.States,
		Records:  cfg.Records,
		Locales:  loc,
		Observer: cfg.Observer,
		TTL:      cfg.TTL,
	})
}

// Engine constructors
// These wrap the internal packages so external callers never need to
// import them.

// NewInMemoryEngine returns an Engine backed entirely by in-memory
// stores. State and records are lost on restart; best for tests and
// local development.
func NewInMemoryEngine() Engine {
	return NewInMemoryEngineWithObserver(nil)
}

// NewInMemoryEngineWithObserver returns an in-memory Engine with the
// given Observer.
func NewInMemoryEngineWithObserver(obs Observer) Engine {
	mem := persistence.NewMemoryStore()
	return NewEngine(Config{
		States:   mem,
		Records:  mem,
		Observer: obs,
	})
}

// NewSQLiteEngine returns an Engine that persists conversation state and
// records in a SQLite database.
func NewSQLiteEngine(db *sql.DB) (Engine, error) {
	return NewSQLiteEngineWithObserver(db, nil)
}

// NewSQLiteEngineWithObserver returns a SQLite-backed Engine with the
// given Observer.
func NewSQLiteEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return NewEngine(Config{
		States:   store,
		Records:  store,
		Observer: obs,
	}), nil
}

// NewPostgresEngine returns an Engine that persists conversation state
// and records in PostgreSQL.
func NewPostgresEngine(db *sql.DB) (Engine, error) {
	return NewPostgresEngineWithObserver(db, nil)
}

// NewPostgresEngineWithObserver returns a Postgres-backed Engine with
// the given Observer.
func NewPostgresEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	store, err := persistence.NewPostgresStore(db)
	if err != nil {
		return nil, err
	}
	return NewEngine(Config{
		States:   store,
		Records:  store,
		Observer: obs,
	}), nil
}

// NewRedisEngine returns an Engine that keeps conversation state in
// Redis. Permanent records need relational queries, so a separate
// RecordStore (for example a SQLite- or Postgres-backed one) is still
// required.
func NewRedisEngine(client *redis.Client, records RecordStore) Engine {
	return NewRedisEngineWithObserver(client, records, nil)
}

// NewRedisEngineWithObserver returns a Redis-backed Engine with the
// given Observer.
func NewRedisEngineWithObserver(client *redis.Client, records RecordStore, obs Observer) Engine {
	return NewEngine(Config{
		States:   persistence.NewRedisStateStore(client, "convo:"),
		Records:  records,
		Observer: obs,
	})
}

// NewSQLiteRecordStore returns a RecordStore backed by SQLite, for use
// with NewRedisEngine.
func NewSQLiteRecordStore(db *sql.DB) (RecordStore, error) {
	return persistence.NewSQLiteStore(db)
}

// NewPostgresRecordStore returns a RecordStore backed by PostgreSQL,
// for use with NewRedisEngine.
func NewPostgresRecordStore(db *sql.DB) (RecordStore, error) {
	return persistence.NewPostgresStore(db)
}
