package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/petrijr/convo/pkg/api"
)

// PostgresStore implements api.StateStore and api.RecordStore on a
// PostgreSQL database.
//
// It expects an *sql.DB that uses a PostgreSQL driver (for example,
// "github.com/jackc/pgx/v5/stdlib" or "github.com/lib/pq").
//
// The caller is responsible for:
//   - importing the driver for its side effects, e.g.:
//     _ "github.com/jackc/pgx/v5/stdlib"
//   - providing a DSN via sql.Open.
type PostgresStore struct {
	db *sql.DB
}

var _ api.StateStore = (*PostgresStore)(nil)

var _ api.RecordStore = (*PostgresStore)(nil)

// NewPostgresStore initializes the required schema in the given database
// and returns a new PostgresStore.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_states (
			user_id BIGINT PRIMARY KEY,
			state_id TEXT NOT NULL,
			draft BYTEA,
			expires_at BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agreements (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL DEFAULT '',
			due_day INTEGER NOT NULL DEFAULT 0,
			monthly_reminder BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_timing TEXT NOT NULL DEFAULT '',
			yearly_increase BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			agreement_id TEXT NOT NULL REFERENCES agreements(id),
			title TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL DEFAULT '',
			timing TEXT NOT NULL DEFAULT ''
		);
	`)
	return err
}

func (s *PostgresStore) Load(ctx context.Context, userID int64) (*api.ConversationState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT state_id, draft, expires_at
		FROM conversation_states
		WHERE user_id = $1`,
		userID,
	)

	var (
		stateID   string
		draft     []byte
		expiresAt int64
	)
	if err := row.Scan(&stateID, &draft, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrStateNotFound
		}
		return nil, err
	}

	d, err := DecodeDraft(draft)
	if err != nil {
		return nil, err
	}

	return &api.ConversationState{
		UserID:    userID,
		StateID:   stateID,
		Draft:     d,
		ExpiresAt: time.UnixMilli(expiresAt),
	}, nil
}

func (s *PostgresStore) Save(ctx context.Context, st *api.ConversationState) error {
	draft, err := EncodeDraft(st.Draft)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversation_states (user_id, state_id, draft, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			state_id = EXCLUDED.state_id,
			draft = EXCLUDED.draft,
			expires_at = EXCLUDED.expires_at`,
		st.UserID,
		st.StateID,
		draft,
		st.ExpiresAt.UnixMilli(),
	)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversation_states WHERE user_id = $1`, userID)
	return err
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversation_states WHERE expires_at < $1`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *PostgresStore) CreateAgreementAndReminders(ctx context.Context, ag *api.Agreement, rems []api.Reminder) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO agreements (
			id, user_id, kind, title, description, role, start_date,
			currency, amount, due_day, monthly_reminder, reminder_timing,
			yearly_increase, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		ag.ID, ag.UserID, string(ag.Kind), ag.Title, ag.Description, ag.Role,
		ag.StartDate, ag.Currency, ag.Amount, ag.DueDay,
		ag.Monthly, ag.Timing, ag.Yearly,
		ag.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", err
	}

	for _, rem := range rems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (id, agreement_id, title, date, amount, timing)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rem.ID, rem.AgreementID, rem.Title, rem.Date, rem.Amount, rem.Timing,
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return ag.ID, nil
}

func (s *PostgresStore) UpdateAgreementField(ctx context.Context, agreementID, field, value string) error {
	col, ok := agreementColumn(field)
	if !ok {
		return fmt.Errorf("unknown agreement field %q", field)
	}

	var res sql.Result
	var err error
	if col == "due_day" {
		res, err = s.db.ExecContext(ctx,
			`UPDATE agreements SET due_day = $1::integer WHERE id = $2`,
			value, agreementID,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE agreements SET `+col+` = $1 WHERE id = $2`,
			value, agreementID,
		)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return api.ErrAgreementNotFound
	}
	return nil
}

func (s *PostgresStore) GetAgreement(ctx context.Context, agreementID string) (*api.Agreement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, title, description, role, start_date,
			currency, amount, due_day, monthly_reminder, reminder_timing,
			yearly_increase, created_at
		FROM agreements
		WHERE id = $1`,
		agreementID,
	)

	var (
		ag        api.Agreement
		kind      string
		createdAt int64
	)
	err := row.Scan(
		&ag.ID, &ag.UserID, &kind, &ag.Title, &ag.Description, &ag.Role,
		&ag.StartDate, &ag.Currency, &ag.Amount, &ag.DueDay,
		&ag.Monthly, &ag.Timing, &ag.Yearly, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrAgreementNotFound
		}
		return nil, err
	}
	ag.Kind = api.FlowKind(kind)
	ag.CreatedAt = time.UnixMilli(createdAt)
	return &ag, nil
}

// RemindersFor returns the reminders of an agreement ordered by date.
func (s *PostgresStore) RemindersFor(ctx context.Context, agreementID string) ([]api.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agreement_id, title, date, amount, timing
		FROM reminders
		WHERE agreement_id = $1
		ORDER BY date`,
		agreementID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rems []api.Reminder
	for rows.Next() {
		var rem api.Reminder
		if err := rows.Scan(&rem.ID, &rem.AgreementID, &rem.Title, &rem.Date, &rem.Amount, &rem.Timing); err != nil {
			return nil, err
		}
		rems = append(rems, rem)
	}
	return rems, rows.Err()
}
