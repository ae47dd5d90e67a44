package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/petrijr/convo/pkg/api"
)

// SQLiteStore implements api.StateStore and api.RecordStore on a SQLite
// database.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

var _ api.StateStore = (*SQLiteStore)(nil)

var _ api.RecordStore = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database
// and returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_states (
			user_id INTEGER PRIMARY KEY,
			state_id TEXT NOT NULL,
			draft BLOB,
			expires_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agreements (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL DEFAULT '',
			due_day INTEGER NOT NULL DEFAULT 0,
			monthly_reminder INTEGER NOT NULL DEFAULT 0,
			reminder_timing TEXT NOT NULL DEFAULT '',
			yearly_increase INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			agreement_id TEXT NOT NULL REFERENCES agreements(id),
			title TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL DEFAULT '',
			timing TEXT NOT NULL DEFAULT ''
		);`,
	)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, userID int64) (*api.ConversationState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT state_id, draft, expires_at
		FROM conversation_states
		WHERE user_id = ?`,
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

func (s *SQLiteStore) Save(ctx context.Context, st *api.ConversationState) error {
	draft, err := EncodeDraft(st.Draft)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversation_states (user_id, state_id, draft, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			state_id = excluded.state_id,
			draft = excluded.draft,
			expires_at = excluded.expires_at`,
		st.UserID,
		st.StateID,
		draft,
		st.ExpiresAt.UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) Clear(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversation_states WHERE user_id = ?`, userID)
	return err
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversation_states WHERE expires_at < ?`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) CreateAgreementAndReminders(ctx context.Context, ag *api.Agreement, rems []api.Reminder) (string, error) {
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ag.ID, ag.UserID, string(ag.Kind), ag.Title, ag.Description, ag.Role,
		ag.StartDate, ag.Currency, ag.Amount, ag.DueDay,
		boolToInt(ag.Monthly), ag.Timing, boolToInt(ag.Yearly),
		ag.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", err
	}

	for _, rem := range rems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (id, agreement_id, title, date, amount, timing)
			VALUES (?, ?, ?, ?, ?, ?)`,
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

func (s *SQLiteStore) UpdateAgreementField(ctx context.Context, agreementID, field, value string) error {
	col, ok := agreementColumn(field)
	if !ok {
		return fmt.Errorf("unknown agreement field %q", field)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE agreements SET `+col+` = ? WHERE id = ?`,
		value, agreementID,
	)
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

func (s *SQLiteStore) GetAgreement(ctx context.Context, agreementID string) (*api.Agreement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, title, description, role, start_date,
			currency, amount, due_day, monthly_reminder, reminder_timing,
			yearly_increase, created_at
		FROM agreements
		WHERE id = ?`,
		agreementID,
	)
	return scanAgreement(row)
}

// RemindersFor returns the reminders of an agreement ordered by date.
func (s *SQLiteStore) RemindersFor(ctx context.Context, agreementID string) ([]api.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agreement_id, title, date, amount, timing
		FROM reminders
		WHERE agreement_id = ?
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgreement(row rowScanner) (*api.Agreement, error) {
	var (
		ag        api.Agreement
		kind      string
		monthly   int
		yearly    int
		createdAt int64
	)
	err := row.Scan(
		&ag.ID, &ag.UserID, &kind, &ag.Title, &ag.Description, &ag.Role,
		&ag.StartDate, &ag.Currency, &ag.Amount, &ag.DueDay,
		&monthly, &ag.Timing, &yearly, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrAgreementNotFound
		}
		return nil, err
	}
	ag.Kind = api.FlowKind(kind)
	ag.Monthly = monthly != 0
	ag.Yearly = yearly != 0
	ag.CreatedAt = time.UnixMilli(createdAt)
	return &ag, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
