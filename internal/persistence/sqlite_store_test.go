package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrijr/convo/pkg/api"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	return s
}

func TestSQLiteStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if _, err := s.Load(ctx, 1); !errors.Is(err, api.ErrStateNotFound) {
		t.Fatalf("Load on empty store: got %v, want ErrStateNotFound", err)
	}

	d := api.NewRentDraft()
	title := "Flat 3B"
	d.Rent.Title = &title
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Millisecond)

	st := &api.ConversationState{UserID: 1, StateID: "rent_role", Draft: d, ExpiresAt: exp}
	if err := s.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.StateID != "rent_role" {
		t.Fatalf("StateID = %q", got.StateID)
	}
	if r := got.Draft.Rent; r == nil || *r.Title != "Flat 3B" {
		t.Fatalf("Draft = %+v", got.Draft)
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}

	// Upsert replaces the row.
	st.StateID = "rent_start_date"
	if err := s.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.StateID != "rent_start_date" {
		t.Fatalf("StateID after upsert = %q", got.StateID)
	}

	if err := s.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(ctx, 1); !errors.Is(err, api.ErrStateNotFound) {
		t.Fatalf("Load after Clear: got %v", err)
	}
}

func TestSQLitePurgeExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	now := time.Now()

	save := func(userID int64, exp time.Time) {
		t.Helper()
		err := s.Save(ctx, &api.ConversationState{UserID: userID, StateID: "x", ExpiresAt: exp})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	save(1, now.Add(-time.Hour))
	save(2, now.Add(-time.Minute))
	save(3, now.Add(time.Hour))

	n, err := s.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d rows, want 2", n)
	}
	if _, err := s.Load(ctx, 3); err != nil {
		t.Fatalf("live row purged: %v", err)
	}
}

func TestSQLiteCreateAgreementAndReminders(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	ag := &api.Agreement{
		ID:        "ag-1",
		UserID:    1,
		Kind:      api.FlowRent,
		Title:     "Flat 3B",
		Role:      api.RoleTenant,
		StartDate: "2026-09-01",
		Currency:  "EUR",
		Amount:    "950",
		DueDay:    5,
		Monthly:   true,
		Timing:    api.TimingDayBefore,
		Yearly:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	rems := []api.Reminder{
		{ID: "r-2", AgreementID: "ag-1", Title: "yearly_increase", Date: "2027-09-01", Timing: api.TimingWeekBefore},
		{ID: "r-1", AgreementID: "ag-1", Title: "monthly_due", Date: "2026-09-05", Amount: "950", Timing: api.TimingDayBefore},
	}

	id, err := s.CreateAgreementAndReminders(ctx, ag, rems)
	if err != nil {
		t.Fatalf("CreateAgreementAndReminders: %v", err)
	}
	if id != "ag-1" {
		t.Fatalf("id = %q", id)
	}

	got, err := s.GetAgreement(ctx, "ag-1")
	if err != nil {
		t.Fatalf("GetAgreement: %v", err)
	}
	if got.Kind != api.FlowRent || !got.Monthly || !got.Yearly || got.DueDay != 5 {
		t.Fatalf("GetAgreement = %+v", got)
	}
	if !got.CreatedAt.Equal(ag.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, ag.CreatedAt)
	}

	list, err := s.RemindersFor(ctx, "ag-1")
	if err != nil {
		t.Fatalf("RemindersFor: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r-1" || list[1].ID != "r-2" {
		t.Fatalf("RemindersFor not ordered by date: %+v", list)
	}
}

func TestSQLiteDuplicateAgreementRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	ag := &api.Agreement{ID: "ag-1", UserID: 1, Kind: api.FlowCustom, Title: "first"}
	if _, err := s.CreateAgreementAndReminders(ctx, ag, nil); err != nil {
		t.Fatalf("CreateAgreementAndReminders: %v", err)
	}

	dup := &api.Agreement{ID: "ag-1", UserID: 1, Kind: api.FlowCustom, Title: "second"}
	rems := []api.Reminder{{ID: "r-1", AgreementID: "ag-1", Title: "x"}}
	if _, err := s.CreateAgreementAndReminders(ctx, dup, rems); err == nil {
		t.Fatal("duplicate agreement id accepted")
	}

	// The failed transaction left no reminder rows behind.
	list, err := s.RemindersFor(ctx, "ag-1")
	if err != nil {
		t.Fatalf("RemindersFor: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rolled-back reminders persisted: %+v", list)
	}
	got, err := s.GetAgreement(ctx, "ag-1")
	if err != nil {
		t.Fatalf("GetAgreement: %v", err)
	}
	if got.Title != "first" {
		t.Fatalf("Title = %q, want first", got.Title)
	}
}

func TestSQLiteUpdateAgreementField(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	ag := &api.Agreement{ID: "ag-1", UserID: 1, Kind: api.FlowRent, Title: "Flat 3B", Amount: "950"}
	if _, err := s.CreateAgreementAndReminders(ctx, ag, nil); err != nil {
		t.Fatalf("CreateAgreementAndReminders: %v", err)
	}

	if err := s.UpdateAgreementField(ctx, "ag-1", "amount", "1100"); err != nil {
		t.Fatalf("UpdateAgreementField: %v", err)
	}
	got, err := s.GetAgreement(ctx, "ag-1")
	if err != nil {
		t.Fatalf("GetAgreement: %v", err)
	}
	if got.Amount != "1100" {
		t.Fatalf("Amount = %q", got.Amount)
	}

	if err := s.UpdateAgreementField(ctx, "ag-1", "user_id", "999"); err == nil {
		t.Fatal("non-editable column accepted")
	}
	if err := s.UpdateAgreementField(ctx, "missing", "amount", "1"); !errors.Is(err, api.ErrAgreementNotFound) {
		t.Fatalf("update of missing agreement: got %v", err)
	}
}
