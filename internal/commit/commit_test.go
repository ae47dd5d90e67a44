package commit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/convo/pkg/api"
)

type fakeRecords struct {
	agreement *api.Agreement
	reminders []api.Reminder
	updated   [3]string
	err       error
}

func (f *fakeRecords) CreateAgreementAndReminders(_ context.Context, ag *api.Agreement, rems []api.Reminder) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.agreement = ag
	f.reminders = rems
	return ag.ID, nil
}

func (f *fakeRecords) UpdateAgreementField(_ context.Context, agreementID, field, value string) error {
	if f.err != nil {
		return f.err
	}
	f.updated = [3]string{agreementID, field, value}
	return nil
}

func (f *fakeRecords) GetAgreement(context.Context, string) (*api.Agreement, error) {
	return nil, api.ErrAgreementNotFound
}

func newTestStage(records api.RecordStore) *Stage {
	s := New(records)
	s.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	n := 0
	s.newID = func() string {
		n++
		return []string{"id-1", "id-2", "id-3", "id-4"}[n-1]
	}
	return s
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
func boolp(b bool) *bool    { return &b }

func completeRentDraft() *api.Draft {
	return &api.Draft{
		Kind: api.FlowRent,
		Rent: &api.RentDraft{
			Title:          strp("Flat 3B"),
			Role:           strp(api.RoleTenant),
			StartDate:      strp("2026-09-01"),
			Currency:       strp("EUR"),
			Amount:         strp("950"),
			DueDay:         intp(5),
			Monthly:        boolp(true),
			ReminderTiming: strp(api.TimingDayBefore),
			YearlyIncrease: boolp(true),
		},
	}
}

func TestCommitRent(t *testing.T) {
	records := &fakeRecords{}
	s := newTestStage(records)

	id, err := s.Commit(context.Background(), 42, completeRentDraft())
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	ag := records.agreement
	require.NotNil(t, ag)
	assert.Equal(t, int64(42), ag.UserID)
	assert.Equal(t, api.FlowRent, ag.Kind)
	assert.Equal(t, "Flat 3B", ag.Title)
	assert.Equal(t, 5, ag.DueDay)
	assert.True(t, ag.Monthly)
	assert.True(t, ag.Yearly)

	require.Len(t, records.reminders, 2)

	monthly := records.reminders[0]
	assert.Equal(t, MonthlyDueTitle, monthly.Title)
	assert.Equal(t, "id-1", monthly.AgreementID)
	assert.Equal(t, "2026-09-05", monthly.Date)
	assert.Equal(t, "950", monthly.Amount)
	assert.Equal(t, api.TimingDayBefore, monthly.Timing)

	yearly := records.reminders[1]
	assert.Equal(t, YearlyIncreaseTitle, yearly.Title)
	assert.Equal(t, "2027-09-01", yearly.Date)
	assert.Equal(t, api.TimingWeekBefore, yearly.Timing)
}

func TestCommitRentWithoutFlagsHasNoReminders(t *testing.T) {
	records := &fakeRecords{}
	s := newTestStage(records)

	d := completeRentDraft()
	d.Rent.Monthly = boolp(false)
	d.Rent.YearlyIncrease = boolp(false)
	d.Rent.ReminderTiming = nil

	_, err := s.Commit(context.Background(), 42, d)
	require.NoError(t, err)
	assert.Empty(t, records.reminders)
}

func TestCommitRentIncompleteDraft(t *testing.T) {
	s := newTestStage(&fakeRecords{})

	d := completeRentDraft()
	d.Rent.Amount = nil

	_, err := s.Commit(context.Background(), 42, d)
	require.Error(t, err)
	assert.False(t, api.IsPersistenceError(err))
}

func TestCommitRentStoreFailure(t *testing.T) {
	s := newTestStage(&fakeRecords{err: errors.New("db down")})

	_, err := s.Commit(context.Background(), 42, completeRentDraft())
	require.Error(t, err)
	assert.True(t, api.IsPersistenceError(err))
}

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name   string
		start  string
		dueDay int
		want   string
	}{
		{"later this month", "2026-09-01", 5, "2026-09-05"},
		{"same day", "2026-09-05", 5, "2026-09-05"},
		{"already passed", "2026-09-10", 5, "2026-10-05"},
		{"clamped to month end", "2026-02-01", 31, "2026-02-28"},
		{"clamped next month", "2026-01-31", 31, "2026-01-31"},
		{"rolls into short month", "2026-02-28", 30, "2026-02-28"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, err := time.Parse(dateLayout, tc.start)
			require.NoError(t, err)
			got := nextDueDate(start, tc.dueDay).Format(dateLayout)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCommitCustom(t *testing.T) {
	records := &fakeRecords{}
	s := newTestStage(records)

	d := &api.Draft{
		Kind: api.FlowCustom,
		Custom: &api.CustomDraft{
			Title:       strp("Gym membership"),
			Description: strp("Annual contract"),
			Currency:    strp("EUR"),
			Reminders: []api.CustomReminderDraft{
				{Title: strp("Q1 fee"), Date: strp("2026-10-01"), Amount: strp("120"), Timing: strp(api.TimingWeekBefore)},
				{Title: strp("Q2 fee"), Date: strp("2027-01-01"), Amount: strp("120"), Timing: strp(api.TimingSameDay)},
			},
		},
	}

	id, err := s.Commit(context.Background(), 42, d)
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	assert.Equal(t, api.FlowCustom, records.agreement.Kind)
	assert.Equal(t, "Annual contract", records.agreement.Description)
	require.Len(t, records.reminders, 2)
	assert.Equal(t, "Q1 fee", records.reminders[0].Title)
	assert.Equal(t, "id-1", records.reminders[0].AgreementID)
	assert.Equal(t, "id-3", records.reminders[1].ID)
}

func TestCommitCustomIncompleteReminder(t *testing.T) {
	s := newTestStage(&fakeRecords{})

	d := &api.Draft{
		Kind: api.FlowCustom,
		Custom: &api.CustomDraft{
			Title:       strp("x"),
			Description: strp("y"),
			Currency:    strp("EUR"),
			Reminders:   []api.CustomReminderDraft{{Title: strp("no date")}},
		},
	}

	_, err := s.Commit(context.Background(), 42, d)
	require.Error(t, err)
}

func TestCommitCustomOverCap(t *testing.T) {
	s := newTestStage(&fakeRecords{})

	c := &api.CustomDraft{Title: strp("x"), Description: strp("y"), Currency: strp("EUR")}
	for i := 0; i <= api.MaxReminders; i++ {
		c.Reminders = append(c.Reminders, api.CustomReminderDraft{
			Title: strp("r"), Date: strp("2026-10-01"), Amount: strp("1"), Timing: strp(api.TimingSameDay),
		})
	}

	_, err := s.Commit(context.Background(), 42, &api.Draft{Kind: api.FlowCustom, Custom: c})
	assert.ErrorIs(t, err, api.ErrTooManyReminders)
}

func TestCommitEdit(t *testing.T) {
	records := &fakeRecords{}
	s := newTestStage(records)

	d := &api.Draft{
		Kind: api.FlowEdit,
		Edit: &api.EditDraft{AgreementID: "ag-1", Field: strp("amount"), Value: strp("1100")},
	}

	id, err := s.Commit(context.Background(), 42, d)
	require.NoError(t, err)
	assert.Equal(t, "ag-1", id)
	assert.Equal(t, [3]string{"ag-1", "amount", "1100"}, records.updated)
}

func TestCommitEditIncomplete(t *testing.T) {
	s := newTestStage(&fakeRecords{})

	d := &api.Draft{Kind: api.FlowEdit, Edit: &api.EditDraft{AgreementID: "ag-1"}}
	_, err := s.Commit(context.Background(), 42, d)
	require.Error(t, err)
}

func TestCommitUnknownKind(t *testing.T) {
	s := newTestStage(&fakeRecords{})
	_, err := s.Commit(context.Background(), 42, &api.Draft{Kind: api.FlowKind("mystery")})
	require.Error(t, err)
}
