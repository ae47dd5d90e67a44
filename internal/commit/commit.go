// Package commit turns a completed draft into permanent records. It is
// invoked exactly once per flow, when a transition reports the terminal
// step, and performs the record creation as a single atomic unit.
package commit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/convo/pkg/api"
)

// Titles of the reminders the rent flow derives from its boolean flags.
const (
	MonthlyDueTitle     = "monthly_due"
	YearlyIncreaseTitle = "yearly_increase"
)

const dateLayout = "2006-01-02"

// Stage converts completed drafts into agreement and reminder records.
type Stage struct {
	records api.RecordStore

	now   func() time.Time
	newID func() string
}

// New creates a commit stage writing through the given record store.
func New(records api.RecordStore) *Stage {
	return &Stage{
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Commit materializes the draft. For rent and custom drafts it creates
// one agreement plus its reminders atomically and returns the agreement
// ID; for edit drafts it patches the single chosen field. On error
// nothing is created and the caller must keep the conversation state so
// the user can retry.
func (s *Stage) Commit(ctx context.Context, userID int64, d *api.Draft) (string, error) {
	switch d.Kind {
	case api.FlowRent:
		return s.commitRent(ctx, userID, d.Rent)
	case api.FlowCustom:
		return s.commitCustom(ctx, userID, d.Custom)
	case api.FlowEdit:
		return s.commitEdit(ctx, d.Edit)
	default:
		return "", fmt.Errorf("commit: unknown flow kind %q", d.Kind)
	}
}

func (s *Stage) commitRent(ctx context.Context, userID int64, r *api.RentDraft) (string, error) {
	if r == nil || r.Title == nil || r.Role == nil || r.StartDate == nil ||
		r.Currency == nil || r.Amount == nil || r.DueDay == nil ||
		r.Monthly == nil || r.YearlyIncrease == nil {
		return "", fmt.Errorf("commit: rent draft incomplete")
	}

	ag := &api.Agreement{
		ID:        s.newID(),
		UserID:    userID,
		Kind:      api.FlowRent,
		Title:     *r.Title,
		Role:      *r.Role,
		StartDate: *r.StartDate,
		Currency:  *r.Currency,
		Amount:    *r.Amount,
		DueDay:    *r.DueDay,
		Monthly:   *r.Monthly,
		Yearly:    *r.YearlyIncrease,
		CreatedAt: s.now().UTC(),
	}
	if r.ReminderTiming != nil {
		ag.Timing = *r.ReminderTiming
	}

	rems, err := deriveRentReminders(ag)
	if err != nil {
		return "", err
	}
	for i := range rems {
		rems[i].ID = s.newID()
		rems[i].AgreementID = ag.ID
	}

	id, err := s.records.CreateAgreementAndReminders(ctx, ag, rems)
	if err != nil {
		return "", api.NewPersistenceError("create agreement", err)
	}
	return id, nil
}

// deriveRentReminders maps the rent draft's flags onto concrete reminder
// rows: the next monthly due date and the yearly increase anniversary.
func deriveRentReminders(ag *api.Agreement) ([]api.Reminder, error) {
	start, err := time.Parse(dateLayout, ag.StartDate)
	if err != nil {
		return nil, fmt.Errorf("commit: bad start date %q: %w", ag.StartDate, err)
	}

	var rems []api.Reminder
	if ag.Monthly {
		timing := ag.Timing
		if timing == "" {
			timing = api.TimingSameDay
		}
		rems = append(rems, api.Reminder{
			Title:  MonthlyDueTitle,
			Date:   nextDueDate(start, ag.DueDay).Format(dateLayout),
			Amount: ag.Amount,
			Timing: timing,
		})
	}
	if ag.Yearly {
		rems = append(rems, api.Reminder{
			Title:  YearlyIncreaseTitle,
			Date:   start.AddDate(1, 0, 0).Format(dateLayout),
			Timing: api.TimingWeekBefore,
		})
	}
	return rems, nil
}

// nextDueDate returns the first occurrence of dueDay on or after start,
// clamped to the last day of the month where needed.
func nextDueDate(start time.Time, dueDay int) time.Time {
	y, m, d := start.Date()
	if d <= dueDay {
		return time.Date(y, m, clampDay(y, m, dueDay), 0, 0, 0, 0, time.UTC)
	}
	next := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), clampDay(next.Year(), next.Month(), dueDay), 0, 0, 0, 0, time.UTC)
}

func clampDay(y int, m time.Month, day int) int {
	last := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	if day > last {
		return last
	}
	return day
}

func (s *Stage) commitCustom(ctx context.Context, userID int64, c *api.CustomDraft) (string, error) {
	if c == nil || c.Title == nil || c.Description == nil || c.Currency == nil {
		return "", fmt.Errorf("commit: custom draft incomplete")
	}
	if len(c.Reminders) > api.MaxReminders {
		return "", api.ErrTooManyReminders
	}

	ag := &api.Agreement{
		ID:          s.newID(),
		UserID:      userID,
		Kind:        api.FlowCustom,
		Title:       *c.Title,
		Description: *c.Description,
		Currency:    *c.Currency,
		CreatedAt:   s.now().UTC(),
	}

	rems := make([]api.Reminder, 0, len(c.Reminders))
	for _, rd := range c.Reminders {
		if rd.Title == nil || rd.Date == nil || rd.Amount == nil || rd.Timing == nil {
			return "", fmt.Errorf("commit: custom reminder incomplete")
		}
		rems = append(rems, api.Reminder{
			ID:          s.newID(),
			AgreementID: ag.ID,
			Title:       *rd.Title,
			Date:        *rd.Date,
			Amount:      *rd.Amount,
			Timing:      *rd.Timing,
		})
	}

	id, err := s.records.CreateAgreementAndReminders(ctx, ag, rems)
	if err != nil {
		return "", api.NewPersistenceError("create agreement", err)
	}
	return id, nil
}

func (s *Stage) commitEdit(ctx context.Context, e *api.EditDraft) (string, error) {
	if e == nil || e.AgreementID == "" || e.Field == nil || e.Value == nil {
		return "", fmt.Errorf("commit: edit draft incomplete")
	}
	if err := s.records.UpdateAgreementField(ctx, e.AgreementID, *e.Field, *e.Value); err != nil {
		return "", api.NewPersistenceError("update agreement", err)
	}
	return e.AgreementID, nil
}
