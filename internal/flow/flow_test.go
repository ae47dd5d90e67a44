package flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/convo/pkg/api"
	"github.com/petrijr/convo/pkg/i18n"
)

func TestRegistryCoversAllFlows(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, RentTitle, r.First(api.FlowRent).ID)
	assert.Equal(t, CustomTitle, r.First(api.FlowCustom).ID)
	assert.Equal(t, EditField, r.First(api.FlowEdit).ID)

	for _, id := range []string{
		RentTitle, RentRole, RentStartDate, RentCurrency, RentAmount,
		RentDueDay, RentMonthlyReminder, RentReminderTiming,
		RentYearlyIncrease, RentSummary,
		CustomTitle, CustomDescription, CustomCurrency,
		CustomReminderTitle, CustomReminderDate, CustomReminderAmount,
		CustomReminderTiming, CustomReminderList, CustomSummary,
		EditField, EditValue,
	} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, "step %s not registered", id)
	}

	_, ok := r.Lookup("rent_nonexistent")
	assert.False(t, ok)
}

func TestPosition(t *testing.T) {
	r := NewRegistry()

	n, total := r.Position(RentTitle)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10, total)

	n, total = r.Position(RentSummary)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, total)

	n, total = r.Position(CustomReminderList)
	assert.Equal(t, 8, n)
	assert.Equal(t, 9, total)
}

func TestFlowOf(t *testing.T) {
	kind, ok := FlowOf("rent_amount")
	require.True(t, ok)
	assert.Equal(t, api.FlowRent, kind)

	kind, ok = FlowOf("custom_summary")
	require.True(t, ok)
	assert.Equal(t, api.FlowCustom, kind)

	kind, ok = FlowOf("edit_value")
	require.True(t, ok)
	assert.Equal(t, api.FlowEdit, kind)

	_, ok = FlowOf("bogus_state")
	assert.False(t, ok)
}

// Walks the rent flow's transition table with valid answers and checks
// each step fills exactly its own field.
func TestRentFlowTransitions(t *testing.T) {
	r := NewRegistry()
	d := api.NewRentDraft()

	next := apply(t, r, RentTitle, &d, "Flat 3B")
	require.Equal(t, RentRole, next)
	require.NotNil(t, d.Rent.Title)
	assert.Equal(t, "Flat 3B", *d.Rent.Title)
	assert.Nil(t, d.Rent.Role)

	next = apply(t, r, RentRole, &d, api.RoleTenant)
	require.Equal(t, RentStartDate, next)

	next = apply(t, r, RentStartDate, &d, "2026-09-01")
	require.Equal(t, RentCurrency, next)

	next = apply(t, r, RentCurrency, &d, "EUR")
	require.Equal(t, RentAmount, next)

	next = apply(t, r, RentAmount, &d, "950")
	require.Equal(t, RentDueDay, next)

	next = apply(t, r, RentDueDay, &d, "3")
	require.Equal(t, RentMonthlyReminder, next)

	next = apply(t, r, RentMonthlyReminder, &d, "yes")
	require.Equal(t, RentReminderTiming, next)

	next = apply(t, r, RentReminderTiming, &d, api.TimingDayBefore)
	require.Equal(t, RentYearlyIncrease, next)

	next = apply(t, r, RentYearlyIncrease, &d, "no")
	require.Equal(t, RentSummary, next)

	next = apply(t, r, RentSummary, &d, "yes")
	assert.Equal(t, Terminal, next)
}

// Answering "no" to the monthly reminder question skips the timing step
// and lands directly on the yearly increase question.
func TestRentMonthlyReminderBranch(t *testing.T) {
	r := NewRegistry()
	d := api.NewRentDraft()

	next := apply(t, r, RentMonthlyReminder, &d, "no")
	assert.Equal(t, RentYearlyIncrease, next)
	require.NotNil(t, d.Rent.Monthly)
	assert.False(t, *d.Rent.Monthly)
	assert.Nil(t, d.Rent.ReminderTiming)
}

func TestCustomReminderLoop(t *testing.T) {
	r := NewRegistry()
	d := api.NewCustomDraft()

	apply(t, r, CustomTitle, &d, "Insurance")
	apply(t, r, CustomDescription, &d, "Car insurance payments")
	next := apply(t, r, CustomCurrency, &d, "EUR")
	require.Equal(t, CustomReminderTitle, next)
	require.NotNil(t, d.Custom.Pending)

	addReminder := func(title string) string {
		apply(t, r, CustomReminderTitle, &d, title)
		apply(t, r, CustomReminderDate, &d, "2026-06-01")
		apply(t, r, CustomReminderAmount, &d, "120")
		return apply(t, r, CustomReminderTiming, &d, api.TimingWeekBefore)
	}

	next = addReminder("First installment")
	require.Equal(t, CustomReminderList, next)
	assert.Len(t, d.Custom.Reminders, 1)
	assert.Nil(t, d.Custom.Pending)

	// "add" loops back to the reminder title step.
	next = apply(t, r, CustomReminderList, &d, "add")
	require.Equal(t, CustomReminderTitle, next)
	require.NotNil(t, d.Custom.Pending)

	next = addReminder("Second installment")
	require.Equal(t, CustomReminderList, next)
	assert.Len(t, d.Custom.Reminders, 2)

	// "done" moves to the summary.
	next = apply(t, r, CustomReminderList, &d, "done")
	assert.Equal(t, CustomSummary, next)
}

// At the reminder cap, "add" is redirected to the summary instead of
// looping back.
func TestCustomReminderCapForcesSummary(t *testing.T) {
	r := NewRegistry()
	d := api.NewCustomDraft()

	title := "r"
	date := "2026-06-01"
	amount := "10"
	timing := api.TimingSameDay
	for i := 0; i < api.MaxReminders; i++ {
		d.Custom.Reminders = append(d.Custom.Reminders, api.CustomReminderDraft{
			Title: &title, Date: &date, Amount: &amount, Timing: &timing,
		})
	}

	next := apply(t, r, CustomReminderList, &d, "add")
	assert.Equal(t, CustomSummary, next)
	assert.Len(t, d.Custom.Reminders, api.MaxReminders)
	assert.Nil(t, d.Custom.Pending)
}

func TestEditValueValidationFollowsChosenField(t *testing.T) {
	r := NewRegistry()
	step, ok := r.Lookup(EditValue)
	require.True(t, ok)

	cases := []struct {
		field string
		good  string
		bad   string
	}{
		{field: FieldTitle, good: "New title", bad: ""},
		{field: FieldAmount, good: "1000", bad: "-5"},
		{field: FieldCurrency, good: "USD", bad: "XYZ"},
		{field: FieldDueDay, good: "15", bad: "40"},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			d := api.NewEditDraft("ag-1")
			f := tc.field
			d.Edit.Field = &f

			_, err := step.Validate(&d, tc.good)
			assert.NoError(t, err)

			_, err = step.Validate(&d, tc.bad)
			assert.Error(t, err)
		})
	}
}

func TestPromptForIncludesProgress(t *testing.T) {
	r := NewRegistry()
	loc := i18n.Default()
	d := api.NewRentDraft()

	p := r.PromptFor(RentTitle, &d, loc, "en")
	assert.True(t, strings.HasPrefix(p.Text, "Step 1 of 10"), "got %q", p.Text)
	assert.Empty(t, p.Keyboard)

	p = r.PromptFor(RentRole, &d, loc, "en")
	require.NotEmpty(t, p.Keyboard)
	assert.Equal(t, api.RoleLandlord, p.Keyboard[0][0].Token)

	// Choice keyboards always end in a cancel row.
	last := p.Keyboard[len(p.Keyboard)-1]
	assert.Equal(t, CancelToken, last[0].Token)
}

// apply validates raw for the given step and applies the result,
// returning the next state id.
func apply(t *testing.T, r *Registry, stepID string, d *api.Draft, raw string) string {
	t.Helper()

	step, ok := r.Lookup(stepID)
	require.True(t, ok, "step %s not registered", stepID)

	v, err := step.Validate(d, raw)
	require.NoError(t, err, "step %s rejected %q", stepID, raw)

	return step.Apply(d, v)
}
