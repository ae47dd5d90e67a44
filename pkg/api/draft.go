package api

// FlowKind identifies which conversation flow a draft belongs to.
type FlowKind string

const (
	FlowRent   FlowKind = "rent"
	FlowCustom FlowKind = "custom"
	FlowEdit   FlowKind = "edit"
)

// MaxReminders caps how many reminders a custom agreement may carry.
const MaxReminders = 20

// Draft is the in-progress form data for one conversation. Exactly one
// variant pointer is set, matching Kind. All collected fields are
// pointers so an unset field is distinguishable from a zero value, and
// unknown JSON fields from other builds decode without error.
type Draft struct {
	Kind   FlowKind     `json:"kind"`
	Rent   *RentDraft   `json:"rent,omitempty"`
	Custom *CustomDraft `json:"custom,omitempty"`
	Edit   *EditDraft   `json:"edit,omitempty"`
}

// RentDraft accumulates the rent agreement flow, one field per step.
type RentDraft struct {
	Title          *string `json:"title,omitempty"`
	Role           *string `json:"role,omitempty"`
	StartDate      *string `json:"start_date,omitempty"`
	Currency       *string `json:"currency,omitempty"`
	Amount         *string `json:"amount,omitempty"`
	DueDay         *int    `json:"due_day,omitempty"`
	Monthly        *bool   `json:"monthly,omitempty"`
	ReminderTiming *string `json:"reminder_timing,omitempty"`
	YearlyIncrease *bool   `json:"yearly_increase,omitempty"`
}

// CustomDraft accumulates the custom reminders flow. Pending holds the
// reminder currently being filled in; it moves into Reminders once its
// last field is set.
type CustomDraft struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Currency    *string               `json:"currency,omitempty"`
	Reminders   []CustomReminderDraft `json:"reminders,omitempty"`
	Pending     *CustomReminderDraft  `json:"pending,omitempty"`
}

// CustomReminderDraft is one reminder inside a custom agreement draft.
type CustomReminderDraft struct {
	Title  *string `json:"title,omitempty"`
	Date   *string `json:"date,omitempty"`
	Amount *string `json:"amount,omitempty"`
	Timing *string `json:"timing,omitempty"`
}

// EditDraft accumulates the single-field edit flow for an existing
// agreement.
type EditDraft struct {
	AgreementID string  `json:"agreement_id"`
	Field       *string `json:"field,omitempty"`
	Value       *string `json:"value,omitempty"`
}

// NewRentDraft returns a draft positioned at the start of the rent flow.
func NewRentDraft() Draft {
	return Draft{Kind: FlowRent, Rent: &RentDraft{}}
}

// NewCustomDraft returns a draft positioned at the start of the custom
// reminders flow.
func NewCustomDraft() Draft {
	return Draft{Kind: FlowCustom, Custom: &CustomDraft{}}
}

// NewEditDraft returns a draft for editing one field of the given
// agreement.
func NewEditDraft(agreementID string) Draft {
	return Draft{Kind: FlowEdit, Edit: &EditDraft{AgreementID: agreementID}}
}

// Party roles on a rent agreement.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// Reminder timings, relative to the reminder's date.
const (
	TimingSameDay        = "same_day"
	TimingDayBefore      = "day_before"
	TimingWeekBefore     = "week_before"
	TimingTwoWeeksBefore = "two_weeks_before"
)

// Timings lists the accepted reminder timings in presentation order.
var Timings = []string{TimingSameDay, TimingDayBefore, TimingWeekBefore, TimingTwoWeeksBefore}

// Currencies lists the accepted currency codes in presentation order.
var Currencies = []string{"EUR", "USD", "GBP", "CHF", "SEK", "NOK", "PLN"}

// ValidCurrency reports whether code is one of the accepted currencies.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// ValidTiming reports whether raw is one of the accepted timings.
func ValidTiming(raw string) bool {
	for _, t := range Timings {
		if t == raw {
			return true
		}
	}
	return false
}
