package i18n

// defaultEnglish is the built-in message catalog. Deployments layer
// their own locales on top via Bundle.Load.
var defaultEnglish = map[string]string{
	"prompt.step_of": "Step %d of %d",

	"button.yes":          "Yes",
	"button.no":           "No",
	"button.confirm":      "Confirm",
	"button.cancel":       "Cancel",
	"button.landlord":     "Landlord",
	"button.tenant":       "Tenant",
	"button.add_reminder": "Add another",
	"button.done":         "Done",

	"button.timing.same_day":         "On the day",
	"button.timing.day_before":       "One day before",
	"button.timing.week_before":      "One week before",
	"button.timing.two_weeks_before": "Two weeks before",

	"button.field.title":    "Title",
	"button.field.amount":   "Amount",
	"button.field.currency": "Currency",
	"button.field.due_day":  "Due day",

	"rent.title.prompt":            "What should this rent agreement be called?",
	"rent.role.prompt":             "Are you the landlord or the tenant?",
	"rent.start_date.prompt":       "When does the agreement start? (YYYY-MM-DD)",
	"rent.currency.prompt":         "Which currency is the rent paid in?",
	"rent.amount.prompt":           "How much is the monthly rent?",
	"rent.due_day.prompt":          "On which day of the month is the rent due? (1-31)",
	"rent.monthly_reminder.prompt": "Should I remind you every month when the rent is due?",
	"rent.reminder_timing.prompt":  "When should the monthly reminder arrive?",
	"rent.yearly_increase.prompt":  "Should I remind you about the yearly rent increase?",
	"rent.summary.prompt":          "Please confirm:\nTitle: %s\nRole: %s\nStart: %s\nRent: %s %s\nDue day: %s",

	"custom.title.prompt":           "What should this agreement be called?",
	"custom.description.prompt":     "Add a short description.",
	"custom.currency.prompt":        "Which currency do the amounts use?",
	"custom.reminder_title.prompt":  "Reminder %d: what is it for?",
	"custom.reminder_date.prompt":   "When is it due? (YYYY-MM-DD)",
	"custom.reminder_amount.prompt": "What amount is due?",
	"custom.reminder_timing.prompt": "When should the reminder arrive?",
	"custom.reminder_list.prompt":   "%d of %d reminders added. Add another?",
	"custom.summary.prompt":         "Please confirm:\nTitle: %s\nDescription: %s\nCurrency: %s\nReminders: %s",

	"edit.field.prompt": "Which field do you want to change?",
	"edit.value.prompt": "Enter the new value for %s.",

	"cancel.done":    "Cancelled. Nothing was saved.",
	"cancel.nothing": "Nothing to cancel.",

	"commit.success.rent":   "Your rent agreement has been created.",
	"commit.success.custom": "Your agreement and its reminders have been created.",
	"commit.success.edit":   "The agreement has been updated.",

	"error.empty_text":          "Please enter some text.",
	"error.text_too_long":       "Please keep it under %d characters.",
	"error.bad_day":             "Please enter a day between 1 and 31.",
	"error.bad_amount":          "Please enter a positive amount, like 950 or 949.50.",
	"error.bad_date":            "Please use the YYYY-MM-DD format, like 2026-09-01.",
	"error.bad_currency":        "Please pick one of the listed currencies.",
	"error.bad_choice":          "Please use one of the buttons.",
	"error.expected_text":       "Please answer with a text message.",
	"error.expected_choice":     "Please use the buttons to answer.",
	"error.unknown_state":       "I lost track of this conversation. Please start again from the menu.",
	"error.agreement_not_found": "I could not find that agreement.",
	"error.generic":             "Something went wrong. Please try again.",
}
