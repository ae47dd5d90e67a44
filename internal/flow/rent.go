package flow

import (
	"strconv"

	"github.com/petrijr/convo/pkg/api"
)

// Rent flow state ids, in order.
const (
	RentTitle           = "rent_title"
	RentRole            = "rent_role"
	RentStartDate       = "rent_start_date"
	RentCurrency        = "rent_currency"
	RentAmount          = "rent_amount"
	RentDueDay          = "rent_due_day"
	RentMonthlyReminder = "rent_monthly_reminder"
	RentReminderTiming  = "rent_reminder_timing"
	RentYearlyIncrease  = "rent_yearly_increase"
	RentSummary         = "rent_summary"
)

func rentSteps() []*Step {
	return []*Step{
		{
			ID:   RentTitle,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return sanitizeText(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.Title = &s
				return RentRole
			},
			Prompt: textPrompt("rent.title.prompt"),
		},
		{
			ID:   RentRole,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseOneOf(raw, api.RoleLandlord, api.RoleTenant)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.Role = &s
				return RentStartDate
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "rent.role.prompt"),
					Keyboard: roleKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   RentStartDate,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseDate(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.StartDate = &s
				return RentCurrency
			},
			Prompt: textPrompt("rent.start_date.prompt"),
		},
		{
			ID:   RentCurrency,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseCurrency(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.Currency = &s
				return RentAmount
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "rent.currency.prompt"),
					Keyboard: currencyKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   RentAmount,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseAmount(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.Amount = &s
				return RentDueDay
			},
			Prompt: textPrompt("rent.amount.prompt"),
		},
		{
			ID:   RentDueDay,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseDayOfMonth(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				day := v.(int)
				d.Rent.DueDay = &day
				return RentMonthlyReminder
			},
			Prompt: textPrompt("rent.due_day.prompt"),
		},
		{
			ID:   RentMonthlyReminder,
			Kind: KindConfirm,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseYesNo(raw)
			},
			// Answering "no" skips the timing question entirely.
			Apply: func(d *api.Draft, v any) string {
				yes := v.(bool)
				d.Rent.Monthly = &yes
				if yes {
					return RentReminderTiming
				}
				return RentYearlyIncrease
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "rent.monthly_reminder.prompt"),
					Keyboard: yesNoKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   RentReminderTiming,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseTiming(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Rent.ReminderTiming = &s
				return RentYearlyIncrease
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "rent.reminder_timing.prompt"),
					Keyboard: timingKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   RentYearlyIncrease,
			Kind: KindConfirm,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseYesNo(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				yes := v.(bool)
				d.Rent.YearlyIncrease = &yes
				return RentSummary
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "rent.yearly_increase.prompt"),
					Keyboard: yesNoKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   RentSummary,
			Kind: KindConfirm,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseOneOf(raw, "yes")
			},
			Apply: func(d *api.Draft, v any) string {
				return Terminal
			},
			Prompt: func(d *api.Draft, loc api.Localizer, locale string) api.Prompt {
				r := d.Rent
				return api.Prompt{
					Text: loc.Localize(locale, "rent.summary.prompt",
						str(r.Title),
						loc.Localize(locale, "button."+str(r.Role)),
						str(r.StartDate),
						str(r.Amount),
						str(r.Currency),
						strconv.Itoa(derefInt(r.DueDay)),
					),
					Keyboard: confirmKeyboard(loc, locale),
				}
			},
		},
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
