package flow

import (
	"strconv"

	"github.com/petrijr/convo/pkg/api"
)

// Custom flow state ids, in order.
const (
	CustomTitle          = "custom_title"
	CustomDescription    = "custom_description"
	CustomCurrency       = "custom_currency"
	CustomReminderTitle  = "custom_reminder_title"
	CustomReminderDate   = "custom_reminder_date"
	CustomReminderAmount = "custom_reminder_amount"
	CustomReminderTiming = "custom_reminder_timing"
	CustomReminderList   = "custom_reminder_list"
	CustomSummary        = "custom_summary"
)

func customSteps() []*Step {
	return []*Step{
		{
			ID:   CustomTitle,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return sanitizeText(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Title = &s
				return CustomDescription
			},
			Prompt: textPrompt("custom.title.prompt"),
		},
		{
			ID:   CustomDescription,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return sanitizeText(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Description = &s
				return CustomCurrency
			},
			Prompt: textPrompt("custom.description.prompt"),
		},
		{
			ID:   CustomCurrency,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseCurrency(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Currency = &s
				d.Custom.Pending = &api.CustomReminderDraft{}
				return CustomReminderTitle
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "custom.currency.prompt"),
					Keyboard: currencyKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   CustomReminderTitle,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return sanitizeText(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Pending.Title = &s
				return CustomReminderDate
			},
			Prompt: func(d *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text: loc.Localize(locale, "custom.reminder_title.prompt",
						len(d.Custom.Reminders)+1),
				}
			},
		},
		{
			ID:   CustomReminderDate,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseDate(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Pending.Date = &s
				return CustomReminderAmount
			},
			Prompt: textPrompt("custom.reminder_date.prompt"),
		},
		{
			ID:   CustomReminderAmount,
			Kind: KindText,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseAmount(raw)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Pending.Amount = &s
				return CustomReminderTiming
			},
			Prompt: textPrompt("custom.reminder_amount.prompt"),
		},
		{
			ID:   CustomReminderTiming,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseTiming(raw)
			},
			// The finished pending reminder joins the list here.
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Custom.Pending.Timing = &s
				d.Custom.Reminders = append(d.Custom.Reminders, *d.Custom.Pending)
				d.Custom.Pending = nil
				return CustomReminderList
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "custom.reminder_timing.prompt"),
					Keyboard: timingKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   CustomReminderList,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseOneOf(raw, "add", "done")
			},
			// Loops back to the reminder sub-flow while the user keeps
			// adding, until the cap forces the summary.
			Apply: func(d *api.Draft, v any) string {
				if v.(string) == "add" && len(d.Custom.Reminders) < api.MaxReminders {
					d.Custom.Pending = &api.CustomReminderDraft{}
					return CustomReminderTitle
				}
				return CustomSummary
			},
			Prompt: func(d *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text: loc.Localize(locale, "custom.reminder_list.prompt",
						len(d.Custom.Reminders), api.MaxReminders),
					Keyboard: addDoneKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   CustomSummary,
			Kind: KindConfirm,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseOneOf(raw, "yes")
			},
			Apply: func(d *api.Draft, v any) string {
				return Terminal
			},
			Prompt: func(d *api.Draft, loc api.Localizer, locale string) api.Prompt {
				c := d.Custom
				return api.Prompt{
					Text: loc.Localize(locale, "custom.summary.prompt",
						str(c.Title),
						str(c.Description),
						str(c.Currency),
						strconv.Itoa(len(c.Reminders)),
					),
					Keyboard: confirmKeyboard(loc, locale),
				}
			},
		},
	}
}
