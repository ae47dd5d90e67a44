package flow

import "github.com/petrijr/convo/pkg/api"

// Keyboard builders. Every choice keyboard carries a trailing cancel row
// so the user can always abort the flow.

func cancelRow(loc api.Localizer, locale string) []api.Button {
	return []api.Button{{Label: loc.Localize(locale, "button.cancel"), Token: CancelToken}}
}

func yesNoKeyboard(loc api.Localizer, locale string) api.Keyboard {
	return api.Keyboard{
		{
			{Label: loc.Localize(locale, "button.yes"), Token: "yes"},
			{Label: loc.Localize(locale, "button.no"), Token: "no"},
		},
		cancelRow(loc, locale),
	}
}

func confirmKeyboard(loc api.Localizer, locale string) api.Keyboard {
	return api.Keyboard{
		{{Label: loc.Localize(locale, "button.confirm"), Token: "yes"}},
		cancelRow(loc, locale),
	}
}

func roleKeyboard(loc api.Localizer, locale string) api.Keyboard {
	return api.Keyboard{
		{
			{Label: loc.Localize(locale, "button.landlord"), Token: api.RoleLandlord},
			{Label: loc.Localize(locale, "button.tenant"), Token: api.RoleTenant},
		},
		cancelRow(loc, locale),
	}
}

func currencyKeyboard(loc api.Localizer, locale string) api.Keyboard {
	var kb api.Keyboard
	var row []api.Button
	for _, c := range api.Currencies {
		row = append(row, api.Button{Label: c, Token: c})
		if len(row) == 4 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return append(kb, cancelRow(loc, locale))
}

func timingKeyboard(loc api.Localizer, locale string) api.Keyboard {
	var kb api.Keyboard
	for _, t := range api.Timings {
		kb = append(kb, []api.Button{{Label: loc.Localize(locale, "button.timing."+t), Token: t}})
	}
	return append(kb, cancelRow(loc, locale))
}

func addDoneKeyboard(loc api.Localizer, locale string) api.Keyboard {
	return api.Keyboard{
		{
			{Label: loc.Localize(locale, "button.add_reminder"), Token: "add"},
			{Label: loc.Localize(locale, "button.done"), Token: "done"},
		},
		cancelRow(loc, locale),
	}
}

func editFieldKeyboard(loc api.Localizer, locale string) api.Keyboard {
	return api.Keyboard{
		{
			{Label: loc.Localize(locale, "button.field.title"), Token: "title"},
			{Label: loc.Localize(locale, "button.field.amount"), Token: "amount"},
		},
		{
			{Label: loc.Localize(locale, "button.field.currency"), Token: "currency"},
			{Label: loc.Localize(locale, "button.field.due_day"), Token: "due_day"},
		},
		cancelRow(loc, locale),
	}
}

// textPrompt is the common shape of free-text step prompts: just a
// localized question, no keyboard.
func textPrompt(key string) func(*api.Draft, api.Localizer, string) api.Prompt {
	return func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
		return api.Prompt{Text: loc.Localize(locale, key)}
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
