package flow

import (
	"strconv"

	"github.com/petrijr/convo/pkg/api"
)

// Edit flow state ids, in order. The flow is entered via an edit:<id>
// callback, which pins the agreement id in the draft before the first
// step runs.
const (
	EditField = "edit_field"
	EditValue = "edit_value"
)

// Editable agreement fields.
const (
	FieldTitle    = "title"
	FieldAmount   = "amount"
	FieldCurrency = "currency"
	FieldDueDay   = "due_day"
)

func editSteps() []*Step {
	return []*Step{
		{
			ID:   EditField,
			Kind: KindChoice,
			Validate: func(_ *api.Draft, raw string) (any, error) {
				return parseOneOf(raw, FieldTitle, FieldAmount, FieldCurrency, FieldDueDay)
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Edit.Field = &s
				return EditValue
			},
			Prompt: func(_ *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text:     loc.Localize(locale, "edit.field.prompt"),
					Keyboard: editFieldKeyboard(loc, locale),
				}
			},
		},
		{
			ID:   EditValue,
			Kind: KindText,
			// The accepted value shape depends on which field was chosen
			// in the previous step.
			Validate: func(d *api.Draft, raw string) (any, error) {
				switch str(d.Edit.Field) {
				case FieldAmount:
					return parseAmount(raw)
				case FieldCurrency:
					return parseCurrency(raw)
				case FieldDueDay:
					day, err := parseDayOfMonth(raw)
					if err != nil {
						return nil, err
					}
					return strconv.Itoa(day), nil
				default:
					return sanitizeText(raw)
				}
			},
			Apply: func(d *api.Draft, v any) string {
				s := v.(string)
				d.Edit.Value = &s
				return Terminal
			},
			Prompt: func(d *api.Draft, loc api.Localizer, locale string) api.Prompt {
				return api.Prompt{
					Text: loc.Localize(locale, "edit.value.prompt",
						loc.Localize(locale, "button.field."+str(d.Edit.Field))),
				}
			},
		},
	}
}
