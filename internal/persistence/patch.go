package persistence

import (
	"fmt"
	"strconv"

	"github.com/petrijr/convo/pkg/api"
)

// applyAgreementPatch sets one editable field on an in-memory agreement.
func applyAgreementPatch(ag *api.Agreement, field, value string) error {
	switch field {
	case "title":
		ag.Title = value
	case "amount":
		ag.Amount = value
	case "currency":
		ag.Currency = value
	case "due_day":
		day, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("due_day %q: %w", value, err)
		}
		ag.DueDay = day
	default:
		return fmt.Errorf("unknown agreement field %q", field)
	}
	return nil
}

// agreementColumn maps an editable field name to its SQL column. The
// whitelist keeps user-chosen field names out of query text.
func agreementColumn(field string) (string, bool) {
	switch field {
	case "title", "amount", "currency", "due_day":
		return field, true
	default:
		return "", false
	}
}
