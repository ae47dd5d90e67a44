package flow

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/petrijr/convo/pkg/api"
)

const (
	maxTextLen = 200
	dateLayout = "2006-01-02"
)

// sanitizeText strips control characters (except newline and tab), trims
// surrounding whitespace and enforces a non-empty, length-capped result.
func sanitizeText(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		return "", api.NewValidationError("error.empty_text")
	}
	if utf8.RuneCountInString(s) > maxTextLen {
		return "", api.NewValidationError("error.text_too_long", maxTextLen)
	}
	return s, nil
}

// parseDayOfMonth accepts an integer in [1,31].
func parseDayOfMonth(raw string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || day < 1 || day > 31 {
		return 0, api.NewValidationError("error.bad_day")
	}
	return day, nil
}

// parseAmount accepts a positive decimal and returns its canonical form.
func parseAmount(raw string) (string, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return "", api.NewValidationError("error.bad_amount")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// parseDate accepts a date in the fixed 2006-01-02 layout and returns it
// unchanged.
func parseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", api.NewValidationError("error.bad_date")
	}
	return s, nil
}

// parseCurrency accepts one of the fixed currency codes.
func parseCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !api.ValidCurrency(code) {
		return "", api.NewValidationError("error.bad_currency")
	}
	return code, nil
}

// parseTiming accepts one of the fixed reminder timings.
func parseTiming(raw string) (string, error) {
	if !api.ValidTiming(raw) {
		return "", api.NewValidationError("error.bad_choice")
	}
	return raw, nil
}

// parseYesNo accepts the yes/no confirmation tokens.
func parseYesNo(raw string) (bool, error) {
	switch raw {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, api.NewValidationError("error.bad_choice")
	}
}

// parseOneOf accepts any token from the given set.
func parseOneOf(raw string, allowed ...string) (string, error) {
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", api.NewValidationError("error.bad_choice")
}
