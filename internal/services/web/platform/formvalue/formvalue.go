// Package formvalue parses optional typed fields from submitted forms.
package formvalue

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

// Browser layouts for date and datetime-local inputs.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// Text returns the trimmed form value of key.
func Text(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.FormValue(key))
}

// Float parses an optional decimal. Blank is zero.
func Float(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_number", "invalid number "+strconv.Quote(raw))
	}
	return value, nil
}

// Int parses an optional non-negative integer. Blank is zero.
func Int(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_number", "invalid number "+strconv.Quote(raw))
	}
	return value, nil
}

// Date parses an optional yyyy-mm-dd value. Blank is the zero time.
func Date(raw string) (time.Time, error) {
	return parseTime(raw, DateLayout)
}

// DateTime parses an optional datetime-local value, accepting seconds.
func DateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == len(DateTimeLayout)+3 {
		return parseTime(raw, DateTimeLayout+":05")
	}
	return parseTime(raw, DateTimeLayout)
}

func parseTime(raw string, layout string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_date", "invalid date "+strconv.Quote(raw))
	}
	return value, nil
}

// FormatDate renders t for a date input. Zero is blank.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
