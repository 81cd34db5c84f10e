package templates

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
)

// Localizer prints translated strings for components.
type Localizer = webi18n.Localizer

// T returns a translated string.
func T(loc Localizer, key string, args ...any) string {
	return webi18n.T(loc, key, args...)
}

const dateLayout = "2006-01-02"

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format(dateLayout)
}

func formatDateTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}

// relativeDate renders "in 3 days" or "2 weeks ago" against now.
func relativeDate(value time.Time, now time.Time) string {
	if value.IsZero() {
		return ""
	}
	return humanize.RelTime(value, now, "ago", "from now")
}

func formatAmount(value float64) string {
	return humanize.FormatFloat("#,###.##", value)
}

func formatDistance(km float64) string {
	if km <= 0 {
		return "-"
	}
	return humanize.FormatFloat("#,###.#", km) + " km"
}

func formatMileage(km float64) string {
	return humanize.Comma(int64(km)) + " km"
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// statusLabel translates a backend enum such as IN_PROGRESS.
func statusLabel(loc Localizer, status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return T(loc, "core.label.unknown")
	}
	key := "core.status." + strings.ToLower(status)
	if label := T(loc, key); label != key {
		return label
	}
	return status
}

func statusClass(status string) string {
	return "badge badge-" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(status), "_", "-"))
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
