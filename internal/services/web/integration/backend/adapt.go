package backend

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// firstOf returns the first present, non-null value among paths.
func firstOf(value gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if result := value.Get(path); result.Exists() && result.Type != gjson.Null {
			return result
		}
	}
	return gjson.Result{}
}

func stringOf(value gjson.Result, paths ...string) string {
	return strings.TrimSpace(firstOf(value, paths...).String())
}

func floatOf(value gjson.Result, paths ...string) float64 {
	return firstOf(value, paths...).Float()
}

func intOf(value gjson.Result, paths ...string) int {
	return int(firstOf(value, paths...).Int())
}

// enumOf normalizes enum values that arrive as "in-progress" or "active".
func enumOf(value gjson.Result, paths ...string) string {
	raw := strings.ToUpper(stringOf(value, paths...))
	return strings.ReplaceAll(raw, "-", "_")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// timeOf parses ISO dates and local date-times. Unparseable values such as
// "-" yield the zero time.
func timeOf(value gjson.Result, paths ...string) time.Time {
	raw := stringOf(value, paths...)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// listOf accepts either a bare array or an envelope holding the array under
// one of keys.
func listOf(value gjson.Result, keys ...string) []gjson.Result {
	if value.IsArray() {
		return value.Array()
	}
	for _, key := range append(keys, "data", "content", "items") {
		if nested := value.Get(key); nested.IsArray() {
			return nested.Array()
		}
	}
	return nil
}

// objectOf unwraps a single-object envelope.
func objectOf(value gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if nested := value.Get(key); nested.IsObject() {
			return nested
		}
	}
	return value
}
