// Package i18n resolves the request language and prints catalog messages for
// the console.
package i18n

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/fleettrack/internal/platform/i18n/catalog"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "fleettrack_lang"
)

var (
	supported = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher   = language.NewMatcher(supported)
)

// Localizer prints translated strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	// Registers the embedded catalog before the first printer is built.
	_ = catalog.Default()
	return message.NewPrinter(Match(tag))
}

// Match maps any tag onto the closest supported one.
func Match(tag language.Tag) language.Tag {
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supported[index], true
}

// ResolveTag picks the language from the lang query parameter, then the
// language cookie, then Accept-Language. The bool reports whether the query
// parameter chose it and so should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		_, index := language.MatchStrings(matcher, accept)
		return supported[index], false
	}
	return Default(), false
}

// SetLanguageCookie persists the selected language.
func SetLanguageCookie(w http.ResponseWriter, r *http.Request, tag language.Tag, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveLocalizer resolves the request language, persisting an explicit
// choice, and returns a printer with its tag string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) (*message.Printer, string) {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, r, tag, policy)
	}
	return Printer(tag), tag.String()
}

// T prints key through loc. A nil localizer formats the key itself.
func T(loc Localizer, key string, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if len(args) > 0 {
		return fmt.Sprintf(key, args...)
	}
	return key
}

// LanguageLabelKey returns the catalog key naming tag in the language menu.
func LanguageLabelKey(tag language.Tag) string {
	if Match(tag) == language.BrazilianPortuguese {
		return "core.lang.pt_br"
	}
	return "core.lang.en"
}
