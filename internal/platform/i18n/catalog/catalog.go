// Package catalog loads the console's translated message files and registers
// them with golang.org/x/text/message.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale; every other locale falls back
// to it.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadAndRegister()

// Bundle holds every locale's messages.
type Bundle struct {
	locales map[string]map[string]string
}

type file struct {
	locale    string
	namespace string
	messages  map[string]string
}

// Default returns the process-wide embedded bundle. It is registered with
// x/text on package init.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalog files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		parsed, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, parsed); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, f file) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if f.locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, f.locale, dirLocale)
	}
	if f.namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, f.namespace, fileNamespace)
	}

	messages, ok := b.locales[f.locale]
	if !ok {
		messages = map[string]string{}
		b.locales[f.locale] = messages
	}
	for key, value := range f.messages {
		if strings.HasPrefix(key, "core.") && f.namespace != "core" {
			return fmt.Errorf("catalog %s: key %q belongs in the core namespace", p, key)
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, f.locale)
		}
		messages[key] = value
	}
	return nil
}

// Register installs every message with x/text/message under its locale and
// the locale's base language, so "pt" requests resolve "pt-BR" strings.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale] {
			for _, registerTag := range tags {
				if err := message.SetString(registerTag, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale has messages.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the sorted locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys returns the sorted message keys of locale.
func (b *Bundle) Keys(locale string) []string {
	if b == nil {
		return nil
	}
	messages := b.locales[strings.TrimSpace(locale)]
	out := make([]string, 0, len(messages))
	for key := range messages {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Message returns one message, falling back to the base locale.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if value, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

func mustLoadAndRegister() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}

// parse reads the restricted YAML subset the catalogs use: a quoted
// locale, a quoted namespace and a messages map of quoted keys to quoted
// values, one per line.
func parse(data []byte) (file, error) {
	out := file{messages: map[string]string{}}
	inMessages := false
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return file{}, fmt.Errorf("locale: %w", err)
			}
			out.locale = strings.TrimSpace(value)
		case strings.HasPrefix(line, "namespace:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return file{}, fmt.Errorf("namespace: %w", err)
			}
			out.namespace = strings.TrimSpace(value)
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return file{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseEntry(line)
			if err != nil {
				return file{}, fmt.Errorf("entry %q: %w", line, err)
			}
			out.messages[key] = value
		}
	}
	if out.locale == "" {
		return file{}, fmt.Errorf("missing locale")
	}
	if out.namespace == "" {
		return file{}, fmt.Errorf("missing namespace")
	}
	if len(out.messages) == 0 {
		return file{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func parseEntry(line string) (string, string, error) {
	end := closingQuote(line)
	if end < 0 {
		return "", "", fmt.Errorf("expected quoted key")
	}
	key, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return "", "", fmt.Errorf("key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("blank key")
	}
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest[1:]))
	if err != nil {
		return "", "", fmt.Errorf("value: %w", err)
	}
	return key, value, nil
}

// closingQuote returns the index of the quote ending the token that starts
// line, or -1.
func closingQuote(line string) int {
	if !strings.HasPrefix(line, `"`) {
		return -1
	}
	escaped := false
	for i := 1; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case line[i] == '\\':
			escaped = true
		case line[i] == '"':
			return i
		}
	}
	return -1
}
