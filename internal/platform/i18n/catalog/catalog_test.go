package catalog

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}
	if !bundle.HasLocale("pt-BR") {
		t.Fatal("expected pt-BR locale")
	}
	base := bundle.Keys(BaseLocale)
	if len(base) == 0 {
		t.Fatal("expected base messages")
	}
	portuguese := map[string]bool{}
	for _, key := range bundle.Keys("pt-BR") {
		portuguese[key] = true
	}
	for _, key := range base {
		if !portuguese[key] {
			t.Errorf("pt-BR is missing %q", key)
		}
	}
	if len(portuguese) != len(base) {
		t.Errorf("pt-BR has %d keys, en-US has %d", len(portuguese), len(base))
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	bundle, err := LoadFromFS(fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  \"core.hello\": \"Hello\"\n  \"core.quote\": \"Say \\\"hi\\\"\"\n")},
		"locales/pt-BR/core.yaml": {Data: []byte("locale: \"pt-BR\"\nnamespace: \"core\"\nmessages:\n  \"core.quote\": \"Diga \\\"oi\\\"\"\n")},
	})
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	if got, ok := bundle.Message("pt-BR", "core.hello"); !ok || got != "Hello" {
		t.Fatalf("Message(pt-BR, core.hello) = %q, %v", got, ok)
	}
	if got, _ := bundle.Message("pt-BR", "core.quote"); got != `Diga "oi"` {
		t.Fatalf("Message(pt-BR, core.quote) = %q", got)
	}
	if _, ok := bundle.Message("fr-FR", "core.missing"); ok {
		t.Fatal("expected missing key")
	}
}

func TestLoadFromFSRejectsBadCatalogs(t *testing.T) {
	t.Parallel()

	core := "locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  \"a.key\": \"a\"\n"
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "no files",
			files: fstest.MapFS{},
			want:  "no catalog files",
		},
		{
			name: "core key outside core",
			files: fstest.MapFS{
				"locales/en-US/web.yaml": {Data: []byte("locale: \"en-US\"\nnamespace: \"web\"\nmessages:\n  \"core.bad\": \"x\"\n")},
			},
			want: "core namespace",
		},
		{
			name: "duplicate key",
			files: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte(core)},
				"locales/en-US/web.yaml":  {Data: []byte("locale: \"en-US\"\nnamespace: \"web\"\nmessages:\n  \"a.key\": \"b\"\n")},
			},
			want: "duplicate key",
		},
		{
			name: "locale mismatch",
			files: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte(strings.Replace(core, "en-US", "pt-BR", 1))},
			},
			want: "must match directory",
		},
		{
			name: "missing base",
			files: fstest.MapFS{
				"locales/pt-BR/core.yaml": {Data: []byte(strings.Replace(core, "en-US", "pt-BR", 1))},
			},
			want: "base locale",
		},
		{
			name: "unquoted value",
			files: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte("locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  \"a.key\": bare\n")},
			},
			want: "value",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromFS(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("LoadFromFS() error = %v, want containing %q", err, tc.want)
			}
		})
	}
}
