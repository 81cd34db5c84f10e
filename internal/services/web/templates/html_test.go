package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestElementEscapesTextAndAttributes(t *testing.T) {
	t.Parallel()

	hostile := `"><script>alert('x')</script>&`
	c := el("a", attrs(at("href", hostile), at("title", hostile), flag("hidden", true), flag("disabled", false)),
		text(hostile),
		el("span", nil, text("<b>bold</b>")),
	)
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()

	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Fatalf("markup leaked unescaped: %s", got)
	}
	wantAttr := `href="&#34;&gt;&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;&amp;"`
	if !strings.Contains(got, wantAttr) {
		t.Fatalf("escaped href missing, got %s", got)
	}
	if !strings.Contains(got, `>&#34;&gt;&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;&amp;<span>`) {
		t.Fatalf("escaped text missing, got %s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Fatalf("nested text not escaped: %s", got)
	}
	if !strings.Contains(got, " hidden") || strings.Contains(got, "disabled") {
		t.Fatalf("boolean attributes = %s", got)
	}
	if !strings.HasPrefix(got, "<a ") || !strings.HasSuffix(got, "</a>") {
		t.Fatalf("element not closed: %s", got)
	}
}

func TestVoidElementHasNoClosingTag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := el("input", attrs(at("value", "<x>")), text("ignored")).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := buf.String(), `<input value="&lt;x&gt;">`; got != want {
		t.Fatalf("input = %q, want %q", got, want)
	}
}

func TestDoctypeIsFixed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := doctype.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := buf.String(); got != "<!doctype html>" {
		t.Fatalf("doctype = %q", got)
	}
}
