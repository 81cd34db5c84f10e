package secret

import (
	"strings"
	"testing"
)

const testSecret = "correct horse battery staple"

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	sealer, err := NewAESGCMSealer(testSecret)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	sealed, err := sealer.Seal("sess-1", "eyJhbGciOi.token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if strings.Contains(sealed, "eyJhbGciOi") {
		t.Fatalf("sealed value leaks plaintext: %q", sealed)
	}
	opened, err := sealer.Open("sess-1", sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "eyJhbGciOi.token" {
		t.Fatalf("opened = %q, want %q", opened, "eyJhbGciOi.token")
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	t.Parallel()

	sealer, err := NewAESGCMSealer(testSecret)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	first, _ := sealer.Seal("sess-1", "token")
	second, _ := sealer.Seal("sess-1", "token")
	if first == second {
		t.Fatal("expected distinct ciphertexts for repeated seals")
	}
}

func TestOpenRejectsOtherSession(t *testing.T) {
	t.Parallel()

	sealer, err := NewAESGCMSealer(testSecret)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	sealed, err := sealer.Seal("sess-1", "token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := sealer.Open("sess-2", sealed); err == nil {
		t.Fatal("expected open under another session id to fail")
	}
}

func TestOpenRejectsOtherKey(t *testing.T) {
	t.Parallel()

	first, _ := NewAESGCMSealer(testSecret)
	second, _ := NewAESGCMSealer(testSecret + " v2")
	sealed, err := first.Seal("sess-1", "token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := second.Open("sess-1", sealed); err == nil {
		t.Fatal("expected open with a different key to fail")
	}
}

func TestOpenRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	sealer, _ := NewAESGCMSealer(testSecret)
	for _, sealed := range []string{"%%%", "", "AAAA"} {
		if _, err := sealer.Open("sess-1", sealed); err == nil {
			t.Fatalf("expected error for %q", sealed)
		}
	}
}

func TestNewAESGCMSealerRejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewAESGCMSealer("short"); err == nil {
		t.Fatal("expected short secret error")
	}
}

func TestNewRandomSealer(t *testing.T) {
	t.Parallel()

	sealer, err := NewRandomSealer()
	if err != nil {
		t.Fatalf("new random sealer: %v", err)
	}
	sealed, _ := sealer.Seal("s", "t")
	if got, err := sealer.Open("s", sealed); err != nil || got != "t" {
		t.Fatalf("open = %q, %v", got, err)
	}
}

func TestNilSealer(t *testing.T) {
	t.Parallel()

	var sealer *AESGCMSealer
	if _, err := sealer.Seal("s", "t"); err == nil {
		t.Fatal("expected nil sealer error")
	}
}
