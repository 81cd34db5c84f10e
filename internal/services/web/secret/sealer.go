// Package secret seals backend bearer tokens before they reach session
// storage.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const keyInfo = "fleettrack web session token v1"

// Sealer seals and opens session tokens. The session id is bound as
// additional data, so a sealed token copied to another session id fails to
// open.
type Sealer interface {
	Seal(sessionID, token string) (string, error)
	Open(sessionID, sealed string) (string, error)
}

// AESGCMSealer seals tokens with AES-256-GCM under a key derived from a
// configured secret.
type AESGCMSealer struct {
	aead cipher.AEAD
}

// NewAESGCMSealer derives an AES-256 key from secret with HKDF-SHA256.
func NewAESGCMSealer(secret string) (*AESGCMSealer, error) {
	if len(strings.TrimSpace(secret)) < 16 {
		return nil, errors.New("session secret must be at least 16 characters")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &AESGCMSealer{aead: aead}, nil
}

// NewRandomSealer returns a sealer with a random key. Tokens it seals cannot
// be opened after a restart; it suits the in-memory session store.
func NewRandomSealer() (*AESGCMSealer, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("read random secret: %w", err)
	}
	return NewAESGCMSealer(base64.RawStdEncoding.EncodeToString(raw))
}

// Seal encrypts token and returns nonce||ciphertext in raw base64.
func (s *AESGCMSealer) Seal(sessionID, token string) (string, error) {
	if s == nil || s.aead == nil {
		return "", fmt.Errorf("sealer is not configured")
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	payload := s.aead.Seal(nonce, nonce, []byte(token), []byte(sessionID))
	return base64.RawStdEncoding.EncodeToString(payload), nil
}

// Open decrypts a token sealed for sessionID.
func (s *AESGCMSealer) Open(sessionID, sealed string) (string, error) {
	if s == nil || s.aead == nil {
		return "", fmt.Errorf("sealer is not configured")
	}
	payload, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed token: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", fmt.Errorf("sealed token is too short")
	}
	plaintext, err := s.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], []byte(sessionID))
	if err != nil {
		return "", fmt.Errorf("decrypt sealed token: %w", err)
	}
	return string(plaintext), nil
}
