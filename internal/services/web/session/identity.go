package session

import (
	"strings"
	"time"
)

// Role is the coarse authorization tier of a session.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDriver Role = "DRIVER"
)

// ParseRole normalizes a backend role value. Spring-style "ROLE_" prefixes
// are stripped and any role other than ADMIN is treated as DRIVER.
func ParseRole(raw string) Role {
	value := strings.ToUpper(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, "ROLE_")
	if value == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleDriver
}

// Identity is who a session belongs to.
type Identity struct {
	UserID      string
	Username    string
	DisplayName string
	Role        Role
}

// Name returns the display name, falling back to the username.
func (i Identity) Name() string {
	if name := strings.TrimSpace(i.DisplayName); name != "" {
		return name
	}
	return i.Username
}

// Session is a snapshot of one authenticated console session.
type Session struct {
	ID string
	Identity
	Token            string
	AntiForgeryToken string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	// VerifiedAt is zero until the backend has confirmed the token.
	VerifiedAt time.Time
	Generation uint64
}

// Verified reports whether the backend confirmed the token at or after since.
func (s Session) Verified(since time.Time) bool {
	return !s.VerifiedAt.IsZero() && !s.VerifiedAt.Before(since)
}
