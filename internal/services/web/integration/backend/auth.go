package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

// Login exchanges credentials for a token. Blank credentials are rejected
// without a network call.
func (c *Client) Login(ctx context.Context, username string, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, apperrors.EK(apperrors.KindInvalidInput, "web.login.error_required", "username and password are required")
	}
	resp, err := c.sendJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		// A 401 here means wrong credentials, not an expired session.
		if apperrors.IsAuthFailure(err) {
			return LoginResult{}, apperrors.Backend(http.StatusUnauthorized, messageOrDefault(err, "Invalid username or password"))
		}
		return LoginResult{}, err
	}

	body := resp.body
	token := stringOf(body, "token", "accessToken", "jwt")
	if token == "" {
		return LoginResult{}, apperrors.Backend(resp.status, messageOf(body, "Login failed"))
	}
	result := LoginResult{
		Token:            token,
		UserID:           stringOf(body, "userId", "id", "user.id"),
		Username:         stringOf(body, "username", "user.username"),
		Name:             stringOf(body, "name", "user.name"),
		Role:             stringOf(body, "role", "user.role"),
		AntiForgeryToken: strings.TrimSpace(resp.header.Get(antiForgeryHeader)),
	}
	if result.Username == "" {
		result.Username = username
	}
	return result, nil
}

// Verify asks the backend whether token is still valid. A rejected token
// surfaces as an apperrors auth failure.
func (c *Client) Verify(ctx context.Context, token string) (VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return VerifyResult{}, apperrors.E(apperrors.KindUnauthorized, "missing token")
	}
	resp, err := c.get(withToken(ctx, token), "/auth/verify", nil)
	if err != nil {
		return VerifyResult{}, err
	}
	result := VerifyResult{
		Valid:    true,
		Username: stringOf(resp.body, "username"),
		Role:     stringOf(resp.body, "role"),
	}
	if valid := resp.body.Get("valid"); valid.Exists() && !valid.Bool() {
		return VerifyResult{}, apperrors.E(apperrors.KindUnauthorized, "token rejected")
	}
	return result, nil
}

func messageOrDefault(err error, fallback string) string {
	var appErr apperrors.Error
	if errors.As(err, &appErr) && strings.TrimSpace(appErr.Message) != "" &&
		appErr.Message != http.StatusText(http.StatusUnauthorized) &&
		appErr.Message != http.StatusText(http.StatusForbidden) {
		return appErr.Message
	}
	return fallback
}
