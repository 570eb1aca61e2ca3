// Package models defines data structures for stockdeck
package models

import "time"

// User represents the authenticated user as reported by the auth provider.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
}

// Session is the provider-issued session. It is owned by the auth
// service; other components hold read-only copies.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"` // "bearer", or "recovery" for password-reset sessions
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Valid reports whether the session carries a usable, unexpired access token.
func (s *Session) Valid() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// IsRecovery reports whether the session originated from a password-reset flow.
func (s *Session) IsRecovery() bool {
	return s != nil && s.TokenType == "recovery"
}

// PasswordResetCallback is the result of inspecting a password-reset
// callback URL: whether the flow is a recovery, and the established session.
type PasswordResetCallback struct {
	IsPasswordReset bool
	Session         *Session
}
