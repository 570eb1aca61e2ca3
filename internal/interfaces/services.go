package interfaces

import (
	"context"

	"github.com/ksahdev/stockdeck/internal/models"
)

// AuthResult is the discriminated outcome of an auth operation: either
// data or a user-facing error message, never both.
type AuthResult[T any] struct {
	Data  T
	Error string // user-facing message; empty on success
}

// OK reports whether the operation succeeded.
func (r AuthResult[T]) OK() bool { return r.Error == "" }

// AuthService wraps the provider with error normalization and session
// ownership. Operations never return Go errors to callers; failures
// surface as user-facing messages inside the result.
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) AuthResult[*models.Session]
	LogIn(ctx context.Context, email, password string) AuthResult[*models.Session]
	LogInWithOAuth(provider string) AuthResult[string] // data is the authorize URL to open
	RequestPasswordReset(ctx context.Context, email string) AuthResult[struct{}]
	ConsumePasswordResetCallback(ctx context.Context, callbackURL string) models.PasswordResetCallback
	UpdatePassword(ctx context.Context, newPassword string) (*models.User, error)
	SignOut(ctx context.Context) AuthResult[struct{}]

	// CurrentSession returns the live session or nil. Never errors.
	CurrentSession() *models.Session
	// GetCurrentUser returns the session's user or nil. Never errors.
	GetCurrentUser() *models.User
	// OnAuthStateChange registers a callback invoked with the new
	// session (or nil) on every change, including external sign-out.
	// The returned func unsubscribes.
	OnAuthStateChange(fn func(*models.Session)) (unsubscribe func())
}

// TokenSource supplies the current access token to the backend client.
type TokenSource interface {
	// AccessToken returns the current bearer token, or "" when signed out.
	AccessToken() string
	// Invalidate drops the session after the backend rejected the token.
	Invalidate(ctx context.Context)
}

// Screen is the rendering surface the dashboard controller draws on.
// Rendering is full-fragment: each call replaces the named view.
type Screen interface {
	RenderView(view string, markdown string)
	RenderNotification(n models.Notification)
	// SignedOut tells the host the session ended; the dashboard loop
	// should return the user to the login flow.
	SignedOut(reason string)
}
