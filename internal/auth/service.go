// Package auth wraps the auth provider with error normalization and
// session ownership. Every operation returns a discriminated result:
// data on success, a user-facing message on failure. Provider and
// network faults never escape to callers.
package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ksahdev/stockdeck/internal/common"
	"github.com/ksahdev/stockdeck/internal/interfaces"
	"github.com/ksahdev/stockdeck/internal/models"
)

// Service owns the current session and is the only component that
// writes it. Other components read through CurrentSession.
type Service struct {
	provider interfaces.AuthProvider
	cfg      common.AuthConfig
	logger   *common.Logger

	mu          sync.RWMutex
	session     *models.Session
	subscribers map[int]func(*models.Session)
	nextSubID   int
}

// NewService creates the auth service around a provider client.
func NewService(provider interfaces.AuthProvider, cfg common.AuthConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		provider:    provider,
		cfg:         cfg,
		logger:      logger,
		subscribers: make(map[int]func(*models.Session)),
	}
}

// setSession stores the session and notifies subscribers. Passing nil
// signals sign-out.
func (s *Service) setSession(session *models.Session) {
	s.mu.Lock()
	s.session = session
	subs := make([]func(*models.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}

// fillFromToken completes missing expiry/identity fields from the
// access token's claims. The token is provider-signed; the client has
// no verification key, so claims are read unverified for display and
// expiry bookkeeping only.
func fillFromToken(session *models.Session) {
	if session == nil || session.AccessToken == "" {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, claims); err != nil {
		return
	}
	if session.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			session.ExpiresAt = exp.Time
		}
	}
	if session.User.ID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			session.User.ID = sub
		}
	}
	if session.User.Email == "" {
		if email, ok := claims["email"].(string); ok {
			session.User.Email = email
		}
	}
}

// SignUp trims inputs, composes a display name, and registers the account.
func (s *Service) SignUp(ctx context.Context, email, password, firstName, lastName string) interfaces.AuthResult[*models.Session] {
	email = strings.TrimSpace(email)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	fullName := strings.TrimSpace(firstName + " " + lastName)

	session, err := s.provider.SignUp(ctx, email, password, map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"full_name":  fullName,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("sign-up failed")
		return interfaces.AuthResult[*models.Session]{Error: FormatAuthError(err)}
	}

	fillFromToken(session)
	if session.Valid() {
		s.setSession(session)
	}
	return interfaces.AuthResult[*models.Session]{Data: session}
}

// LogIn exchanges credentials for a session.
func (s *Service) LogIn(ctx context.Context, email, password string) interfaces.AuthResult[*models.Session] {
	session, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login failed")
		return interfaces.AuthResult[*models.Session]{Error: FormatAuthError(err)}
	}

	fillFromToken(session)
	s.setSession(session)
	return interfaces.AuthResult[*models.Session]{Data: session}
}

// LogInWithOAuth starts an OAuth flow; the result data is the authorize
// URL the user must open. Only initiation failures are meaningful.
func (s *Service) LogInWithOAuth(provider string) interfaces.AuthResult[string] {
	u, err := s.provider.AuthorizeURL(provider, s.cfg.OAuthRedirectURL)
	if err != nil {
		return interfaces.AuthResult[string]{Error: FormatAuthError(err)}
	}
	return interfaces.AuthResult[string]{Data: u}
}

// RequestPasswordReset always reports success, whether or not the
// email exists or the provider call failed, so callers cannot probe
// which addresses have accounts. Failures are only logged.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) interfaces.AuthResult[struct{}] {
	if err := s.provider.ResetPasswordForEmail(ctx, strings.TrimSpace(email), s.cfg.ResetRedirectURL); err != nil {
		s.logger.Warn().Err(err).Msg("password reset request failed")
	}
	return interfaces.AuthResult[struct{}]{}
}

// ConsumePasswordResetCallback inspects a recovery callback URL. When
// the fragment carries recovery tokens a session is established from
// them; otherwise any existing session is classified by its token type.
// Never errors: every failure resolves to a non-recovery result.
func (s *Service) ConsumePasswordResetCallback(ctx context.Context, callbackURL string) models.PasswordResetCallback {
	access, refresh, kind := parseFragmentTokens(callbackURL)

	if access != "" && refresh != "" && kind == "recovery" {
		session, err := s.provider.SetSession(ctx, access, refresh)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to establish recovery session")
			return models.PasswordResetCallback{}
		}
		session.TokenType = "recovery"
		fillFromToken(session)
		s.setSession(session)
		return models.PasswordResetCallback{IsPasswordReset: true, Session: session}
	}

	session := s.CurrentSession()
	if session.IsRecovery() && session.User.ID != "" {
		return models.PasswordResetCallback{IsPasswordReset: true, Session: session}
	}
	return models.PasswordResetCallback{Session: nil}
}

// parseFragmentTokens extracts recovery tokens from a callback URL's
// fragment (the provider appends them after '#').
func parseFragmentTokens(callbackURL string) (access, refresh, kind string) {
	u, err := url.Parse(strings.TrimSpace(callbackURL))
	if err != nil || u.Fragment == "" {
		return "", "", ""
	}
	vals, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return "", "", ""
	}
	return vals.Get("access_token"), vals.Get("refresh_token"), vals.Get("type")
}

// UpdatePassword changes the password of the current session's user.
// Unlike the other operations it surfaces the provider's own message,
// which the update-password flow shows verbatim.
func (s *Service) UpdatePassword(ctx context.Context, newPassword string) (*models.User, error) {
	session := s.CurrentSession()
	if !session.Valid() {
		return nil, ErrNoSession
	}
	user, err := s.provider.UpdateUser(ctx, session.AccessToken, newPassword)
	if err != nil {
		s.logger.Warn().Err(err).Msg("password update failed")
		return nil, err
	}
	return user, nil
}

// SignOut revokes the session and notifies subscribers. The local
// session is dropped even when the provider call fails.
func (s *Service) SignOut(ctx context.Context) interfaces.AuthResult[struct{}] {
	session := s.CurrentSession()
	if session != nil && session.AccessToken != "" {
		if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
			s.logger.Warn().Err(err).Msg("provider sign-out failed")
		}
	}
	s.setSession(nil)
	return interfaces.AuthResult[struct{}]{}
}

// CurrentSession returns the live session or nil. Never errors.
func (s *Service) CurrentSession() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// GetCurrentUser returns the session's user or nil. Never errors.
func (s *Service) GetCurrentUser() *models.User {
	session := s.CurrentSession()
	if session == nil || session.User.ID == "" {
		return nil
	}
	user := session.User
	return &user
}

// AccessToken implements interfaces.TokenSource.
func (s *Service) AccessToken() string {
	session := s.CurrentSession()
	if !session.Valid() {
		return ""
	}
	return session.AccessToken
}

// Invalidate implements interfaces.TokenSource: the backend rejected
// the token, so the session is force-expired via sign-out.
func (s *Service) Invalidate(ctx context.Context) {
	s.SignOut(ctx)
}

// OnAuthStateChange registers a callback invoked on every session
// change, including sign-outs. The returned func unsubscribes.
func (s *Service) OnAuthStateChange(fn func(*models.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// RestoreSession installs a previously persisted session, trimming it
// back to nil if it no longer passes validity checks.
func (s *Service) RestoreSession(session *models.Session) {
	if session == nil {
		return
	}
	fillFromToken(session)
	if !session.Valid() && !session.IsRecovery() {
		return
	}
	s.setSession(session)
}

// ErrNoSession is returned by UpdatePassword when called signed out.
var ErrNoSession = noSessionError{}

type noSessionError struct{}

func (noSessionError) Error() string { return "no active session" }

// ExpiresIn is a convenience for hosts displaying session lifetime.
func ExpiresIn(session *models.Session) time.Duration {
	if session == nil || session.ExpiresAt.IsZero() {
		return 0
	}
	return time.Until(session.ExpiresAt)
}

// Ensure Service implements the contracts
var (
	_ interfaces.AuthService = (*Service)(nil)
	_ interfaces.TokenSource = (*Service)(nil)
)
