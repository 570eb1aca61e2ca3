// Package gotrue provides a client for a GoTrue-style hosted auth API
// (sign-up, password and OAuth sign-in, recovery, session refresh).
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ksahdev/stockdeck/internal/common"
	"github.com/ksahdev/stockdeck/internal/interfaces"
	"github.com/ksahdev/stockdeck/internal/models"
)

const DefaultTimeout = 15 * time.Second

// Client implements the AuthProvider interface over the provider's REST API.
type Client struct {
	baseURL string
	anonKey string
	client  *resty.Client
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.SetTimeout(timeout)
	}
}

// NewClient creates a new auth provider client
func NewClient(baseURL, anonKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		logger:  common.NewSilentLogger(),
	}

	c.client = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ProviderError carries the provider's own error text so callers can
// classify it. Error() returns the raw provider message.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// errorBody covers the error envelope shapes the provider emits.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func providerError(resp *resty.Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	msg := body.text()
	if msg == "" {
		msg = resp.Status()
	}
	return &ProviderError{StatusCode: resp.StatusCode(), Message: msg}
}

// sessionResponse is the token-grant response envelope.
type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         userPayload `json:"user"`
}

type userPayload struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		FullName  string `json:"full_name"`
	} `json:"user_metadata"`
}

func (p userPayload) toUser() models.User {
	return models.User{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.UserMetadata.FirstName,
		LastName:  p.UserMetadata.LastName,
		FullName:  p.UserMetadata.FullName,
	}
}

func (r sessionResponse) toSession() *models.Session {
	s := &models.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		User:         r.User.toUser(),
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}

// SignUp registers a new email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*models.Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	var out sessionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/signup")
	if err != nil {
		c.logger.Error().Err(err).Msg("auth provider signup request failed")
		return nil, fmt.Errorf("signup: %w", err)
	}
	if resp.IsError() {
		return nil, providerError(resp)
	}

	// Without email auto-confirm the provider returns a bare user and
	// no tokens; the caller still gets the registered identity.
	if out.AccessToken == "" {
		var user userPayload
		if err := json.Unmarshal(resp.Body(), &user); err == nil && user.ID != "" {
			return &models.Session{User: user.toUser()}, nil
		}
	}
	return out.toSession(), nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var out sessionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/token")
	if err != nil {
		c.logger.Error().Err(err).Msg("auth provider password grant failed")
		return nil, fmt.Errorf("password sign-in: %w", err)
	}
	if resp.IsError() {
		return nil, providerError(resp)
	}
	return out.toSession(), nil
}

// AuthorizeURL builds the browser URL that starts an OAuth flow.
func (c *Client) AuthorizeURL(provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("oauth provider is required")
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}

// ResetPasswordForEmail asks the provider to send a recovery email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	payload := map[string]string{"email": email}
	if redirectTo != "" {
		payload["redirect_to"] = redirectTo
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/recover")
	if err != nil {
		return fmt.Errorf("password recovery: %w", err)
	}
	if resp.IsError() {
		return providerError(resp)
	}
	return nil
}

// SetSession establishes a session from a token pair by exchanging the
// refresh token, then stamping the access token in.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	var out sessionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&out).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("set session: %w", err)
	}
	if resp.IsError() {
		return nil, providerError(resp)
	}
	s := out.toSession()
	if s.AccessToken == "" {
		s.AccessToken = accessToken
	}
	return s, nil
}

// UpdateUser changes the password of the session's user.
func (c *Client) UpdateUser(ctx context.Context, accessToken, newPassword string) (*models.User, error) {
	var out userPayload
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]string{"password": newPassword}).
		SetResult(&out).
		Put("/user")
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if resp.IsError() {
		return nil, providerError(resp)
	}
	user := out.toUser()
	return &user, nil
}

// SignOut revokes the session's tokens.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.IsError() {
		return providerError(resp)
	}
	return nil
}

// Ensure Client implements AuthProvider
var _ interfaces.AuthProvider = (*Client)(nil)
