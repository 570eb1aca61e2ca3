// Package interfaces defines service contracts for stockdeck
package interfaces

import (
	"context"

	"github.com/ksahdev/stockdeck/internal/models"
)

// AuthProvider is the raw auth-provider capability set (GoTrue-style
// REST API). It returns provider-level errors untranslated; the auth
// service maps them to user-facing messages.
type AuthProvider interface {
	// SignUp registers a new email/password account with profile metadata.
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*models.Session, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	// AuthorizeURL builds the browser URL that starts an OAuth flow
	// with the given provider and post-auth redirect target.
	AuthorizeURL(provider, redirectTo string) (string, error)

	// ResetPasswordForEmail asks the provider to send a recovery email.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// SetSession establishes a session from recovery/refresh tokens.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)

	// UpdateUser changes the password of the session's user.
	UpdateUser(ctx context.Context, accessToken, newPassword string) (*models.User, error)

	// SignOut revokes the session's tokens.
	SignOut(ctx context.Context, accessToken string) error
}

// BackendAPI is the bearer-authenticated backend surface consumed by
// the dashboard controller. Implementations return nil data with nil
// error when the call was swallowed (offline, signed out, retries
// exhausted) — the controller treats that as "nothing happened".
type BackendAPI interface {
	GetMarketTrends(ctx context.Context) (*models.MarketTrends, error)
	GetPopularStocks(ctx context.Context) ([]models.Quote, error)
	GetBusinessNews(ctx context.Context, limit, offset int) ([]models.NewsItem, bool, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)

	GetPortfolios(ctx context.Context) ([]models.Portfolio, error)
	CreatePortfolio(ctx context.Context, name, description string) (*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) (bool, error)

	GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	CreateHolding(ctx context.Context, portfolioID, symbol string, quantity, purchasePrice float64) (*models.Holding, error)
	DeleteHolding(ctx context.Context, id string) (bool, error)
}
