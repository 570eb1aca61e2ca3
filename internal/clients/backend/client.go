// Package backend provides the bearer-authenticated client for the
// stockdeck backend API. Every call requires a live session token;
// calls made offline, signed out, or after the token is rejected are
// swallowed rather than surfaced, so callers only see errors the user
// can act on.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ksahdev/stockdeck/internal/common"
	"github.com/ksahdev/stockdeck/internal/interfaces"
	"github.com/ksahdev/stockdeck/internal/models"
)

const (
	DefaultBaseURL    = "http://localhost:5001/api"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5 // requests per second
	DefaultMaxRetries = 3
	DefaultRetryBase  = 1 * time.Second
)

// Sentinel reasons for swallowed calls. They never escape the public
// methods; they exist so the transport layer can log why a call was
// dropped.
var (
	ErrOffline   = errors.New("client is offline")
	ErrNoSession = errors.New("no active session")

	errUnauthorized = errors.New("token rejected")
	errExhausted    = errors.New("retries exhausted")
)

// Client implements the BackendAPI interface.
type Client struct {
	baseURL    string
	tokens     interfaces.TokenSource
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	maxRetries int
	retryBase  time.Duration
	notify     func(message string)

	online atomic.Bool
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithRetries sets the retry budget and base backoff delay. The delay
// doubles after each failed attempt.
func WithRetries(maxRetries int, base time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBase = base
	}
}

// WithNotifier sets the callback invoked with a user-facing message
// when a call is dropped after exhausting its retries.
func WithNotifier(fn func(message string)) ClientOption {
	return func(c *Client) {
		c.notify = fn
	}
}

// NewClient creates a new backend client. The token source supplies
// the bearer token per request and is told to invalidate the session
// when the backend rejects it.
func NewClient(tokens interfaces.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		maxRetries: DefaultMaxRetries,
		retryBase:  DefaultRetryBase,
		logger:     common.NewSilentLogger(),
	}
	c.online.Store(true)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetOnline flips the connectivity flag. While offline every call is
// swallowed without touching the network.
func (c *Client) SetOnline(online bool) {
	c.online.Store(online)
}

// Online reports the current connectivity flag.
func (c *Client) Online() bool {
	return c.online.Load()
}

// APIError represents a backend API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// errorBody covers the backend's error envelopes: most routes return
// {"error": …}, a few return {"status": "error", "message": …}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text(fallback string) string {
	if b.Error != "" {
		return b.Error
	}
	if b.Message != "" {
		return b.Message
	}
	return fallback
}

// call performs one authenticated request with retries. Network and
// decode failures retry with the backoff delay doubling per attempt;
// HTTP-level failures do not retry.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, result interface{}) error {
	if !c.online.Load() {
		return ErrOffline
	}

	token := c.tokens.AccessToken()
	if token == "" {
		return ErrNoSession
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	// Attempt 0 is the initial request; up to maxRetries more follow
	// with doubling delays.
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBase << (attempt - 1)
			c.logger.Debug().Dur("delay", delay).Int("attempt", attempt).Str("endpoint", path).Msg("retrying backend request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		done, err := c.handleResponse(resp, path, result)
		if done {
			return err
		}
		lastErr = err
	}

	c.logger.Warn().Err(lastErr).Str("endpoint", path).Int("retries", c.maxRetries).Msg("backend request failed after retries")
	return errExhausted
}

// handleResponse consumes one HTTP response. done=false means the
// attempt should be retried.
func (c *Client) handleResponse(resp *http.Response, path string, result interface{}) (done bool, err error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return true, errUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return true, &APIError{
			StatusCode: resp.StatusCode,
			Message:    eb.text(strings.TrimSpace(string(raw))),
			Endpoint:   path,
		}
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return true, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

// do wraps call with the swallow policy: offline, signed-out, rejected
// token, and exhausted retries all resolve to ok=false with no error.
// A rejected token additionally invalidates the session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, result interface{}) (bool, error) {
	err := c.call(ctx, method, path, query, payload, result)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrOffline), errors.Is(err, ErrNoSession):
		c.logger.Debug().Err(err).Str("endpoint", path).Msg("backend call skipped")
		if errors.Is(err, ErrNoSession) {
			c.tokens.Invalidate(ctx)
		}
		return false, nil
	case errors.Is(err, errUnauthorized):
		c.logger.Info().Str("endpoint", path).Msg("backend rejected token, invalidating session")
		c.tokens.Invalidate(ctx)
		return false, nil
	case errors.Is(err, errExhausted):
		if c.notify != nil {
			c.notify("Unable to reach the server. Please try again.")
		}
		return false, nil
	default:
		return false, err
	}
}

// GetMarketTrends retrieves the top gainers and losers.
func (c *Client) GetMarketTrends(ctx context.Context) (*models.MarketTrends, error) {
	var trends models.MarketTrends
	ok, err := c.do(ctx, http.MethodGet, "/market-trends", nil, nil, &trends)
	if err != nil || !ok {
		return nil, err
	}
	return &trends, nil
}

// quoteEnvelope defers data decoding: the quote endpoint returns an
// array for multiple symbols and a bare object for a single one.
type quoteEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (e quoteEnvelope) quotes() ([]models.Quote, error) {
	raw := bytes.TrimSpace(e.Data)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var quotes []models.Quote
		if err := json.Unmarshal(raw, &quotes); err != nil {
			return nil, fmt.Errorf("failed to decode quote list: %w", err)
		}
		return quotes, nil
	}
	var quote models.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	return []models.Quote{quote}, nil
}

// GetPopularStocks retrieves quotes for the curated popular symbols.
func (c *Client) GetPopularStocks(ctx context.Context) ([]models.Quote, error) {
	var resp quoteEnvelope
	ok, err := c.do(ctx, http.MethodGet, "/popular-stocks", nil, nil, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.quotes()
}

// GetQuotes retrieves live quotes for the given symbols.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	query := url.Values{"symbols": {strings.Join(symbols, ",")}}
	var resp quoteEnvelope
	ok, err := c.do(ctx, http.MethodGet, "/quote", query, nil, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.quotes()
}

type newsResponse struct {
	Status  string            `json:"status"`
	Data    []models.NewsItem `json:"data"`
	HasMore bool              `json:"has_more"`
}

// GetBusinessNews retrieves one page of business news.
func (c *Client) GetBusinessNews(ctx context.Context, limit, offset int) ([]models.NewsItem, bool, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	var resp newsResponse
	ok, err := c.do(ctx, http.MethodGet, "/business-news", query, nil, &resp)
	if err != nil || !ok {
		return nil, false, err
	}
	if resp.Data == nil {
		// A page past the end is still a real answer. nil items are
		// reserved for swallowed calls so callers can tell them apart.
		resp.Data = []models.NewsItem{}
	}
	return resp.Data, resp.HasMore, nil
}

type searchResponse struct {
	Data struct {
		Stock []models.SearchResult `json:"stock"`
	} `json:"data"`
}

// Search looks up symbols matching the query string.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var resp searchResponse
	ok, err := c.do(ctx, http.MethodGet, "/search", url.Values{"query": {query}}, nil, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.Data.Stock, nil
}

// GetPortfolios retrieves the user's portfolios.
func (c *Client) GetPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	ok, err := c.do(ctx, http.MethodGet, "/portfolios", nil, nil, &portfolios)
	if err != nil || !ok {
		return nil, err
	}
	return portfolios, nil
}

// CreatePortfolio creates a portfolio and returns the stored record.
func (c *Client) CreatePortfolio(ctx context.Context, name, description string) (*models.Portfolio, error) {
	payload := map[string]string{"name": name, "description": description}
	var portfolio models.Portfolio
	ok, err := c.do(ctx, http.MethodPost, "/portfolios", nil, payload, &portfolio)
	if err != nil || !ok {
		return nil, err
	}
	return &portfolio, nil
}

// DeletePortfolio deletes a portfolio. The bool reports whether the
// delete actually happened.
func (c *Client) DeletePortfolio(ctx context.Context, id string) (bool, error) {
	ok, err := c.do(ctx, http.MethodDelete, "/portfolios/"+url.PathEscape(id), nil, nil, nil)
	return ok, err
}

// GetHoldings retrieves the holdings of a portfolio.
func (c *Client) GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	var holdings []models.Holding
	ok, err := c.do(ctx, http.MethodGet, "/holdings/"+url.PathEscape(portfolioID), nil, nil, &holdings)
	if err != nil || !ok {
		return nil, err
	}
	return holdings, nil
}

// CreateHolding adds a holding to a portfolio.
func (c *Client) CreateHolding(ctx context.Context, portfolioID, symbol string, quantity, purchasePrice float64) (*models.Holding, error) {
	payload := map[string]interface{}{
		"symbol":         symbol,
		"quantity":       quantity,
		"purchase_price": purchasePrice,
	}
	var holding models.Holding
	ok, err := c.do(ctx, http.MethodPost, "/holdings/"+url.PathEscape(portfolioID), nil, payload, &holding)
	if err != nil || !ok {
		return nil, err
	}
	return &holding, nil
}

// DeleteHolding removes a holding.
func (c *Client) DeleteHolding(ctx context.Context, id string) (bool, error) {
	ok, err := c.do(ctx, http.MethodDelete, "/holdings/"+url.PathEscape(id), nil, nil, nil)
	return ok, err
}

// Ensure Client implements BackendAPI
var _ interfaces.BackendAPI = (*Client)(nil)
