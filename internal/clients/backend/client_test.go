package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokens is a TokenSource with a fixed token and an invalidation counter.
type stubTokens struct {
	token       string
	invalidated atomic.Int32
}

func (s *stubTokens) AccessToken() string           { return s.token }
func (s *stubTokens) Invalidate(ctx context.Context) { s.invalidated.Add(1) }

func newTestClient(t *testing.T, handler http.Handler, tokens *stubTokens, opts ...ClientOption) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []ClientOption{
		WithBaseURL(server.URL),
		WithRetries(3, time.Millisecond),
		WithRateLimit(1000),
	}
	return NewClient(tokens, append(base, opts...)...), server
}

func TestRequestCarriesAuthHeaders(t *testing.T) {
	tokens := &stubTokens{token: "token-123"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"gainers":[],"losers":[]}`))
	}), tokens)

	trends, err := client.GetMarketTrends(context.Background())
	require.NoError(t, err)
	require.NotNil(t, trends)
}

func TestGetQuotes_ArrayAndObjectEnvelopes(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbols") == "RELIANCE" {
			w.Write([]byte(`{"data":{"symbol":"RELIANCE","price":2900.5}}`))
			return
		}
		w.Write([]byte(`{"data":[{"symbol":"TCS","price":4100},{"symbol":"INFY","price":1500}]}`))
	}), tokens)

	single, err := client.GetQuotes(context.Background(), []string{"RELIANCE"})
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, 2900.5, single[0].Price)

	multi, err := client.GetQuotes(context.Background(), []string{"TCS", "INFY"})
	require.NoError(t, err)
	require.Len(t, multi, 2)
	assert.Equal(t, "INFY", multi[1].Symbol)
}

func TestGetQuotes_NoSymbolsSkipsRequest(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), tokens)

	quotes, err := client.GetQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, quotes)
	assert.Zero(t, hits.Load())
}

func TestSearchEnvelope(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "reli", r.URL.Query().Get("query"))
		w.Write([]byte(`{"data":{"stock":[{"symbol":"RELIANCE","name":"Reliance Industries"}]}}`))
	}), tokens)

	results, err := client.Search(context.Background(), "reli")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "RELIANCE", results[0].Symbol)
}

func TestGetBusinessNewsEnvelope(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"status":"OK","data":[{"article_title":"Markets rally","article_url":"https://example.com/a"}],"has_more":true}`))
	}), tokens)

	items, hasMore, err := client.GetBusinessNews(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Markets rally", items[0].Title)
	assert.True(t, hasMore)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	tokens := &stubTokens{token: "stale"}
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}), tokens)

	portfolios, err := client.GetPortfolios(context.Background())
	require.NoError(t, err)
	assert.Nil(t, portfolios)
	assert.Equal(t, int32(1), tokens.invalidated.Load(), "401 must invalidate the session")
	assert.Equal(t, int32(1), hits.Load(), "401 must not retry")
}

func TestNoTokenSwallowsAndSignsOut(t *testing.T) {
	tokens := &stubTokens{token: ""}
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), tokens)

	portfolios, err := client.GetPortfolios(context.Background())
	require.NoError(t, err)
	assert.Nil(t, portfolios)
	assert.Zero(t, hits.Load(), "no request without a token")
	assert.Equal(t, int32(1), tokens.invalidated.Load())
}

func TestOfflineSwallowsWithoutRequest(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), tokens)

	client.SetOnline(false)
	items, hasMore, err := client.GetBusinessNews(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.False(t, hasMore)
	assert.Zero(t, hits.Load())
	assert.Zero(t, tokens.invalidated.Load())

	client.SetOnline(true)
	assert.True(t, client.Online())
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Portfolio not found or access denied"}`))
	}), tokens)

	deleted, err := client.DeletePortfolio(context.Background(), "p-1")
	assert.False(t, deleted)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Portfolio not found or access denied", apiErr.Message)
	assert.Equal(t, "/portfolios/p-1", apiErr.Endpoint)
}

func TestAPIErrorFallsBackToMessageField(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Failed to fetch news"}`))
	}), tokens)

	_, _, err := client.GetBusinessNews(context.Background(), 10, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to fetch news", apiErr.Message)
}

func TestNewsNullDataIsEmptyPage(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","data":null,"has_more":false}`))
	}), tokens)

	items, hasMore, err := client.GetBusinessNews(context.Background(), 10, 30)
	require.NoError(t, err)
	require.NotNil(t, items, "a served empty page is distinct from a swallowed call")
	assert.Empty(t, items)
	assert.False(t, hasMore)
}

func TestDecodeFailureRetriesThenSwallows(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	var hits atomic.Int32
	var notified atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<html>gateway error</html>`))
	}), tokens, WithNotifier(func(string) { notified.Add(1) }))

	portfolios, err := client.GetPortfolios(context.Background())
	require.NoError(t, err, "exhausted retries are swallowed")
	assert.Nil(t, portfolios)
	assert.Equal(t, int32(4), hits.Load(), "initial attempt plus three retries before giving up")
	assert.Equal(t, int32(1), notified.Load())
}

func TestCreateHoldingPayload(t *testing.T) {
	tokens := &stubTokens{token: "t"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/holdings/p-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"h-9","symbol":"TCS","quantity":5,"purchase_price":4000}`))
	}), tokens)

	holding, err := client.CreateHolding(context.Background(), "p-1", "TCS", 5, 4000)
	require.NoError(t, err)
	require.NotNil(t, holding)
	assert.Equal(t, "h-9", holding.ID)
	assert.Equal(t, 4000.0, holding.PurchasePrice)
}
