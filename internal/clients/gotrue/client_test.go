package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "dev@example.test", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-123",
			"refresh_token": "rt-456",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user": map[string]any{
				"id":    "u-1",
				"email": "dev@example.test",
				"user_metadata": map[string]any{
					"full_name": "Dev User",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	session, err := c.SignInWithPassword(context.Background(), "dev@example.test", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "at-123", session.AccessToken)
	assert.Equal(t, "rt-456", session.RefreshToken)
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, "u-1", session.User.ID)
	assert.Equal(t, "Dev User", session.User.FullName)
	assert.True(t, session.ExpiresAt.After(time.Now()))
	assert.True(t, session.Valid())
}

func TestClient_ProviderErrorCarriesMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error_description", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"msg", `{"code":422,"msg":"Password should be at least 6 characters"}`, "Password should be at least 6 characters"},
		{"bare message", `{"message":"User already registered"}`, "User already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "anon-key")
			_, err := c.SignInWithPassword(context.Background(), "a@b.test", "pw")
			require.Error(t, err)

			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
			assert.Equal(t, tt.want, perr.Message)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestClient_SignUpWithoutAutoConfirm(t *testing.T) {
	// Provider returns a bare user (no tokens) when email confirmation
	// is pending; callers still get the registered identity.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signup", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "u-9",
			"email": "new@example.test",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	session, err := c.SignUp(context.Background(), "new@example.test", "secret123", map[string]string{
		"first_name": "New",
		"last_name":  "User",
		"full_name":  "New User",
	})
	require.NoError(t, err)
	assert.Empty(t, session.AccessToken)
	assert.Equal(t, "u-9", session.User.ID)
	assert.False(t, session.Valid())
}

func TestClient_AuthorizeURL(t *testing.T) {
	c := NewClient("https://proj.supabase.test/auth/v1", "anon-key")

	u, err := c.AuthorizeURL("google", "stockdeck://auth/callback")
	require.NoError(t, err)
	assert.Contains(t, u, "https://proj.supabase.test/auth/v1/authorize?")
	assert.Contains(t, u, "provider=google")
	assert.Contains(t, u, "redirect_to=stockdeck%3A%2F%2Fauth%2Fcallback")

	_, err = c.AuthorizeURL("", "")
	assert.Error(t, err)
}

func TestClient_SetSessionExchangesRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		require.Equal(t, "rt-recovery", body["refresh_token"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-new",
			"refresh_token": "rt-new",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]any{"id": "u-1", "email": "dev@example.test"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	session, err := c.SetSession(context.Background(), "at-recovery", "rt-recovery")
	require.NoError(t, err)
	assert.Equal(t, "at-new", session.AccessToken)
}

func TestClient_UpdateUserSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "dev@example.test"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	user, err := c.UpdateUser(context.Background(), "at-123", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}
