package paypal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebio/profile-hub/internal/paypal"
)

func newProviderStub(t *testing.T, cancelStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/billing/subscriptions/I-SUB1/cancel", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.WriteHeader(cancelStatus)
	})
	return httptest.NewServer(mux)
}

func TestCancelSubscription(t *testing.T) {
	srv := newProviderStub(t, http.StatusNoContent)
	defer srv.Close()

	client := paypal.NewClient("client-id", "secret", srv.URL, 5*time.Second)
	err := client.CancelSubscription(context.Background(), "I-SUB1", "customer request")
	require.NoError(t, err)
}

func TestCancelSubscription_ProviderFailure(t *testing.T) {
	srv := newProviderStub(t, http.StatusUnprocessableEntity)
	defer srv.Close()

	client := paypal.NewClient("client-id", "secret", srv.URL, 5*time.Second)
	err := client.CancelSubscription(context.Background(), "I-SUB1", "customer request")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchAccessToken_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := paypal.NewClient("client-id", "secret", srv.URL, 5*time.Second)
	_, err := client.FetchAccessToken(context.Background())
	require.Error(t, err)
}
