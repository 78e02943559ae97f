package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/ratelimit"
	"github.com/arubanetworks/central-mcp-gateway/internal/retry"
)

// newVendorServer wires an OAuth2 token endpoint and a single protected
// endpoint whose handler is supplied by the test.
func newVendorServer(t *testing.T, tokenValue string, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": tokenValue,
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/platform/devices", handler)
	return httptest.NewServer(mux)
}

func newOrchestrator(t *testing.T, baseURL string) *Orchestrator {
	t.Helper()
	tokens := auth.NewManager(baseURL, "client-id", "client-secret", zap.NewNop())
	limiter := ratelimit.New(100, time.Second)
	circuit := breaker.New(breaker.WithThreshold(3), breaker.WithOpenTimeout(50*time.Millisecond))
	retrier := retry.New(retry.WithMaxAttempts(3), retry.WithBaseWait(time.Millisecond), retry.WithMaxWait(5*time.Millisecond))
	return New(baseURL, tokens, limiter, circuit, retrier)
}

func TestCallSucceedsOnFirstAttempt(t *testing.T) {
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": []string{"ap-1"}})
	})
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	result, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, result, "devices")
}

func TestCallForcesRefreshExactlyOnceOn401(t *testing.T) {
	var tokenGeneration int64
	var exchanges int64

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		gen := atomic.AddInt64(&tokenGeneration, 1)
		atomic.AddInt64(&exchanges, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", gen),
			"expires_in":   3600,
		})
	})
	var calls int64
	mux.HandleFunc("/platform/devices", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": []string{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	result, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(2), atomic.LoadInt64(&exchanges), "one initial exchange plus exactly one forced refresh")
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCallSurfacesAuthErrorWhenSecond401Persists(t *testing.T) {
	srv := newVendorServer(t, "tok-stale", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	_, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.Error(t, err)
	var authErr *auth.Error
	require.ErrorAs(t, err, &authErr)
}

func TestCallRetriesRetryableServerErrorThenSucceeds(t *testing.T) {
	var calls int64
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": []string{}})
	})
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	_, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestCallDoesNotRetryClientError(t *testing.T) {
	var calls int64
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	_, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.Error(t, err)
	var clientErr *UpstreamClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCallTripsBreakerAfterRepeatedServerErrors(t *testing.T) {
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	tokens := auth.NewManager(srv.URL, "client-id", "client-secret", zap.NewNop())
	limiter := ratelimit.New(100, time.Second)
	circuit := breaker.New(breaker.WithThreshold(1), breaker.WithOpenTimeout(time.Hour))
	retrier := retry.New(retry.WithMaxAttempts(1))
	o := New(srv.URL, tokens, limiter, circuit, retrier)

	_, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.Error(t, err)

	_, err = o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.ErrorIs(t, err, breaker.ErrOpen)
}

func TestCallAppliesRateLimitBeforeDispatch(t *testing.T) {
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	defer srv.Close()

	tokens := auth.NewManager(srv.URL, "client-id", "client-secret", zap.NewNop())
	limiter := ratelimit.New(1, time.Hour)
	circuit := breaker.New()
	retrier := retry.New()
	o := New(srv.URL, tokens, limiter, circuit, retrier)

	_, err := o.Call(context.Background(), http.MethodGet, "/platform/devices", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = o.Call(ctx, http.MethodGet, "/platform/devices", nil, nil)
	require.Error(t, err)
}

func TestCallEncodesQueryParamsAndBody(t *testing.T) {
	srv := newVendorServer(t, "tok-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "site-1", r.URL.Query().Get("site"))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	defer srv.Close()

	o := newOrchestrator(t, srv.URL)
	result, err := o.Call(context.Background(), http.MethodPost, "/platform/devices", map[string]any{"site": "site-1", "omit": nil}, map[string]any{"name": "ap-1"})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
}
