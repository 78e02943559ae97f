package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, exchanges *int64, expiresIn int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		atomic.AddInt64(exchanges, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + time.Now().Format(time.RFC3339Nano),
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureFreshConcurrentConvergesOnOneExchange(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges, 3600)

	mgr := NewManager(srv.URL, "id", "secret", nil)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tok, err := mgr.EnsureFresh(t.Context())
			assert.NoError(t, err)
			assert.NotEmpty(t, tok)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))
}

func TestEnsureFreshReturnsCachedTokenBeforeExpiry(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges, 3600)
	mgr := NewManager(srv.URL, "id", "secret", nil)

	tok1, err := mgr.EnsureFresh(t.Context())
	require.NoError(t, err)
	tok2, err := mgr.EnsureFresh(t.Context())
	require.NoError(t, err)

	assert.Equal(t, tok1, tok2)
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))
}

func TestEnsureFreshRefreshesAtBoundary(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges, 3600)
	mgr := NewManager(srv.URL, "id", "secret", nil, WithRefreshBuffer(60*time.Second))

	_, err := mgr.EnsureFresh(t.Context())
	require.NoError(t, err)

	// Force the expiry to exactly the refresh boundary: now + buffer.
	mgr.mu.Lock()
	mgr.tokenExpiry = time.Now().Add(60 * time.Second)
	mgr.mu.Unlock()

	_, err = mgr.EnsureFresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&exchanges), "token exactly at expiry-buffer must trigger a refresh")
}

func TestEnsureFreshDoesNotRefreshJustInsideBoundary(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges, 3600)
	mgr := NewManager(srv.URL, "id", "secret", nil, WithRefreshBuffer(60*time.Second))

	_, err := mgr.EnsureFresh(t.Context())
	require.NoError(t, err)

	mgr.mu.Lock()
	mgr.tokenExpiry = time.Now().Add(61 * time.Second)
	mgr.mu.Unlock()

	_, err = mgr.EnsureFresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges), "token just outside the buffer must not trigger a refresh")
}

func TestForceRefreshConvergesAcrossConcurrentCallers(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges, 3600)
	mgr := NewManager(srv.URL, "id", "secret", nil)

	_, err := mgr.EnsureFresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := mgr.ForceRefresh(t.Context())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), atomic.LoadInt64(&exchanges), "ten concurrent forced refreshes after the cached token must converge on one exchange")
}

func TestEnsureFreshSurfacesAuthErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	mgr := NewManager(srv.URL, "bad", "creds", nil)
	_, err := mgr.EnsureFresh(t.Context())
	require.Error(t, err)
	var authErr *Error
	assert.ErrorAs(t, err, &authErr)
}

func TestSecondsToExpiryBeforeAnyToken(t *testing.T) {
	mgr := NewManager("https://example.test", "id", "secret", nil)
	_, ok := mgr.SecondsToExpiry()
	assert.False(t, ok)
}
