// Package auth implements the OAuth2 client-credentials token manager:
// proactive, concurrency-safe refresh guarded by
// comparing the token value observed before locking against the value found
// after locking, rather than a boolean "refresh in progress" flag.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
)

// DefaultRefreshBuffer is how far before expiry ensure_fresh proactively
// refreshes the token.
const DefaultRefreshBuffer = 60 * time.Second

// Manager acquires and proactively refreshes OAuth2 client-credentials
// tokens. All exported methods are safe for concurrent use.
type Manager struct {
	oauthConfig     *clientcredentials.Config
	refreshBuffer   time.Duration
	httpClient      *http.Client
	logger          *zap.Logger
	metrics         *observability.Metrics
	secretRegistrar SecretRegistrar

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	// published mirrors accessToken so snapshot can read it without
	// waiting on mu while a refresh holds the lock.
	published atomic.Value
}

// SecretRegistrar receives live secret values for exact-match log redaction.
type SecretRegistrar interface {
	RegisterResolvedSecret(value string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithRefreshBuffer overrides DefaultRefreshBuffer.
func WithRefreshBuffer(d time.Duration) Option {
	return func(m *Manager) { m.refreshBuffer = d }
}

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithMetrics attaches the collector token refreshes are recorded through.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithSecretRegistrar registers every newly minted access token for
// exact-match log redaction as soon as it is acquired.
func WithSecretRegistrar(r SecretRegistrar) Option {
	return func(m *Manager) { m.secretRegistrar = r }
}

// NewManager creates a token Manager for the given vendor base URL and
// client-credentials pair.
func NewManager(baseURL, clientID, clientSecret string, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		oauthConfig: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     strings.TrimRight(baseURL, "/") + "/oauth2/token",
		},
		refreshBuffer: DefaultRefreshBuffer,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger.Named("token-manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// snapshot returns the most recently stored access token without taking mu,
// so a caller arriving while a refresh holds the lock still records the
// pre-refresh value and detects that refresh once it acquires the lock.
func (m *Manager) snapshot() string {
	token, _ := m.published.Load().(string)
	return token
}

// EnsureFresh returns a valid access token, refreshing it if the token is
// unset or within refreshBuffer of expiry. Concurrent callers that observe
// an expired token at the same instant converge on exactly one exchange:
// the token-value comparison taken after acquiring the lock detects any
// refresh performed by a racing caller while this one was waiting for the
// lock, and returns that caller's result instead of refreshing again.
func (m *Manager) EnsureFresh(ctx context.Context) (string, error) {
	observed := m.snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != observed {
		// Someone refreshed while we were waiting for the lock.
		return m.accessToken, nil
	}
	if m.accessToken != "" && time.Now().Before(m.tokenExpiry.Add(-m.refreshBuffer)) {
		return m.accessToken, nil
	}
	return m.refreshLocked(ctx, "proactive")
}

// ForceRefresh unconditionally refreshes the token, subject to the same
// token-value race check as EnsureFresh. The orchestrator calls this at
// most once per HTTP call, on the first 401 response.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	observed := m.snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != observed {
		return m.accessToken, nil
	}
	return m.refreshLocked(ctx, "forced")
}

// refreshLocked performs the OAuth2 client-credentials exchange via
// clientcredentials.Config. Callers must hold m.mu. The HTTP call is the
// one suspension point permitted inside this critical section.
func (m *Manager) refreshLocked(ctx context.Context, trigger string) (string, error) {
	m.logger.Debug("refreshing OAuth2 token")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := m.oauthConfig.Token(ctx)
	if err != nil {
		return "", newAuthError("token exchange", err)
	}
	if token.AccessToken == "" {
		return "", newAuthError("decode token response", fmt.Errorf("empty access_token"))
	}

	m.accessToken = token.AccessToken
	m.tokenExpiry = token.Expiry
	m.published.Store(token.AccessToken)

	if m.secretRegistrar != nil {
		m.secretRegistrar.RegisterResolvedSecret(token.AccessToken)
	}
	if m.metrics != nil {
		m.metrics.RecordTokenRefresh(trigger)
	}
	m.logger.Info("OAuth2 token refreshed", zap.Time("expires_at", m.tokenExpiry))

	return m.accessToken, nil
}

// SecondsToExpiry reports how long until the current token expires, for the
// health probe. Returns false if no token has been acquired.
func (m *Manager) SecondsToExpiry() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accessToken == "" {
		return 0, false
	}
	return time.Until(m.tokenExpiry).Seconds(), true
}
