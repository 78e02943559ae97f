// Package orchestrator composes the token manager, rate limiter, circuit
// breaker, and retry wrapper into the single HTTP call path that is the
// only HTTP surface used by tool handlers.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
	"github.com/arubanetworks/central-mcp-gateway/internal/ratelimit"
	"github.com/arubanetworks/central-mcp-gateway/internal/retry"
)

// TokenManager is the subset of auth.Manager the orchestrator needs.
type TokenManager interface {
	EnsureFresh(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// RateLimiter is the subset of ratelimit.Limiter the orchestrator needs.
type RateLimiter interface {
	Acquire(ctx context.Context) error
	Snapshot() ratelimit.Snapshot
}

// Breaker is the subset of breaker.Breaker the orchestrator needs.
type Breaker interface {
	Guard(ctx context.Context, fn func(context.Context) error, isFailure func(error) bool) error
	Snapshot() breaker.Snapshot
}

// Orchestrator is the composed HTTP call path.
type Orchestrator struct {
	baseURL    string
	httpClient *http.Client

	tokens  TokenManager
	limiter RateLimiter
	circuit Breaker
	retrier *retry.Retrier

	connectTimeout time.Duration
	requestTimeout time.Duration

	logger  *zap.Logger
	metrics *observability.Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.httpClient = c }
}

// WithTimeouts overrides the connect and overall request timeouts
// (10s connect, 30s overall by default). The connect timeout is applied to
// the default client's dialer; a client given through WithHTTPClient keeps
// its own transport.
func WithTimeouts(connect, request time.Duration) Option {
	return func(o *Orchestrator) {
		o.connectTimeout = connect
		o.requestTimeout = request
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics attaches the collector used to record live vendor-call,
// circuit-breaker, and rate-limiter measurements.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New creates an Orchestrator over the given vendor base URL.
func New(baseURL string, tokens *auth.Manager, limiter *ratelimit.Limiter, circuit *breaker.Breaker, retrier *retry.Retrier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         tokens,
		limiter:        limiter,
		circuit:        circuit,
		retrier:        retrier,
		connectTimeout: 10 * time.Second,
		requestTimeout: 30 * time.Second,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = (&net.Dialer{Timeout: o.connectTimeout, KeepAlive: 30 * time.Second}).DialContext
		o.httpClient = &http.Client{Transport: transport}
	}
	return o
}

// Call performs the composed request/response cycle for a single endpoint
// call and returns the decoded JSON body. Query parameters whose value is
// nil are omitted.
func (o *Orchestrator) Call(ctx context.Context, method, endpoint string, params map[string]any, body any) (map[string]any, error) {
	if method == "" {
		method = http.MethodGet
	}

	if _, err := o.tokens.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	if err := o.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &CancelledError{Cause: err}
		}
		return nil, err
	}
	if o.metrics != nil {
		snap := o.limiter.Snapshot()
		o.metrics.SetRateLimiterSnapshot(snap.TokensAvailable, snap.UtilizationPct)
	}

	reauthUsed := false
	var result map[string]any

	guardErr := o.circuit.Guard(ctx, func(ctx context.Context) error {
		return o.retrier.Do(ctx, func(ctx context.Context) error {
			decoded, err := o.attempt(ctx, method, endpoint, params, body, &reauthUsed)
			if err != nil {
				return err
			}
			result = decoded
			return nil
		}, classifyForRetry)
	}, classifyForBreaker)

	if o.metrics != nil {
		snap := o.circuit.Snapshot()
		o.metrics.SetBreakerState(int(snap.State), snap.ConsecutiveFailures)
	}

	if guardErr != nil {
		return nil, translateTerminalError(guardErr)
	}
	return result, nil
}

// attempt performs one HTTP request, applying the single-shot 401 re-auth.
// It is itself invoked once per retry attempt, but reauthUsed is shared
// across the whole Call so at most one forced refresh happens per call.
func (o *Orchestrator) attempt(ctx context.Context, method, endpoint string, params map[string]any, body any, reauthUsed *bool) (map[string]any, error) {
	token, err := o.tokens.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}

	decoded, httpErr := o.doRequest(ctx, method, endpoint, params, body, token)
	if httpErr == nil {
		return decoded, nil
	}

	var he *HTTPError
	if errors.As(httpErr, &he) && he.IsUnauthorized() && !*reauthUsed {
		*reauthUsed = true
		newToken, refreshErr := o.tokens.ForceRefresh(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		token = newToken

		decoded2, httpErr2 := o.doRequest(ctx, method, endpoint, params, body, token)
		if httpErr2 == nil {
			return decoded2, nil
		}
		var he2 *HTTPError
		if errors.As(httpErr2, &he2) && he2.IsUnauthorized() {
			return nil, auth.NewForcedRefreshFailure(fmt.Errorf("still unauthorized after forced refresh"))
		}
		return nil, httpErr2
	}

	return nil, httpErr
}

func (o *Orchestrator) doRequest(ctx context.Context, method, endpoint string, params map[string]any, body any, token string) (map[string]any, error) {
	reqCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	u, err := url.Parse(o.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: invalid endpoint %q: %w", endpoint, err)
	}

	q := u.Query()
	for k, v := range params {
		if v == nil {
			continue
		}
		q.Set(k, fmt.Sprintf("%v", v))
	}
	u.RawQuery = q.Encode()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	callStart := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Cause: err}
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, &CancelledError{Cause: err}
		}
		return nil, fmt.Errorf("orchestrator: request failed: %w", err)
	}
	defer resp.Body.Close()

	if o.metrics != nil {
		o.metrics.RecordAPICall(endpoint, observability.StatusClass(resp.StatusCode), time.Since(callStart))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: resp.Header.Get("Retry-After"),
			Body:       string(data),
		}
	}

	if len(bytesTrim(data)) == 0 {
		return map[string]any{}, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("orchestrator: decoding response: %w", err)
	}
	return decoded, nil
}

func bytesTrim(data []byte) []byte {
	return bytes.TrimSpace(data)
}

// classifyForRetry decides which errors the retry wrapper treats as transient.
func classifyForRetry(err error) retry.Classification {
	var he *HTTPError
	if errors.As(err, &he) {
		if he.IsTooManyRequests() {
			return retry.Classification{Retryable: true, RetryAfter: parseRetryAfter(he.RetryAfter)}
		}
		if he.IsRetryableServerError() {
			return retry.Classification{Retryable: true}
		}
		return retry.Classification{Retryable: false}
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return retry.Classification{Retryable: true}
	}

	var cancelledErr *CancelledError
	if errors.As(err, &cancelledErr) {
		return retry.Classification{Retryable: false}
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return retry.Classification{Retryable: false}
	}

	if errors.Is(err, breaker.ErrOpen) {
		return retry.Classification{Retryable: false}
	}

	// Unclassified network/IO errors are treated as transient.
	return retry.Classification{Retryable: true}
}

// classifyForBreaker applies the circuit breaker's failure definition: 5xx plus
// network/IO/timeout errors. 4xx (including 429) are not failures.
func classifyForBreaker(err error) bool {
	if err == nil {
		return false
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he.IsServerError()
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}

	var cancelledErr *CancelledError
	if errors.As(err, &cancelledErr) {
		return false
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return false
	}

	if errors.Is(err, breaker.ErrOpen) {
		return false
	}

	// Any other unclassified error is treated as a network/IO failure.
	return true
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(header); err == nil {
		return time.Until(when)
	}
	return 0
}

// translateTerminalError maps the final error out of the breaker/retry
// composition into the error taxonomy the dispatcher maps to report envelopes.
func translateTerminalError(err error) error {
	if errors.Is(err, breaker.ErrOpen) {
		return err
	}

	var he *HTTPError
	if errors.As(err, &he) {
		if he.IsServerError() {
			return &UpstreamUnavailableError{StatusCode: he.StatusCode, Body: he.Body}
		}
		return &UpstreamClientError{StatusCode: he.StatusCode, Body: he.Body}
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return err
	}
	var cancelledErr *CancelledError
	if errors.As(err, &cancelledErr) {
		return err
	}
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return err
	}

	return err
}
