// Package health implements the check_server_health pseudo-tool described
// it introspects the auth, circuit breaker, and rate
// limiter components in-process, plus one lightweight vendor GET, and
// synthesizes a single report without going through the normal orchestrator
// call path (it tolerates a dead circuit on purpose).
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/ratelimit"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// Status is the closed three-value health vocabulary.
type Status string

const (
	Healthy   Status = "healthy"
	Degraded  Status = "degraded"
	Unhealthy Status = "unhealthy"
)

// worse returns the more severe of a and b (unhealthy > degraded > healthy).
func worse(a, b Status) Status {
	rank := map[Status]int{Healthy: 0, Degraded: 1, Unhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// Component is one subsystem's health contribution.
type Component struct {
	Name   string
	Status Status
	Detail string
}

// Probe checks auth, the circuit breaker, and the rate limiter, then makes
// one cheap GET to confirm vendor reachability.
type Probe struct {
	tokens         *auth.Manager
	circuit        *breaker.Breaker
	limiter        *ratelimit.Limiter
	httpClient     *http.Client
	baseURL        string
	cheapEndpoint  string
	refreshBuffer  time.Duration
	reachabilityTO time.Duration
}

// Option configures a Probe.
type Option func(*Probe)

// WithHTTPClient overrides the client used for the reachability GET.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Probe) { p.httpClient = c }
}

// WithCheapEndpoint overrides the default reachability endpoint.
func WithCheapEndpoint(endpoint string) Option {
	return func(p *Probe) { p.cheapEndpoint = endpoint }
}

// New builds a Probe over the gateway's already-constructed components.
func New(tokens *auth.Manager, circuit *breaker.Breaker, limiter *ratelimit.Limiter, baseURL string, refreshBuffer time.Duration, opts ...Option) *Probe {
	p := &Probe{
		tokens:         tokens,
		circuit:        circuit,
		limiter:        limiter,
		httpClient:     &http.Client{},
		baseURL:        baseURL,
		cheapEndpoint:  "/platform/device_inventory/v1/devices?limit=1",
		refreshBuffer:  refreshBuffer,
		reachabilityTO: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check runs all subsystem checks and returns the overall status alongside
// each component's contribution.
func (p *Probe) Check(ctx context.Context) (Status, []Component) {
	components := []Component{
		p.checkAuth(),
		p.checkBreaker(),
		p.checkRateLimiter(),
		p.checkReachability(ctx),
	}

	overall := Healthy
	for _, c := range components {
		overall = worse(overall, c.Status)
	}
	return overall, components
}

func (p *Probe) checkAuth() Component {
	seconds, present := p.tokens.SecondsToExpiry()
	if !present {
		return Component{Name: "auth", Status: Degraded, Detail: "no token acquired yet"}
	}
	if seconds <= 0 {
		return Component{Name: "auth", Status: Unhealthy, Detail: "token expired"}
	}
	if seconds < p.refreshBuffer.Seconds() {
		return Component{Name: "auth", Status: Degraded, Detail: fmt.Sprintf("token expires in %.0fs, inside refresh buffer", seconds)}
	}
	return Component{Name: "auth", Status: Healthy, Detail: fmt.Sprintf("token expires in %.0fs", seconds)}
}

func (p *Probe) checkBreaker() Component {
	snap := p.circuit.Snapshot()
	switch snap.State {
	case breaker.Open:
		return Component{Name: "circuit_breaker", Status: Unhealthy, Detail: "open"}
	case breaker.HalfOpen:
		return Component{Name: "circuit_breaker", Status: Degraded, Detail: "half_open"}
	default:
		if snap.ConsecutiveFailures > 0 {
			return Component{Name: "circuit_breaker", Status: Degraded, Detail: fmt.Sprintf("closed, %d consecutive failures", snap.ConsecutiveFailures)}
		}
		return Component{Name: "circuit_breaker", Status: Healthy, Detail: "closed"}
	}
}

func (p *Probe) checkRateLimiter() Component {
	snap := p.limiter.Snapshot()
	if snap.UtilizationPct >= 90 {
		return Component{Name: "rate_limiter", Status: Degraded, Detail: fmt.Sprintf("%.1f%% utilized", snap.UtilizationPct)}
	}
	return Component{Name: "rate_limiter", Status: Healthy, Detail: fmt.Sprintf("%.1f%% utilized", snap.UtilizationPct)}
}

func (p *Probe) checkReachability(ctx context.Context) Component {
	reqCtx, cancel := context.WithTimeout(ctx, p.reachabilityTO)
	defer cancel()

	token, err := p.tokens.EnsureFresh(reqCtx)
	if err != nil {
		return Component{Name: "vendor_reachability", Status: Unhealthy, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.baseURL+p.cheapEndpoint, nil)
	if err != nil {
		return Component{Name: "vendor_reachability", Status: Unhealthy, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Component{Name: "vendor_reachability", Status: Unhealthy, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return Component{Name: "vendor_reachability", Status: Unhealthy, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return Component{Name: "vendor_reachability", Status: Degraded, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	default:
		return Component{Name: "vendor_reachability", Status: Healthy, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}
}

// labelFor maps a component's status to the closed status-label vocabulary.
func labelFor(s Status) report.Label {
	switch s {
	case Healthy:
		return report.LabelOK
	case Degraded:
		return report.LabelWarn
	default:
		return report.LabelCrit
	}
}

// BuildReport renders the probe result using the report builder, ending
// with a verification checkpoint naming every component's status verbatim.
func BuildReport(overall Status, components []Component) (string, error) {
	b := report.New().Line(report.LabelHealth, fmt.Sprintf("overall status: %s", overall))
	for _, c := range components {
		b = b.Line(labelFor(c.Status), fmt.Sprintf("%s: %s (%s)", c.Name, c.Status, c.Detail))
	}
	for _, c := range components {
		b = b.Fact(c.Name, string(c.Status))
	}
	b = b.Fact("overall", string(overall))
	return b.Build()
}
