// Package refclient is a validation-only client for an external
// authoritative ephemeris service, used by the test suite to check the
// N-body integrator against an independent reference. It is never called
// from the serving path: pkg/nbody and pkg/twobody never import it.
package refclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// Client fetches time-tagged state vectors from an authoritative external
// ephemeris service, rate-limited and retried on transport errors.
// Grounded on the donor's subscribeWithReconnect loop, replacing its
// hand-rolled backoff doubling with backoff.ExponentialBackOff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client (deadlines, proxying,
// TLS configuration).
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

// WithRateLimit caps outgoing requests to r per second with the given
// burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(client *Client) { client.limiter = rate.NewLimiter(r, burst) }
}

// WithMaxRetries caps the number of retry attempts on transport failure.
func WithMaxRetries(n uint64) Option {
	return func(client *Client) { client.maxRetries = n }
}

// New returns a Client targeting baseURL, defaulting to 2 requests/second
// and 5 retries.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		maxRetries: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type stateVectorResponse struct {
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Time     float64    `json:"time"`
}

// FetchState retrieves designation's heliocentric ecliptic J2000 state
// vector at Julian Date t from the reference service, retrying transient
// transport failures with exponential backoff.
func (c *Client) FetchState(ctx context.Context, designation string, t float64) (trajectory.StateVector, error) {
	var result trajectory.StateVector

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		url := fmt.Sprintf("%s/state?designation=%s&jd=%f", c.baseURL, designation, t)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err // transport error: retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("reference service returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("reference service returned %d", resp.StatusCode))
		}

		var sv stateVectorResponse
		if err := json.NewDecoder(resp.Body).Decode(&sv); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding reference response: %w", err))
		}

		result = trajectory.StateVector{
			Position: vector3.Vector3{X: sv.Position[0], Y: sv.Position[1], Z: sv.Position[2]},
			Velocity: vector3.Vector3{X: sv.Velocity[0], Y: sv.Velocity[1], Z: sv.Velocity[2]},
			Time:     sv.Time,
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return trajectory.StateVector{}, fmt.Errorf("fetching reference state for %q at t=%.6f: %w", designation, t, err)
	}
	return result, nil
}
