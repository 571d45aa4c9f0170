// Package mb is a client for the MusicBrainz web service's release search. It
// spaces calls on a fixed-interval gate (the service expects about one
// request per second from each client) and retries transient failures with
// exponential backoff.
package mb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/albumshare/mbimport/request"
	"github.com/albumshare/mbimport/retry"
)

const (
	// BaseURL is the live MusicBrainz web service root.
	BaseURL = "https://musicbrainz.org/ws/2"

	// UserAgent identifies this importer, as the service's etiquette asks.
	UserAgent = "albumshare-mbimport/0.3 (+https://github.com/albumshare/mbimport)"

	// DefaultInterval is the minimum spacing between requests.
	DefaultInterval = 1100 * time.Millisecond
)

// New returns a client for the service rooted at base, issuing at most one
// request per minInterval. A non-positive minInterval means DefaultInterval.
func New(base string, minInterval time.Duration, log *zap.SugaredLogger) *Client {
	if minInterval <= 0 {
		minInterval = DefaultInterval
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 90 * time.Second},
		gate: rate.NewLimiter(rate.Every(minInterval), 1),
		retry: retry.Config{
			MaxAttempts:  8,
			InitialDelay: 800 * time.Millisecond,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
			IsRetryable:  IsTransient,
		},
		log: log,
	}
}

type Client struct {
	base  string
	http  *http.Client
	gate  *rate.Limiter
	retry retry.Config
	log   *zap.SugaredLogger
}

var transientStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// get issues one rate-limited GET against the service. The gate spaces
// top-level calls; retries of a transient failure back off exponentially on
// their own inside that slot.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}

	var body []byte
	err := retry.Do(ctx, c.retry, func() error {
		bs, err := c.getOnce(ctx, path, query)
		if err != nil {
			return err
		}
		body = bs
		return nil
	})
	return body, err
}

func (c *Client) getOnce(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.base + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		bs, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransientError{Status: resp.StatusCode, Err: err}
		}
		return bs, nil
	case transientStatus[resp.StatusCode]:
		return nil, &TransientError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", http.StatusText(resp.StatusCode)),
		}
	default:
		return nil, &PermanentError{
			Status: resp.StatusCode,
			URL:    u,
			Body:   request.Snippet(resp.Body),
		}
	}
}
