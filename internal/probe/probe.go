// Package probe decides once per session whether the authoritative store is
// reachable.
package probe

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single reachability check.
const DefaultTimeout = 3 * time.Second

// Checker performs the reachability check against URL.
type Checker struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// New returns a Checker for url. A zero timeout means DefaultTimeout.
func New(url string, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Online reports whether URL answered within the timeout. Any failure counts
// as offline and is only logged.
func (c *Checker) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		slog.Warn("connectivity probe: bad request", "url", c.URL, "err", err)
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Info("connectivity probe failed, using local cache", "url", c.URL, "err", err)
		return false
	}
	resp.Body.Close()
	return true
}
