package source

import (
	"context"
	"net/http"
	"time"
)

const checkTimeout = 5 * time.Second

// NewCheckClient returns the client used for liveness probes, with a
// shorter timeout than fetches since only headers are needed.
func NewCheckClient() *http.Client {
	return &http.Client{Timeout: checkTimeout}
}

// URLAlive reports whether an article URL still resolves. A HEAD request
// keeps the probe cheap; redirects count as alive since outlets often
// move stories without killing them.
func URLAlive(ctx context.Context, client *http.Client, url string) bool {
	if url == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
