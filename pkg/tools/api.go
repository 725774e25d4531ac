package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"goa.design/clue/log"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 2 << 20

// Upstream describes how a REST tool reaches its API. Empty fields select
// the tool's defaults.
type Upstream struct {
	BaseURL           string
	APIKey            string
	Client            *http.Client
	RequestsPerMinute int
}

func (u Upstream) baseURL(fallback string) string {
	if u.BaseURL == "" {
		return fallback
	}
	return strings.TrimRight(u.BaseURL, "/")
}

// apiClient issues JSON GET requests to one upstream, throttled by a token
// bucket. It never retries.
type apiClient struct {
	service string
	client  *http.Client
	limiter *rate.Limiter
}

func newAPIClient(service string, u Upstream) *apiClient {
	client := u.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	c := &apiClient{service: service, client: client}
	if u.RequestsPerMinute > 0 {
		burst := u.RequestsPerMinute / 6
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(u.RequestsPerMinute)/60), burst)
	}
	return c
}

// getJSON decodes the response body into out whatever the status code, since
// the APIs used here describe their failures in JSON. It returns the status
// so callers can check their own success indicator.
func (c *apiClient) getJSON(ctx context.Context, endpoint string, header http.Header, out interface{}) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%s rate limit wait: %w", c.service, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "toolhost/1.0")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: failed to read response: %w", c.service, err)
	}
	log.Debug(ctx,
		log.KV{K: "msg", V: "upstream response"},
		log.KV{K: "service", V: c.service},
		log.KV{K: "status", V: resp.StatusCode},
		log.KV{K: "bytes", V: len(body)},
	)

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &UpstreamError{
				Service: c.service,
				Status:  resp.StatusCode,
				Detail:  strings.TrimSpace(truncate(string(body), 300)),
			}
		}
		return resp.StatusCode, &PayloadError{Service: c.service, Err: err}
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
