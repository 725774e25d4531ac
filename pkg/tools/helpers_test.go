package tools

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jbdamask/toolhost/pkg/llm"
	"github.com/jbdamask/toolhost/pkg/telemetry"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return telemetry.Context(context.Background(), telemetry.LogOptions{Output: io.Discard, Debug: true})
}

// roundTripFunc stubs an http.Client transport.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonClient(status int, body string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Request:    req,
		}, nil
	})}
}

// countingClient fails every request and counts how many were attempted.
func countingClient(calls *int64) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt64(calls, 1)
		return nil, errors.New("connection refused")
	})}
}

var errTransport = errors.New("connection refused")

func failingClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errTransport
	})}
}

type staticResolver struct {
	model string
	ok    bool
}

func (r staticResolver) Resolve(context.Context) (string, bool) { return r.model, r.ok }

// recordingGenerator returns a fixed reply and keeps the prompts it saw.
type recordingGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []llm.Prompt
}

func (g *recordingGenerator) Generate(_ context.Context, _ string, p llm.Prompt) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, p)
	return g.reply, g.err
}

func (g *recordingGenerator) last() llm.Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return llm.Prompt{}
	}
	return g.prompts[len(g.prompts)-1]
}

func (g *recordingGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func backendWith(g llm.Generator) Backend {
	return Backend{Resolver: staticResolver{model: "gemini-test", ok: true}, Generator: g}
}

var noBackend = Backend{Resolver: staticResolver{}, Generator: &recordingGenerator{}}
