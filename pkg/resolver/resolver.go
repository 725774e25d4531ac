// Package resolver discovers which candidate generative model is reachable
// and remembers the answer for the rest of the process.
//
// The first call to Resolve probes candidates in priority order with a tiny
// generation request and caches the first one that answers with text. Every
// later call returns the cached identifier without touching the network, even
// if that model fails on a later request. A scan where every candidate fails
// caches nothing, so the next call scans again from the top.
package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"goa.design/clue/log"

	"github.com/jbdamask/toolhost/pkg/llm"
	"github.com/jbdamask/toolhost/pkg/telemetry"
)

const (
	DefaultProbeTimeout = 20 * time.Second
	DefaultProbePrompt  = "Reply with the single word: ok"
)

// ErrEmptyReply marks a probe whose call succeeded but produced no text.
var ErrEmptyReply = errors.New("empty response")

// ProbeResult is the outcome of probing one candidate.
type ProbeResult struct {
	Candidate string
	Reply     string
	Latency   time.Duration
	Err       error
}

// OK reports whether the candidate passed its probe.
func (r ProbeResult) OK() bool { return r.Err == nil }

// Option configures a Resolver.
type Option func(*Resolver)

// WithProbeTimeout bounds each probe call.
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithProbePrompt replaces the text sent to each candidate.
func WithProbePrompt(p string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(p) != "" {
			r.probePrompt = p
		}
	}
}

// Resolver owns the candidate list and the resolved-model cell.
type Resolver struct {
	gen          llm.Generator
	candidates   []string
	probeTimeout time.Duration
	probePrompt  string

	mu       sync.RWMutex
	resolved string
}

// New builds a resolver over candidates, preferring earlier entries. The list
// is copied.
func New(gen llm.Generator, candidates []string, opts ...Option) *Resolver {
	r := &Resolver{
		gen:          gen,
		candidates:   append([]string(nil), candidates...),
		probeTimeout: DefaultProbeTimeout,
		probePrompt:  DefaultProbePrompt,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Candidates returns a copy of the candidate list.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Resolved returns the cached model without probing.
func (r *Resolver) Resolved() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved, r.resolved != ""
}

// Resolve returns the active model identifier, probing on first use. The
// second result is false when no candidate is usable.
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	if id, ok := r.Resolved(); ok {
		return id, true
	}

	for _, candidate := range r.candidates {
		res := r.Probe(ctx, candidate)
		if !res.OK() {
			log.Warn(ctx,
				log.KV{K: "msg", V: "model probe failed"},
				log.KV{K: "candidate", V: candidate},
				log.KV{K: "latency_ms", V: res.Latency.Milliseconds()},
				log.KV{K: "err", V: res.Err.Error()},
			)
			continue
		}
		id := r.store(candidate)
		log.Info(ctx,
			log.KV{K: "msg", V: "model resolved"},
			log.KV{K: "model", V: id},
			log.KV{K: "latency_ms", V: res.Latency.Milliseconds()},
		)
		return id, true
	}

	log.Error(ctx, errors.New("no usable model"),
		log.KV{K: "msg", V: "model resolution failed"},
		log.KV{K: "candidates", V: strings.Join(r.candidates, ",")},
	)
	return "", false
}

// store sets the cell unless a concurrent resolution got there first, and
// returns whichever value is now cached.
func (r *Resolver) store(candidate string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == "" {
		r.resolved = candidate
	}
	return r.resolved
}

// Probe issues one bounded generation request to candidate. It never caches.
func (r *Resolver) Probe(ctx context.Context, candidate string) ProbeResult {
	ctx, span := telemetry.Tracer().Start(ctx, "resolver.probe")
	defer span.End()
	span.SetAttributes(attribute.String("model", candidate))

	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	start := time.Now()
	reply, err := r.gen.Generate(ctx, candidate, llm.Prompt{Text: r.probePrompt})
	res := ProbeResult{Candidate: candidate, Reply: strings.TrimSpace(reply), Latency: time.Since(start)}
	switch {
	case err != nil:
		res.Err = err
	case res.Reply == "":
		res.Err = ErrEmptyReply
	}

	outcome := "ok"
	if res.Err != nil {
		outcome = "failed"
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	}
	telemetry.Count(ctx, "toolhost.resolver.probes", "model", candidate, "outcome", outcome)
	return res
}

// ProbeAll probes every candidate in order without touching the cache.
func (r *Resolver) ProbeAll(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, 0, len(r.candidates))
	for _, c := range r.candidates {
		results = append(results, r.Probe(ctx, c))
	}
	return results
}
