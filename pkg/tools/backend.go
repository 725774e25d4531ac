package tools

import (
	"context"
	"strings"
	"time"

	"goa.design/clue/log"

	"github.com/jbdamask/toolhost/pkg/llm"
)

// BackendResolver returns the active model identifier, or false when no
// model is usable. *resolver.Resolver satisfies it.
type BackendResolver interface {
	Resolve(ctx context.Context) (string, bool)
}

// Backend is what generative tools share: model resolution plus the
// generator that speaks to the resolved model.
type Backend struct {
	Resolver  BackendResolver
	Generator llm.Generator
	// Timeout bounds each generation call. Zero means no bound.
	Timeout time.Duration
}

// generate resolves the model and runs one generation. It returns
// ErrNoBackend when resolution fails and an UpstreamError when the model
// errors or answers with nothing.
func (b Backend) generate(ctx context.Context, p llm.Prompt) (string, error) {
	if b.Resolver == nil || b.Generator == nil {
		return "", ErrNoBackend
	}
	model, ok := b.Resolver.Resolve(ctx)
	if !ok {
		return "", ErrNoBackend
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := b.Generator.Generate(ctx, model, p)
	if err != nil {
		return "", &UpstreamError{Service: "AI model " + model, Detail: err.Error(), Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &UpstreamError{Service: "AI model " + model, Detail: "the model returned an empty response"}
	}
	log.Debug(ctx,
		log.KV{K: "msg", V: "generation finished"},
		log.KV{K: "model", V: model},
		log.KV{K: "attachments", V: len(p.Attachments)},
		log.KV{K: "duration_ms", V: time.Since(start).Milliseconds()},
	)
	return text, nil
}
