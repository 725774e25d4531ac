package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrProviderUnavailable is returned when no backend is registered for the
// provider serving a model, typically because its API key is not set.
var ErrProviderUnavailable = errors.New("provider not configured")

// Router dispatches generation requests to the backend of the model's provider.
type Router struct {
	mu       sync.RWMutex
	backends map[Provider]Generator
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{backends: make(map[Provider]Generator)}
}

// Register installs the backend for a provider, replacing any previous one.
func (r *Router) Register(p Provider, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[p] = g
}

// Providers returns the providers that have a backend.
func (r *Router) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.backends))
	for _, p := range []Provider{ProviderGoogle, ProviderAnthropic, ProviderOpenAI} {
		if _, ok := r.backends[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Generate implements Generator.
func (r *Router) Generate(ctx context.Context, model string, p Prompt) (string, error) {
	provider, ok := ProviderFor(model)
	if !ok {
		return "", fmt.Errorf("unknown model %q", model)
	}
	r.mu.RLock()
	g, ok := r.backends[provider]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", provider, ErrProviderUnavailable)
	}
	return g.Generate(ctx, model, p)
}
