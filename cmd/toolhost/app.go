package main

import (
	"net/http"
	"strings"

	"github.com/jbdamask/toolhost/pkg/config"
	"github.com/jbdamask/toolhost/pkg/llm"
	"github.com/jbdamask/toolhost/pkg/resolver"
	"github.com/jbdamask/toolhost/pkg/tools"
)

// app holds the process-wide collaborators built from the config.
type app struct {
	router   *llm.Router
	resolver *resolver.Resolver
	registry *tools.Registry
}

func newApp(cfg *config.Config) *app {
	router := llm.NewRouter()
	if cfg.Keys.Gemini != "" {
		router.Register(llm.ProviderGoogle, llm.NewGeminiClient(cfg.Keys.Gemini, cfg.Endpoints.Gemini, cfg.GenerateTimeout))
	}
	if cfg.Keys.Anthropic != "" {
		router.Register(llm.ProviderAnthropic, llm.NewAnthropicClient(cfg.Keys.Anthropic, cfg.Endpoints.Anthropic, cfg.GenerateTimeout))
	}
	if cfg.Keys.OpenAI != "" {
		router.Register(llm.ProviderOpenAI, llm.NewOpenAIClient(cfg.Keys.OpenAI, cfg.Endpoints.OpenAI, cfg.GenerateTimeout))
	}

	res := resolver.New(router, cfg.Models, resolver.WithProbeTimeout(cfg.ProbeTimeout))
	backend := tools.Backend{Resolver: res, Generator: router, Timeout: cfg.GenerateTimeout}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	upstream := func(base, key string) tools.Upstream {
		return tools.Upstream{BaseURL: base, APIKey: key, Client: client, RequestsPerMinute: cfg.RequestsPerMinute}
	}

	reg := tools.NewRegistry()
	reg.Register(tools.NewNotesTool(cfg.NotesFile))
	reg.Register(tools.NewWeatherTool(upstream(cfg.Endpoints.Weather, cfg.Keys.OpenWeather)))
	reg.Register(tools.NewNewsTool(upstream(cfg.Endpoints.News, cfg.Keys.News)))
	reg.Register(tools.NewMoodTool(backend))
	reg.Register(tools.NewTasksTool(backend))
	reg.Register(tools.NewCurrencyTool(upstream(cfg.Endpoints.Currency, ""), backend))
	// Page and media downloads use the fetcher's own, longer timeout.
	reg.Register(tools.NewResumeTool(backend, nil))
	reg.Register(tools.NewHealthTool(backend, nil))
	reg.Register(tools.NewDeepfakeTool(backend, nil))
	reg.Register(tools.NewDebateTool(backend))

	return &app{router: router, resolver: res, registry: reg}
}

func (a *app) providers() string {
	names := make([]string, 0, 3)
	for _, p := range a.router.Providers() {
		names = append(names, string(p))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
