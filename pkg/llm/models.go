package llm

import "strings"

// Provider represents an LLM provider
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// ModelInfo contains information about a known model
type ModelInfo struct {
	ID          string   // Identifier sent to the API and used in candidate lists
	Name        string   // Display name
	Provider    Provider // Provider (anthropic, openai, google)
	Vision      bool     // Accepts image attachments
	Video       bool     // Accepts video attachments
	Description string   // Short description
}

// SupportedModels lists the models toolhost knows how to reach. Candidates
// outside this list still work as long as ProviderFor recognizes them.
var SupportedModels = []ModelInfo{
	// Google Gemini models
	{
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Provider:    ProviderGoogle,
		Vision:      true,
		Video:       true,
		Description: "Fast and efficient (default)",
	},
	{
		ID:          "gemini-2.5-flash-lite",
		Name:        "Gemini 2.5 Flash Lite",
		Provider:    ProviderGoogle,
		Vision:      true,
		Video:       true,
		Description: "Lightweight and quick",
	},
	{
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Provider:    ProviderGoogle,
		Vision:      true,
		Video:       true,
		Description: "Google's most capable model",
	},

	// Anthropic Claude models
	{
		ID:          "claude-haiku-4-5",
		Name:        "Claude Haiku 4.5",
		Provider:    ProviderAnthropic,
		Vision:      true,
		Description: "Fastest Claude model",
	},
	{
		ID:          "claude-sonnet-4-5",
		Name:        "Claude Sonnet 4.5",
		Provider:    ProviderAnthropic,
		Vision:      true,
		Description: "Balanced performance and speed",
	},

	// OpenAI GPT models
	{
		ID:          "gpt-5-mini",
		Name:        "GPT-5 Mini",
		Provider:    ProviderOpenAI,
		Vision:      true,
		Description: "Balanced performance and cost",
	},
	{
		ID:          "gpt-5-nano",
		Name:        "GPT-5 Nano",
		Provider:    ProviderOpenAI,
		Vision:      true,
		Description: "Fastest and most affordable",
	},
}

// DefaultCandidates is the resolver's candidate list when none is configured.
var DefaultCandidates = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
}

// GetModelByID returns model info by ID
func GetModelByID(id string) *ModelInfo {
	for _, m := range SupportedModels {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// ProviderFor infers the provider serving a model identifier from its
// prefix. The second result is false for identifiers no provider claims.
func ProviderFor(model string) (Provider, bool) {
	if m := GetModelByID(model); m != nil {
		return m.Provider, true
	}
	id := strings.ToLower(strings.TrimPrefix(model, "models/"))
	switch {
	case strings.HasPrefix(id, "gemini-"), strings.HasPrefix(id, "gemma-"):
		return ProviderGoogle, true
	case strings.HasPrefix(id, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(id, "gpt-"), strings.HasPrefix(id, "chatgpt-"),
		strings.HasPrefix(id, "o1"), strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"):
		return ProviderOpenAI, true
	}
	return "", false
}
