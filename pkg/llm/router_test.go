package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProviderFor(t *testing.T) {
	tests := []struct {
		model string
		want  Provider
		ok    bool
	}{
		{"gemini-2.5-flash", ProviderGoogle, true},
		{"models/gemini-1.5-pro", ProviderGoogle, true},
		{"claude-opus-4-1", ProviderAnthropic, true},
		{"gpt-4o", ProviderOpenAI, true},
		{"o3-mini", ProviderOpenAI, true},
		{"llama-3", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := ProviderFor(tt.model)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	var seen []string
	r := NewRouter()
	r.Register(ProviderGoogle, GeneratorFunc(func(_ context.Context, model string, p Prompt) (string, error) {
		seen = append(seen, model)
		return "from gemini: " + p.Text, nil
	}))

	out, err := r.Generate(context.Background(), "gemini-2.5-pro", Prompt{Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "from gemini: hi", out)
	require.Equal(t, []string{"gemini-2.5-pro"}, seen)
	require.Equal(t, []Provider{ProviderGoogle}, r.Providers())

	_, err = r.Generate(context.Background(), "claude-haiku-4-5", Prompt{Text: "hi"})
	require.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = r.Generate(context.Background(), "mystery-model", Prompt{Text: "hi"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown model")
}

func TestDefaultCandidatesAreKnown(t *testing.T) {
	for _, id := range DefaultCandidates {
		require.NotNil(t, GetModelByID(id), id)
	}
}
