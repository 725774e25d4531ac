package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name string
	run  func(ctx context.Context, args map[string]interface{}) (string, error)
}

func (f fakeTool) Definition() ToolDefinition {
	return ToolDefinition{Name: f.name, Schema: objectSchema(nil, map[string]interface{}{})}
}

func (f fakeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return f.run(ctx, args)
}

func TestInvokeRecoversPanic(t *testing.T) {
	tool := fakeTool{name: "boom", run: func(context.Context, map[string]interface{}) (string, error) {
		panic("nil map write")
	}}
	out := Invoke(testContext(t), tool, nil)
	require.Equal(t, "❌ Unexpected error in boom: internal failure", out)
	require.True(t, IsFailure(out))
}

func TestInvokeNilArgs(t *testing.T) {
	tool := fakeTool{name: "echo", run: func(_ context.Context, args map[string]interface{}) (string, error) {
		require.NotNil(t, args)
		return "ok", nil
	}}
	require.Equal(t, "ok", Invoke(testContext(t), tool, nil))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		outcome string
	}{
		{"input", invalid("city", "A city name is required."), "❌ Invalid input: A city name is required.", outcomeInvalidInput},
		{"no backend", ErrNoBackend, "❌ No AI model is available right now. Check the configured API keys and model list, then try again.", outcomeNoBackend},
		{"wrapped no backend", fmt.Errorf("note: %w", ErrNoBackend), "❌ No AI model is available right now. Check the configured API keys and model list, then try again.", outcomeNoBackend},
		{"config", &ConfigError{Setting: "NEWS_API_KEY"}, "❌ get_news is not configured: NEWS_API_KEY is not set.", outcomeNotConfigured},
		{"upstream detail", &UpstreamError{Service: "NewsAPI", Status: 401, Detail: "Your API key is invalid."}, "❌ NewsAPI error: Your API key is invalid.", outcomeUpstream},
		{"upstream status", &UpstreamError{Service: "NewsAPI", Status: http.StatusTooManyRequests}, "❌ NewsAPI request failed (429 Too Many Requests).", outcomeUpstream},
		{"upstream bare", &UpstreamError{Service: "NewsAPI"}, "❌ NewsAPI request failed.", outcomeUpstream},
		{"payload", &PayloadError{Service: "NewsAPI", Err: errors.New("eof")}, "❌ Unexpected response from NewsAPI.", outcomeUnexpected},
		{"other", errors.New("disk full"), "❌ Unexpected error in get_news: disk full", outcomeUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Describe("get_news", tt.err))
			require.Equal(t, tt.outcome, classify(tt.err))
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"b", "a", "c"} {
		n := name
		reg.Register(fakeTool{name: n, run: func(context.Context, map[string]interface{}) (string, error) {
			return "ran " + n, nil
		}})
	}
	// Re-registering replaces the tool but keeps its position.
	reg.Register(fakeTool{name: "a", run: func(context.Context, map[string]interface{}) (string, error) {
		return "ran a2", nil
	}})

	var names []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"b", "a", "c"}, names)

	ctx := testContext(t)
	require.Equal(t, "ran a2", reg.Call(ctx, "a", nil))
	require.Equal(t, "❌ Unknown tool: nope", reg.Call(ctx, "nope", nil))
}

func TestSchemasAreObjects(t *testing.T) {
	for _, tool := range allTools(t, Upstream{}, noBackend) {
		def := tool.Definition()
		require.NotEmpty(t, def.Name)
		require.NotEmpty(t, def.Description, def.Name)
		require.Equal(t, "object", def.Schema["type"], def.Name)
		props, ok := def.Schema["properties"].(map[string]interface{})
		require.True(t, ok, def.Name)
		if req, ok := def.Schema["required"].([]string); ok {
			for _, r := range req {
				require.Contains(t, props, r, def.Name)
			}
		}
	}
}
