package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jbdamask/toolhost/pkg/resolver"
	"github.com/jbdamask/toolhost/pkg/tools"
)

func TestRenderProbeReport(t *testing.T) {
	var buf bytes.Buffer
	RenderProbeReport(&buf, []resolver.ProbeResult{
		{Candidate: "gemini-2.5-flash", Latency: 1200 * time.Millisecond, Err: errors.New("API error (status 429):\nquota exceeded")},
		{Candidate: "gemini-2.5-flash-lite", Reply: "ok", Latency: 340 * time.Millisecond},
		{Candidate: "mystery-model", Err: errors.New("unknown model")},
	}, "gemini-2.5-flash-lite")

	out := buf.String()
	require.Contains(t, out, "Model candidates")
	require.Contains(t, out, "failed: API error (status 429): quota exceeded")
	require.Contains(t, out, "▸ gemini-2.5-flash-lite")
	require.Contains(t, out, "google")
	require.Contains(t, out, "unknown")
	require.Contains(t, out, "340ms")
	require.Contains(t, out, "Selected: gemini-2.5-flash-lite")
	require.Equal(t, 1, strings.Count(out, "▸"))
}

func TestRenderProbeReportNoneSelected(t *testing.T) {
	var buf bytes.Buffer
	RenderProbeReport(&buf, []resolver.ProbeResult{
		{Candidate: "claude-haiku-4-5", Err: errors.New("no backend registered")},
	}, "")
	require.Contains(t, buf.String(), "No candidate answered")
	require.NotContains(t, buf.String(), "▸")
}

func TestRenderToolList(t *testing.T) {
	var buf bytes.Buffer
	RenderToolList(&buf, []tools.ToolDefinition{
		{Name: "add_note", Description: "Save a note."},
		{Name: "get_weather", Description: "Get the weather."},
	})
	out := buf.String()
	require.Contains(t, out, "2 tools")
	require.Contains(t, out, "add_note")
	require.Contains(t, out, "Get the weather.")
}

func TestOneLine(t *testing.T) {
	require.Equal(t, "a b c", oneLine("a\n b\t c", 10))
	require.Equal(t, "abcd…", oneLine("abcdefgh", 5))
}
