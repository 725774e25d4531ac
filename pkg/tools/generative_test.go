package tools

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResume = "Jane Doe\nBackend engineer with ten years of Go, Postgres and Kafka experience at scale."

func TestGenerativeToolsWithoutBackend(t *testing.T) {
	media := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(media, []byte("\x89PNG\r\n\x1a\nx"), 0o644))

	tests := []struct {
		tool Tool
		args map[string]interface{}
	}{
		{NewMoodTool(noBackend), map[string]interface{}{"message": "so happy today"}},
		{NewTasksTool(noBackend), map[string]interface{}{"tasks": "a, b"}},
		{NewResumeTool(noBackend, nil), map[string]interface{}{"resume_text": sampleResume}},
		{NewHealthTool(noBackend, nil), map[string]interface{}{"symptoms": "cough", "report_text": "CRP 12"}},
		{NewDeepfakeTool(noBackend, nil), map[string]interface{}{"media": media}},
		{NewDebateTool(noBackend), map[string]interface{}{"topic": "school uniforms", "stance": "against"}},
		{NewDebateTool(Backend{}), map[string]interface{}{"topic": "school uniforms", "stance": "against"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool.Definition().Name, func(t *testing.T) {
			out := Invoke(testContext(t), tt.tool, tt.args)
			require.Equal(t, "❌ No AI model is available right now. Check the configured API keys and model list, then try again.", out)
		})
	}
}

func TestEmptyModelReply(t *testing.T) {
	tool := NewMoodTool(backendWith(&recordingGenerator{reply: "  \n"}))
	out := Invoke(testContext(t), tool, map[string]interface{}{"message": "meh"})
	require.Equal(t, "❌ AI model gemini-test error: the model returned an empty response", out)
}

func TestMood(t *testing.T) {
	gen := &recordingGenerator{reply: "\"Joyful and excited.\"\nExtra commentary"}
	out := Invoke(testContext(t), NewMoodTool(backendWith(gen)), map[string]interface{}{"message": "I got the job!"})
	require.Equal(t, "Joyful and excited", out)
	require.Contains(t, gen.last().Text, "I got the job!")

	for _, reply := range []string{"**", `"."`, "`"} {
		gen.reply = reply
		out = Invoke(testContext(t), NewMoodTool(backendWith(gen)), map[string]interface{}{"message": "hello there"})
		require.Equal(t, "❌ AI model error: the model returned no mood phrase", out, reply)
	}
}

func TestSplitTasks(t *testing.T) {
	require.Equal(t, []string{"taxes", "laundry", "email Bob"}, splitTasks("taxes, laundry; email Bob"))
	require.Equal(t, []string{"write report", "book flights", "pay rent, utilities"},
		splitTasks("1. write report\n- book flights\n\n[ ] pay rent, utilities\n"))
	require.Empty(t, splitTasks(" , ;"))
}

func TestTasks(t *testing.T) {
	gen := &recordingGenerator{reply: "1. taxes (due Friday)\n2. laundry (can wait)"}
	tool := NewTasksTool(backendWith(gen))
	ctx := testContext(t)

	out := Invoke(ctx, tool, map[string]interface{}{"tasks": "- laundry\n- taxes"})
	require.Equal(t, "📋 Prioritized tasks:\n1. taxes (due Friday)\n2. laundry (can wait)", out)
	require.Contains(t, gen.last().Text, "1. laundry\n2. taxes\n")

	out = Invoke(ctx, tool, map[string]interface{}{"tasks": "-\n*"})
	require.Equal(t, "❌ Invalid input: The task list does not contain any tasks.", out)
	require.Equal(t, 1, gen.calls())
}

func TestResumeFetchesJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h2>Staff Engineer</h2><p>Must know Kafka.</p></body></html>`))
	}))
	defer srv.Close()

	gen := &recordingGenerator{reply: "## Summary\n...\nJob match score: 82/100"}
	tool := NewResumeTool(backendWith(gen), srv.Client())
	out := Invoke(testContext(t), tool, map[string]interface{}{
		"resume_text":     sampleResume,
		"job_description": srv.URL,
	})
	require.Equal(t, "📄 Formatted resume\n\n## Summary\n...\nJob match score: 82/100", out)

	p := gen.last()
	require.Contains(t, p.Text, "Job match score")
	require.Contains(t, p.Text, "## Staff Engineer")
	require.Contains(t, p.Text, "Must know Kafka.")
	require.Contains(t, p.Text, sampleResume)
}

func TestResumeWithoutJobDescription(t *testing.T) {
	gen := &recordingGenerator{reply: "## Summary"}
	out := Invoke(testContext(t), NewResumeTool(backendWith(gen), nil), map[string]interface{}{"resume_text": sampleResume})
	require.Equal(t, "📄 Formatted resume\n\n## Summary", out)
	require.NotContains(t, gen.last().Text, "JOB DESCRIPTION")
}

func TestHealthAttachesImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "cbc.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nreport"), 0o644))

	gen := &recordingGenerator{reply: "Low haemoglobin suggests anaemia."}
	tool := NewHealthTool(backendWith(gen), nil)
	out := Invoke(testContext(t), tool, map[string]interface{}{"symptoms": "tired all the time", "report_image": img})
	require.Equal(t, "🩺 HealthMate analysis\n\nLow haemoglobin suggests anaemia.\n\n"+healthDisclaimer, out)

	p := gen.last()
	require.Len(t, p.Attachments, 1)
	require.Equal(t, "image/png", p.Attachments[0].MimeType)
	require.Contains(t, p.Text, "tired all the time")
}

func TestHealthRejectsNonImage(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.7"), 0o644))

	gen := &recordingGenerator{reply: "x"}
	out := Invoke(testContext(t), NewHealthTool(backendWith(gen), nil), map[string]interface{}{"symptoms": "rash", "report_image": doc})
	require.Contains(t, out, "❌ Invalid input:")
	require.Contains(t, out, "is not an image (application/pdf)")
	require.Zero(t, gen.calls())
}

func TestParseVerdict(t *testing.T) {
	v, err := parseVerdict("```json\n{\"verdict\": \"Fake\", \"confidence\": 0.87, \"reasoning\": \" Warped ear. \"}\n```")
	require.NoError(t, err)
	require.Equal(t, "manipulated", v.Verdict)
	require.InDelta(t, 87, v.Confidence, 0.001)
	require.Equal(t, "Warped ear.", v.Reasoning)

	v, err = parseVerdict(`Here you go: {"verdict":"authentic","confidence":64}`)
	require.NoError(t, err)
	require.Equal(t, "authentic", v.Verdict)
	require.InDelta(t, 64, v.Confidence, 0.001)
	require.Equal(t, "No reasoning given.", v.Reasoning)

	for _, bad := range []string{
		"I cannot tell.",
		`{"verdict": "maybe", "confidence": 0.5}`,
		`{"verdict": "authentic", "confidence": 250}`,
		`{"verdict": "authentic", "confidence": "high"}`,
	} {
		_, err := parseVerdict(bad)
		require.Error(t, err, bad)
	}
}

func TestDeepfake(t *testing.T) {
	media := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(media, []byte("....ftypmp42"), 0o644))

	gen := &recordingGenerator{reply: `{"verdict":"inconclusive","confidence":0.555,"reasoning":"Low resolution."}`}
	tool := NewDeepfakeTool(backendWith(gen), nil)
	out := Invoke(testContext(t), tool, map[string]interface{}{"media": media})
	require.Equal(t, "🕵️ Deepfake analysis\nVerdict: Inconclusive\nConfidence: 56%\nReasoning: Low resolution.", out)
	require.Equal(t, "video/mp4", gen.last().Attachments[0].MimeType)

	gen.reply = "not sure, sorry"
	out = Invoke(testContext(t), tool, map[string]interface{}{"media": media})
	require.Equal(t, "❌ Unexpected response from the AI model.", out)
}

func TestDeepfakeRejectsText(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(doc, []byte("just text"), 0o644))

	out := Invoke(testContext(t), NewDeepfakeTool(backendWith(&recordingGenerator{reply: "x"}), nil), map[string]interface{}{"media": doc})
	require.Contains(t, out, "is not an image or video (text/plain)")
}

func TestDebate(t *testing.T) {
	gen := &recordingGenerator{reply: "Counter-arguments..."}
	tool := NewDebateTool(backendWith(gen))
	ctx := testContext(t)

	out := Invoke(ctx, tool, map[string]interface{}{"topic": "remote work", "stance": "for"})
	require.Equal(t, "🎤 Debate partner: remote work\n\nCounter-arguments...", out)
	require.NotContains(t, gen.last().Text, "TRANSCRIPT")

	Invoke(ctx, tool, map[string]interface{}{"topic": "remote work", "stance": "for", "transcript": "Um, so, offices are bad."})
	require.Contains(t, gen.last().Text, "TRANSCRIPT:\nUm, so, offices are bad.")
	require.Contains(t, gen.last().Text, "delivery")

	out = Invoke(ctx, tool, map[string]interface{}{"topic": "remote work"})
	require.Equal(t, "❌ Invalid input: Your stance is required.", out)
}
