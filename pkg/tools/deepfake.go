package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/jbdamask/toolhost/pkg/llm"
)

// DeepfakeTool asks a vision model whether an image or video was manipulated.
type DeepfakeTool struct {
	backend Backend
	fetch   fetcher
}

func NewDeepfakeTool(backend Backend, client *http.Client) *DeepfakeTool {
	return &DeepfakeTool{backend: backend, fetch: newFetcher(client)}
}

func (t *DeepfakeTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "deepfake_detector",
		Description: "Assess whether an image or video appears AI-generated or manipulated. Returns a verdict, a confidence and the reasoning.",
		Schema: objectSchema([]string{"media"}, map[string]interface{}{
			"media": stringProp("Local path or URL of the image or video to inspect."),
		}),
	}
}

// Verdict is the model's structured answer.
type Verdict struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

const verdictInstructions = `Inspect the attached media for signs of AI generation or manipulation: ` +
	`inconsistent lighting or shadows, warped geometry, unnatural skin or hair texture, ` +
	`mismatched reflections, garbled text, and temporal artifacts in video.
Answer with a single JSON object and nothing else:
{"verdict": "authentic" | "manipulated" | "inconclusive", "confidence": <number between 0 and 1>, "reasoning": "<two or three sentences>"}`

func (t *DeepfakeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	ref, err := requiredString(args, "media", "A media path or URL", 1)
	if err != nil {
		return "", err
	}
	media, err := t.fetch.media(ctx, ref)
	if err != nil {
		return "", err
	}
	if !media.IsImage() && !strings.HasPrefix(media.MimeType, "video/") {
		return "", invalid("media", "%s is not an image or video (%s).", ref, media.MimeType)
	}

	text, err := t.backend.generate(ctx, llm.Prompt{
		System:      "You are a digital media forensics analyst.",
		Text:        verdictInstructions,
		Attachments: []llm.Attachment{media},
	})
	if err != nil {
		return "", err
	}
	v, err := parseVerdict(text)
	if err != nil {
		return "", &PayloadError{Service: "the AI model", Err: err}
	}

	return fmt.Sprintf("🕵️ Deepfake analysis\nVerdict: %s\nConfidence: %d%%\nReasoning: %s",
		strings.ToUpper(v.Verdict[:1])+v.Verdict[1:], int(math.Round(v.Confidence)), v.Reasoning), nil
}

// parseVerdict extracts the JSON object from a model reply, tolerating code
// fences and surrounding prose. Confidence is returned as a percentage.
func parseVerdict(text string) (Verdict, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return Verdict{}, errors.New("reply contains no JSON object")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(v.Verdict)) {
	case "authentic", "real", "genuine":
		v.Verdict = "authentic"
	case "manipulated", "fake", "deepfake", "ai-generated":
		v.Verdict = "manipulated"
	case "inconclusive", "uncertain", "unknown":
		v.Verdict = "inconclusive"
	default:
		return Verdict{}, fmt.Errorf("unknown verdict %q", v.Verdict)
	}

	if v.Confidence <= 1 {
		v.Confidence *= 100
	}
	if math.IsNaN(v.Confidence) || v.Confidence < 0 || v.Confidence > 100 {
		return Verdict{}, fmt.Errorf("confidence %v out of range", v.Confidence)
	}
	v.Reasoning = strings.TrimSpace(v.Reasoning)
	if v.Reasoning == "" {
		v.Reasoning = "No reasoning given."
	}
	return v, nil
}
