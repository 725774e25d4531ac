package tools

import (
	"context"
	"net/http"
	"strings"

	"github.com/jbdamask/toolhost/pkg/llm"
)

const healthDisclaimer = "⚠️ This is an AI-generated interpretation, not a medical diagnosis. Please consult a qualified doctor."

// HealthTool interprets symptoms together with a lab or medical report.
type HealthTool struct {
	backend Backend
	fetch   fetcher
}

// NewHealthTool builds the tool. client downloads report images given as
// URLs; nil selects a default client.
func NewHealthTool(backend Backend, client *http.Client) *HealthTool {
	return &HealthTool{backend: backend, fetch: newFetcher(client)}
}

func (t *HealthTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "healthmate",
		Description: "Interpret symptoms alongside a medical report (text and/or image) and summarize possible causes, key findings and next steps.",
		Schema: objectSchema([]string{"symptoms"}, map[string]interface{}{
			"symptoms":     stringProp("Symptoms in the patient's own words."),
			"report_text":  stringProp("Optional text of a lab or medical report."),
			"report_image": stringProp("Optional local path or URL of a report image."),
		}),
	}
}

func (t *HealthTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	symptoms, err := requiredString(args, "symptoms", "Symptoms", 3)
	if err != nil {
		return "", err
	}
	report := stringArg(args, "report_text")
	imageRef := stringArg(args, "report_image")
	if report == "" && imageRef == "" {
		return "", invalid("report_text", "Provide the report text or a report image.")
	}

	prompt := llm.Prompt{
		System: "You are a careful medical assistant who explains reports in plain language. " +
			"You never give a definitive diagnosis.",
	}
	if imageRef != "" {
		img, err := t.fetch.media(ctx, imageRef)
		if err != nil {
			return "", err
		}
		if !img.IsImage() {
			return "", invalid("report_image", "%s is not an image (%s).", imageRef, img.MimeType)
		}
		prompt.Attachments = []llm.Attachment{img}
	}

	var sb strings.Builder
	sb.WriteString("Analyze the patient's symptoms together with their report. Structure the answer as:\n" +
		"1. Key findings from the report (flag values outside normal ranges)\n" +
		"2. How the findings relate to the symptoms\n" +
		"3. Possible causes, most likely first\n" +
		"4. Recommended next steps and when to seek urgent care\n\n")
	sb.WriteString("SYMPTOMS:\n")
	sb.WriteString(symptoms)
	if report != "" {
		sb.WriteString("\n\nREPORT:\n")
		sb.WriteString(report)
	}
	if imageRef != "" {
		sb.WriteString("\n\nThe attached image is the report.")
	}
	prompt.Text = sb.String()

	text, err := t.backend.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return "🩺 HealthMate analysis\n\n" + text + "\n\n" + healthDisclaimer, nil
}
