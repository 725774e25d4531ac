package tools

import (
	"context"
	"net/http"
	"strings"

	"github.com/jbdamask/toolhost/pkg/llm"
)

const minResumeChars = 50

// ResumeTool reformats a resume and, given a job description, scores the fit.
type ResumeTool struct {
	backend Backend
	fetch   fetcher
}

// NewResumeTool builds the tool. client fetches job descriptions given as
// URLs; nil selects a default client.
func NewResumeTool(backend Backend, client *http.Client) *ResumeTool {
	return &ResumeTool{backend: backend, fetch: newFetcher(client)}
}

func (t *ResumeTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "format_resume",
		Description: "Reformat a resume into a clean structure. With a job description, also score the match and suggest section-level improvements.",
		Schema: objectSchema([]string{"resume_text"}, map[string]interface{}{
			"resume_text":     stringProp("Full plain-text resume."),
			"job_description": stringProp("Optional job description text, or a URL to a job posting."),
		}),
	}
}

func (t *ResumeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	resume, err := requiredString(args, "resume_text", "Resume text", minResumeChars)
	if err != nil {
		return "", err
	}

	job := stringArg(args, "job_description")
	if isURL(job) {
		job, err = t.fetch.markdown(ctx, job)
		if err != nil {
			return "", err
		}
		if job == "" {
			return "", invalid("job_description", "The job posting page has no readable text.")
		}
	}

	var prompt strings.Builder
	prompt.WriteString("Reformat the resume below into clear Markdown sections: Summary, Experience, " +
		"Education, Skills, and any other sections it already has. Keep every fact; invent nothing. " +
		"Use concise, action-oriented bullet points.\n")
	if job != "" {
		prompt.WriteString("\nThen compare it with the job description and add:\n" +
			"- \"Job match score: N/100\" on its own line\n" +
			"- Missing keywords or skills\n" +
			"- Specific suggestions for each resume section\n")
	}
	prompt.WriteString("\nRESUME:\n")
	prompt.WriteString(resume)
	if job != "" {
		prompt.WriteString("\n\nJOB DESCRIPTION:\n")
		prompt.WriteString(job)
	}

	text, err := t.backend.generate(ctx, llm.Prompt{
		System: "You are an expert resume writer and technical recruiter.",
		Text:   prompt.String(),
	})
	if err != nil {
		return "", err
	}
	return "📄 Formatted resume\n\n" + text, nil
}
