package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jbdamask/toolhost/pkg/llm"
)

// MoodTool names the mood of a message in a few words.
type MoodTool struct {
	backend Backend
}

func NewMoodTool(backend Backend) *MoodTool {
	return &MoodTool{backend: backend}
}

func (t *MoodTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "analyze_mood",
		Description: "Describe the mood of a message in one short phrase.",
		Schema: objectSchema([]string{"message"}, map[string]interface{}{
			"message": stringProp("The message to analyze."),
		}),
	}
}

func (t *MoodTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	message, err := requiredString(args, "message", "A message", 2)
	if err != nil {
		return "", err
	}

	text, err := t.backend.generate(ctx, llm.Prompt{
		System: "You label the emotional tone of text.",
		Text: "Describe the mood of the following message in one short phrase of at most five words. " +
			"Reply with the phrase only.\n\nMessage:\n" + message,
	})
	if err != nil {
		return "", err
	}
	phrase := strings.Trim(firstLine(text), " \"'*.`")
	if phrase == "" {
		return "", &UpstreamError{Service: "AI model", Detail: "the model returned no mood phrase"}
	}
	return phrase, nil
}

// TasksTool re-ranks a task list by urgency and importance.
type TasksTool struct {
	backend Backend
}

func NewTasksTool(backend Backend) *TasksTool {
	return &TasksTool{backend: backend}
}

func (t *TasksTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "prioritize_tasks",
		Description: "Reorder a list of tasks by priority and explain the order briefly.",
		Schema: objectSchema([]string{"tasks"}, map[string]interface{}{
			"tasks": stringProp("Tasks, one per line or separated by commas or semicolons."),
		}),
	}
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|\[[ xX]\])\s*`)

// splitTasks accepts one task per line, or a single comma/semicolon
// separated line, and strips bullets and numbering.
func splitTasks(s string) []string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if len(lines) == 1 {
		lines = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	}
	var tasks []string
	for _, l := range lines {
		if task := strings.TrimSpace(listMarker.ReplaceAllString(l, "")); task != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (t *TasksTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	raw, err := requiredString(args, "tasks", "A task list", 1)
	if err != nil {
		return "", err
	}
	tasks := splitTasks(raw)
	if len(tasks) == 0 {
		return "", invalid("tasks", "The task list does not contain any tasks.")
	}

	var list strings.Builder
	for i, task := range tasks {
		fmt.Fprintf(&list, "%d. %s\n", i+1, task)
	}
	text, err := t.backend.generate(ctx, llm.Prompt{
		System: "You are a pragmatic productivity coach.",
		Text: "Reorder these tasks from highest to lowest priority based on urgency and impact. " +
			"Return a numbered list with each task followed by a short reason in parentheses. " +
			"Keep every task; add none.\n\n" + list.String(),
	})
	if err != nil {
		return "", err
	}
	return "📋 Prioritized tasks:\n" + text, nil
}
