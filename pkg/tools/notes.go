package tools

import (
	"context"
	"fmt"
	"os"
)

// NotesTool appends messages to a line-oriented notes file.
type NotesTool struct {
	path string
}

func NewNotesTool(path string) *NotesTool {
	return &NotesTool{path: path}
}

func (t *NotesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "add_note",
		Description: "Save a short note to the local notes file.",
		Schema: objectSchema([]string{"message"}, map[string]interface{}{
			"message": stringProp("The note to save."),
		}),
	}
}

func (t *NotesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	if _, err := requiredString(args, "message", "A note message", 1); err != nil {
		return "", err
	}
	// Keep the caller's text as-is; only the blank check uses the trimmed form.
	message, ok := args["message"].(string)
	if !ok {
		message = stringArg(args, "message")
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open notes file: %w", err)
	}
	defer f.Close()

	// One write per note so concurrent appends interleave by whole lines.
	if _, err := f.Write([]byte(message + "\n")); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return "Note saved!", nil
}
