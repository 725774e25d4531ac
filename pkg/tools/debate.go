package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/jbdamask/toolhost/pkg/llm"
)

// DebateTool argues the opposing side of a motion and coaches the user.
type DebateTool struct {
	backend Backend
}

func NewDebateTool(backend Backend) *DebateTool {
	return &DebateTool{backend: backend}
}

func (t *DebateTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "debate_partner",
		Description: "Practice debating: get counter-arguments to your stance, rebuttal tips and, given a transcript of your speech, feedback on delivery.",
		Schema: objectSchema([]string{"topic", "stance"}, map[string]interface{}{
			"topic":      stringProp("The debate motion or topic."),
			"stance":     stringProp("Your position, e.g. \"for\" or \"against\", or a sentence stating it."),
			"transcript": stringProp("Optional transcript of your argument or speech."),
		}),
	}
}

func (t *DebateTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	topic, err := requiredString(args, "topic", "A debate topic", 3)
	if err != nil {
		return "", err
	}
	stance, err := requiredString(args, "stance", "Your stance", 2)
	if err != nil {
		return "", err
	}
	transcript := stringArg(args, "transcript")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\nThe user's stance: %s\n\n", topic, stance)
	sb.WriteString("Take the opposing side. Give:\n" +
		"1. The three strongest counter-arguments, each with a supporting point\n" +
		"2. How the user could rebut each one\n")
	if transcript != "" {
		sb.WriteString("3. Feedback on the user's argument below: structure, evidence, persuasiveness, " +
			"and delivery (clarity, pacing, filler words), with one concrete improvement each\n")
		sb.WriteString("\nTRANSCRIPT:\n")
		sb.WriteString(transcript)
	}

	text, err := t.backend.generate(ctx, llm.Prompt{
		System: "You are a sharp but encouraging debate coach and sparring partner.",
		Text:   sb.String(),
	})
	if err != nil {
		return "", err
	}
	return "🎤 Debate partner: " + topic + "\n\n" + text, nil
}
