package llm

import (
	"context"
	"errors"
	"strings"
)

// Attachment is binary content sent alongside a prompt. Data holds the raw
// bytes; each backend applies its own transport encoding.
type Attachment struct {
	MimeType string
	Data     []byte
}

// IsImage reports whether the attachment is an image.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// Prompt is a single-turn generation request.
type Prompt struct {
	System      string
	Text        string
	Attachments []Attachment
}

// Generator produces text from a prompt using the named model.
type Generator interface {
	Generate(ctx context.Context, model string, p Prompt) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, model string, p Prompt) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, model string, p Prompt) (string, error) {
	return f(ctx, model, p)
}

var (
	// ErrEmptyPrompt is returned when a prompt has neither text nor attachments.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrUnsupportedAttachment is returned when a provider cannot accept an
	// attachment's media type.
	ErrUnsupportedAttachment = errors.New("attachment type not supported by provider")
)

func (p Prompt) validate() error {
	if strings.TrimSpace(p.Text) == "" && len(p.Attachments) == 0 {
		return ErrEmptyPrompt
	}
	return nil
}
