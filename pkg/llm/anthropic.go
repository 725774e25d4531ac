package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicMessages captures the subset of the Anthropic SDK used here. It is
// satisfied by *sdk.MessageService.
type AnthropicMessages interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

type AnthropicClient struct {
	msg AnthropicMessages
}

// NewAnthropicClient builds a Claude backend. An empty baseURL keeps the SDK
// default endpoint. SDK-level retries are disabled.
func NewAnthropicClient(apiKey, baseURL string, timeout time.Duration) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	ac := sdk.NewClient(opts...)
	return &AnthropicClient{msg: &ac.Messages}
}

// NewAnthropicClientWith wraps an existing messages client.
func NewAnthropicClientWith(msg AnthropicMessages) (*AnthropicClient, error) {
	if msg == nil {
		return nil, errors.New("anthropic messages client is required")
	}
	return &AnthropicClient{msg: msg}, nil
}

func (c *AnthropicClient) Generate(ctx context.Context, model string, p Prompt) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	var blocks []sdk.ContentBlockParamUnion
	for _, a := range p.Attachments {
		if !anthropicImageType(a.MimeType) {
			return "", fmt.Errorf("anthropic: %s: %w", a.MimeType, ErrUnsupportedAttachment)
		}
		blocks = append(blocks, sdk.NewImageBlockBase64(a.MimeType, base64.StdEncoding.EncodeToString(a.Data)))
	}
	if p.Text != "" {
		blocks = append(blocks, sdk.NewTextBlock(p.Text))
	}

	params := sdk.MessageNewParams{
		MaxTokens: anthropicMaxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(blocks...)},
		Model:     sdk.Model(model),
	}
	if p.System != "" {
		params.System = []sdk.TextBlockParam{{Text: p.System}}
	}

	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	if msg == nil {
		return "", errors.New("anthropic: response message is nil")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func anthropicImageType(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
