package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompletions captures the subset of the OpenAI SDK used here. It is
// satisfied by *openai.ChatCompletionService.
type OpenAICompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type OpenAIClient struct {
	chat OpenAICompletions
}

// NewOpenAIClient builds a Chat Completions backend. An empty baseURL keeps
// the SDK default endpoint. SDK-level retries are disabled.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
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
	oc := openai.NewClient(opts...)
	return &OpenAIClient{chat: &oc.Chat.Completions}
}

// NewOpenAIClientWith wraps an existing completions client.
func NewOpenAIClientWith(chat OpenAICompletions) (*OpenAIClient, error) {
	if chat == nil {
		return nil, errors.New("openai completions client is required")
	}
	return &OpenAIClient{chat: chat}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, model string, p Prompt) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	if len(p.Attachments) == 0 {
		messages = append(messages, openai.UserMessage(p.Text))
	} else {
		parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(p.Attachments)+1)
		if p.Text != "" {
			parts = append(parts, openai.TextContentPart(p.Text))
		}
		for _, a := range p.Attachments {
			if !a.IsImage() {
				return "", fmt.Errorf("openai: %s: %w", a.MimeType, ErrUnsupportedAttachment)
			}
			dataURL := "data:" + a.MimeType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}))
		}
		messages = append(messages, openai.UserMessage(parts))
	}

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
