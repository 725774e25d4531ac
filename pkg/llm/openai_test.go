package llm

import (
	"context"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

type stubOpenAICompletions struct {
	calls      int
	lastParams openai.ChatCompletionNewParams
	resp       *openai.ChatCompletion
	err        error
}

func (s *stubOpenAICompletions) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	s.calls++
	s.lastParams = body
	return s.resp, s.err
}

func TestOpenAIGenerate(t *testing.T) {
	stub := &stubOpenAICompletions{
		resp: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "pong"}},
			},
		},
	}
	client, err := NewOpenAIClientWith(stub)
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), "gpt-5-mini", Prompt{System: "s", Text: "ping"})
	require.NoError(t, err)
	require.Equal(t, "pong", out)
	require.Equal(t, openai.ChatModel("gpt-5-mini"), stub.lastParams.Model)
	require.Len(t, stub.lastParams.Messages, 2)
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	client, err := NewOpenAIClientWith(&stubOpenAICompletions{resp: &openai.ChatCompletion{}})
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), "gpt-5-mini", Prompt{Text: "ping"})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestOpenAIGenerateRejectsVideo(t *testing.T) {
	stub := &stubOpenAICompletions{}
	client, err := NewOpenAIClientWith(stub)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "gpt-5-mini", Prompt{
		Text:        "check",
		Attachments: []Attachment{{MimeType: "video/webm", Data: []byte("x")}},
	})
	require.ErrorIs(t, err, ErrUnsupportedAttachment)
	require.Zero(t, stub.calls)
}
