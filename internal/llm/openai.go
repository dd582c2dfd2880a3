package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is the cloud revision of the backend, speaking the chat
// completions API through the go-openai SDK.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

func (c *OpenAIClient) Reply(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.request(model, messages, opts, true))
	if err != nil {
		return "", classifyOpenAI(err)
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", classifyOpenAI(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		builder.WriteString(resp.Choices[0].Delta.Content)
	}
	return strings.TrimSpace(builder.String()), nil
}

func (c *OpenAIClient) ReplySync(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.request(model, messages, opts, false))
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) request(model string, messages []Message, opts Options, stream bool) openai.ChatCompletionRequest {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    converted,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stream:      stream,
	}
}

// classifyOpenAI maps SDK errors onto the shared taxonomy so the gateway
// handles both backends identically.
func classifyOpenAI(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Status: apiErr.HTTPStatusCode, Excerpt: truncate(apiErr.Message)}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &BackendError{Status: reqErr.HTTPStatusCode, Excerpt: truncate(reqErr.Error())}
	}
	return classifyTransport(err)
}
