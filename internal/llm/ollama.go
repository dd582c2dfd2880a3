package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const ollamaChatPath = "/api/chat"

// OllamaClient talks to a locally hosted model server speaking the ollama
// chat protocol: NDJSON fragments when streaming, one document otherwise.
type OllamaClient struct {
	chatURL string
	http    *http.Client
}

func NewOllamaClient(baseURL string) *OllamaClient {
	u, err := url.Parse(baseURL)
	if err != nil {
		u = &url.URL{Scheme: "http", Host: "localhost:11434"}
	}
	return &OllamaClient{
		chatURL: u.ResolveReference(&url.URL{Path: ollamaChatPath}).String(),
		http:    &http.Client{},
	}
}

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options
}

// Reply opens a streaming call and aggregates the NDJSON fragments in
// arrival order. The caller's context carries the deadline; cancelling it
// aborts the in-flight call and releases the stream.
func (c *OllamaClient) Reply(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	resp, err := c.send(ctx, model, messages, opts, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	agg := &aggregator{}
	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			agg.Feed(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", classifyTransport(err)
		}
		if agg.done {
			break
		}
	}
	agg.Finish()
	return agg.Text(), nil
}

// ReplySync issues the call without the streaming flag and normalizes
// whatever shape comes back.
func (c *OllamaClient) ReplySync(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	resp, err := c.send(ctx, model, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(err)
	}
	return strings.TrimSpace(normalizeBody(body)), nil
}

func (c *OllamaClient) send(ctx context.Context, model string, messages []Message, opts Options, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   stream,
		Options:  opts,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "application/x-ndjson")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, excerptLimit))
		resp.Body.Close()
		return nil, &BackendError{Status: resp.StatusCode, Excerpt: strings.TrimSpace(string(excerpt))}
	}
	return resp, nil
}
