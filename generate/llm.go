// Package generate drives a text-generation backend to produce blog articles
// for queued post records, one item at a time, writing each accepted article
// to the record's target path. Submission is gated either by an interactive
// operator decision or by auto-save mode.
package generate

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const defaultBaseURL = "https://api.openai.com/v1"

// Generator produces one text artifact from a system and user prompt,
// invoking onFragment for every streamed fragment as it arrives.
type Generator interface {
	StreamChat(ctx context.Context, systemPrompt, userPrompt string, onFragment func(string)) (string, error)
}

// ChatClient streams chat completions from an OpenAI-compatible backend.
type ChatClient struct {
	model   string
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewChatClient creates a streaming chat client. An empty baseURL uses the
// OPENAI_BASE_URL environment variable or the default endpoint; an empty
// model uses DefaultModel. No client-side timeout is set: a generation
// stream is bounded only by the backend's own termination.
func NewChatClient(model, apiKey, baseURL string) *ChatClient {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
		if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
			baseURL = env
		}
	}
	return &ChatClient{
		model:   model,
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  resty.New(),
	}
}

// streamChunk is one server-sent event payload from the completions stream.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChat requests a streamed completion and concatenates the fragments
// into one artifact. End-of-stream signals completion; a stream that yields
// no content is a failure of the whole call.
func (c *ChatClient) StreamChat(ctx context.Context, systemPrompt, userPrompt string, onFragment func(string)) (string, error) {
	request := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"stream": true,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(request).
		SetDoNotParseResponse(true).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(raw, 4096))
		return "", fmt.Errorf("chat completion returned status %d: %s",
			resp.StatusCode(), strings.TrimSpace(string(body)))
	}

	var article strings.Builder
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Non-JSON keep-alive data; ignore it.
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if onFragment != nil {
				onFragment(choice.Delta.Content)
			}
			article.WriteString(choice.Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read completion stream: %w", err)
	}

	text := strings.TrimSpace(article.String())
	if text == "" {
		return "", errors.New("generation produced no content")
	}
	return text, nil
}
