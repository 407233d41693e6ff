package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseServer streams the given fragments as chat completion events.
func sseServer(t *testing.T, fragments []string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, fragment := range fragments {
			payload, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{
					{"delta": map[string]string{"content": fragment}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

// TestStreamChat_AccumulatesFragments verifies fragments concatenate into
// one artifact and reach the echo callback in order
func TestStreamChat_AccumulatesFragments(t *testing.T) {
	var request map[string]any
	server := sseServer(t, []string{"Hello", ", ", "world."}, &request)
	defer server.Close()

	client := NewChatClient("test-model", "key", server.URL)

	var echoed []string
	article, err := client.StreamChat(context.Background(), "system", "user", func(fragment string) {
		echoed = append(echoed, fragment)
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello, world.", article)
	assert.Equal(t, []string{"Hello", ", ", "world."}, echoed)
	assert.Equal(t, "test-model", request["model"])
	assert.Equal(t, true, request["stream"])

	messages, ok := request["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, _ := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

// TestStreamChat_EmptyStream verifies a stream with no content fails the
// whole call
func TestStreamChat_EmptyStream(t *testing.T) {
	server := sseServer(t, nil, nil)
	defer server.Close()

	client := NewChatClient("m", "key", server.URL)
	_, err := client.StreamChat(context.Background(), "s", "u", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

// TestStreamChat_ErrorStatus verifies a non-200 response surfaces the body
func TestStreamChat_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": "rate limited"}`)
	}))
	defer server.Close()

	client := NewChatClient("m", "key", server.URL)
	_, err := client.StreamChat(context.Background(), "s", "u", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

// TestStreamChat_IgnoresKeepAlives verifies non-JSON data lines are skipped
// without failing the stream
func TestStreamChat_IgnoresKeepAlives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		payload, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"delta": map[string]string{"content": "ok"}}},
		})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewChatClient("m", "key", server.URL)
	article, err := client.StreamChat(context.Background(), "s", "u", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", article)
}

// TestSystemPrompt verifies category-aware prompt construction
func TestSystemPrompt(t *testing.T) {
	assert.Equal(t, "base prompt", SystemPrompt("base prompt", ""))
	assert.Contains(t, SystemPrompt("base prompt", "golang"), "golang")
	assert.Contains(t, SystemPrompt("base prompt", "golang"), "base prompt")
}

// TestUserPrompt verifies the per-item prompt names the title
func TestUserPrompt(t *testing.T) {
	assert.Contains(t, UserPrompt("My Post"), "My Post")
}
