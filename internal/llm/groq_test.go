// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regulaai/internal/httputil"
)

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	m.Run()
}

// withServer points groqAPIURL at a test server for the duration of one test.
func withServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	orig := groqAPIURL
	groqAPIURL = ts.URL
	t.Cleanup(func() {
		groqAPIURL = orig
		ts.Close()
	})
	return ts
}

func okResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestChat(t *testing.T) {
	var gotReq groqRequest
	var gotAuth string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(okResponse("  The clause is compliant.  "))
	})

	b := &GroqBackend{APIKey: "gsk_test"}
	got, err := b.Chat(context.Background(), ChatRequest{
		System:      "You are a compliance analyst.",
		User:        "Is clause 4 compliant?",
		Temperature: 0.2,
		MaxTokens:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, "The clause is compliant.", got, "reply is trimmed")
	assert.Equal(t, "Bearer gsk_test", gotAuth)
	assert.Equal(t, DefaultModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestChatNoSystemPrompt(t *testing.T) {
	var gotReq groqRequest
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(okResponse("hi"))
	})

	b := &GroqBackend{APIKey: "k", Model: "llama-3.1-8b-instant"}
	_, err := b.Chat(context.Background(), ChatRequest{User: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "llama-3.1-8b-instant", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestChatMissingKey(t *testing.T) {
	b := &GroqBackend{}
	_, err := b.Chat(context.Background(), ChatRequest{User: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestChatAPIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	})

	b := &GroqBackend{APIKey: "bad"}
	_, err := b.Chat(context.Background(), ChatRequest{User: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChatEmptyChoices(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	b := &GroqBackend{APIKey: "k"}
	_, err := b.Chat(context.Background(), ChatRequest{User: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestChatRetriesRateLimit(t *testing.T) {
	var calls int32
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		// The retried request must carry the original body.
		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		json.NewEncoder(w).Encode(okResponse("after retry"))
	})

	b := &GroqBackend{APIKey: "k", MaxRetries: 3}
	got, err := b.Chat(context.Background(), ChatRequest{User: "q"})
	require.NoError(t, err)
	assert.Equal(t, "after retry", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
