// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the Groq chat completions API behind a Backend
// interface so the amendment and Q&A stages can be tested against mocks.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/regulaai/internal/httputil"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "llama-3.3-70b-versatile"

// ChatRequest is one completion request: an optional system prompt plus
// the user message.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Backend abstracts the chat API so tests can supply a mock.
type Backend interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// groqAPIURL is the Groq OpenAI-compatible endpoint. Package-level var
// for test substitution.
var groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqBackend calls the Groq chat completions API.
type GroqBackend struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// groqRequest is the request body for the chat completions endpoint.
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// groqMessage is a single message in the conversation.
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse is the response body from the chat completions endpoint.
type groqResponse struct {
	Choices []groqChoice `json:"choices"`
}

// groqChoice is one completion alternative; the API returns one.
type groqChoice struct {
	Message groqMessage `json:"message"`
}

// Chat sends the request and returns the model's reply text, trimmed.
// Rate limits and transient server errors are retried with backoff.
func (g *GroqBackend) Chat(ctx context.Context, cr ChatRequest) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("groq API key not configured")
	}

	model := g.Model
	if model == "" {
		model = DefaultModel
	}

	var messages []groqMessage
	if cr.System != "" {
		messages = append(messages, groqMessage{Role: "system", Content: cr.System})
	}
	messages = append(messages, groqMessage{Role: "user", Content: cr.User})

	reqBody := groqRequest{
		Model:       model,
		Messages:    messages,
		Temperature: cr.Temperature,
		MaxTokens:   cr.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, g.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Groq API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Groq response: %w", err)
	}

	if len(gResp.Choices) == 0 {
		return "", fmt.Errorf("Groq API returned no choices")
	}

	return strings.TrimSpace(gResp.Choices[0].Message.Content), nil
}
