// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat answers compliance questions about a stored contract. The
// question is matched against the chunk index and the best passages become
// the only context the model is allowed to answer from.
package chat

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/regulaai/internal/llm"
	"github.com/pdiddy/regulaai/internal/store"
	"github.com/pdiddy/regulaai/pkg/types"
)

// systemPrompt pins the model to the retrieved context.
const systemPrompt = `You are RegulaAI, an AI compliance analyst.

Rules:
1. Answer ONLY from the provided contract context.
2. If the context does not contain the answer, say "I don't know".
3. Do not invent obligations or clauses.
4. Mention compliance risks (Low/Medium/High) where relevant.`

// userPromptTmpl assembles the retrieved passages and the question.
var userPromptTmpl = template.Must(template.New("chat-user").Parse(`Context:
{{range .Chunks}}
{{.Content}}
{{end}}
Question:
{{.Question}}`))

// Ask retrieves the top-k chunks for the question and asks the backend.
// When full-text search matches nothing, the contract's opening chunks
// stand in as context so the model still sees the document.
func Ask(ctx context.Context, backend llm.Backend, s *store.Store, contractID, question string, cfg types.ChatConfig) (*types.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	// Surface a missing contract before spending an API call.
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 4
	}

	var (
		chunks []store.ChunkResult
		err    error
	)
	if match := store.MatchQuery(question); match != "" {
		chunks, err = s.Search(ctx, store.SearchOptions{
			Query:      match,
			ContractID: contractID,
			MaxResults: topK,
		})
		if err != nil {
			return nil, fmt.Errorf("retrieving context: %w", err)
		}
	}
	if len(chunks) == 0 {
		chunks, err = s.Chunks(ctx, contractID, topK)
		if err != nil {
			return nil, fmt.Errorf("loading fallback context: %w", err)
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("contract %s has no indexed text", contractID)
	}

	var buf bytes.Buffer
	if err := userPromptTmpl.Execute(&buf, struct {
		Chunks   []store.ChunkResult
		Question string
	}{Chunks: chunks, Question: question}); err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	reply, err := backend.Chat(ctx, llm.ChatRequest{
		System:      systemPrompt,
		User:        buf.String(),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("asking backend: %w", err)
	}

	answer := &types.Answer{Text: reply}
	for _, ch := range chunks {
		answer.Sources = append(answer.Sources, types.ChunkRef{
			ContractID: ch.ContractID,
			Seq:        ch.Seq,
		})
	}
	return answer, nil
}
