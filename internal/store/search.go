// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/regulaai/pkg/types"
)

// SearchOptions holds parameters for retrieval queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// ContractID restricts the search to one contract.
	ContractID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// ChunkResult is one retrieved chunk with its provenance.
type ChunkResult struct {
	types.ChunkRef
	ContractName string `json:"contract_name" yaml:"contract_name"`
	Content      string `json:"content" yaml:"content"`
}

// Search runs an FTS5 match over the chunk index and returns the best
// chunks in rank order. These become the context window for Q&A.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]ChunkResult, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT ch.contract_id, ch.seq, ch.content, c.name
		FROM chunks_fts
		JOIN chunks ch ON ch.rowid = chunks_fts.rowid
		LEFT JOIN contracts c ON ch.contract_id = c.id
		WHERE chunks_fts MATCH ?`)
	args = append(args, opts.Query)

	if opts.ContractID != "" {
		qb.WriteString(` AND ch.contract_id = ?`)
		args = append(args, opts.ContractID)
	}

	qb.WriteString(` ORDER BY chunks_fts.rank LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunk index: %w", err)
	}
	defer rows.Close()

	var results []ChunkResult
	for rows.Next() {
		var r ChunkResult
		if err := rows.Scan(&r.ContractID, &r.Seq, &r.Content, &r.ContractName); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// Chunks returns a contract's chunks in sequence order. Q&A falls back to
// the opening chunks when full-text search matches nothing.
func (s *Store) Chunks(ctx context.Context, contractID string, limit int) ([]ChunkResult, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ch.contract_id, ch.seq, ch.content, c.name
		FROM chunks ch
		LEFT JOIN contracts c ON ch.contract_id = c.id
		WHERE ch.contract_id = ?
		ORDER BY ch.seq LIMIT ?`, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []ChunkResult
	for rows.Next() {
		var r ChunkResult
		if err := rows.Scan(&r.ContractID, &r.Seq, &r.Content, &r.ContractName); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// MatchQuery turns free text into a safe FTS5 OR-query: alphanumeric
// tokens are quoted and joined, everything else is dropped. FTS5 treats
// bare punctuation and lone operators as syntax, which user questions are
// full of.
func MatchQuery(text string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})

	var tokens []string
	for _, f := range fields {
		tokens = append(tokens, `"`+f+`"`)
	}
	return strings.Join(tokens, " OR ")
}
