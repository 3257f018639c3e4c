// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns uploaded contract files into stored, risk-scored,
// chunked records ready for analysis and retrieval.
package ingest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/regulaai/internal/risk"
	"github.com/pdiddy/regulaai/pkg/types"
)

const (
	textDir = "text"

	defaultMaxChars     = 16000
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Result is an ingested contract plus its retrieval chunks, ready for the
// store.
type Result struct {
	Contract types.Contract
	Chunks   []string
}

// Ingest reads the contract at path, extracts and normalizes its text,
// scores it, writes a plain-text copy under ContractsDir/text/, and
// returns the record with its retrieval chunks. Progress lines go to w.
func Ingest(path string, cfg types.IngestConfig, w io.Writer) (*Result, error) {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	overlap := cfg.ChunkOverlap
	if overlap <= 0 {
		overlap = defaultChunkOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}

	raw, err := ReaderFor(path).Text(path)
	if err != nil {
		return nil, err
	}

	text := Normalize(raw)
	if text == "" {
		return nil, fmt.Errorf("contract %s is empty after extraction", path)
	}
	if len(text) > maxChars {
		text = text[:maxChars]
		fmt.Fprintf(w, "truncated %s to %d characters\n", filepath.Base(path), maxChars)
	}

	name := filepath.Base(path)
	id := contractID(name, text)
	rep := risk.Score(text)

	textPath := filepath.Join(cfg.ContractsDir, textDir, id+".txt")
	if err := os.MkdirAll(filepath.Dir(textPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating text directory: %w", err)
	}
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("writing text copy: %w", err)
	}

	chunks := Chunk(text, chunkSize, overlap)
	fmt.Fprintf(w, "ingested %s (%d chars, %d chunks, risk %d)\n", id, len(text), len(chunks), rep.Score)

	return &Result{
		Contract: types.Contract{
			ID:          id,
			Name:        name,
			SourcePath:  path,
			TextPath:    textPath,
			RiskScore:   rep.Score,
			RiskLevel:   rep.Level(),
			RiskReasons: rep.Reasons,
			CharCount:   len(text),
			UploadedAt:  time.Now().UTC(),
		},
		Chunks: chunks,
	}, nil
}

// Normalize collapses all runs of whitespace to single spaces and trims
// the ends. Extracted PDF text arrives with arbitrary line breaks.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Chunk splits text into overlapping windows for retrieval. The last
// chunk may be shorter; empty text yields no chunks.
func Chunk(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	step := size - overlap
	for i := 0; i < len(text); i += step {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

// contractID builds a stable slug: the filename without extension,
// lowercased and dash-separated, plus the first 8 hex characters of the
// content hash.
func contractID(name, text string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(base) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "contract"
	}

	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s-%x", slug, h[:4])
}
