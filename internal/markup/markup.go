// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup parses LLM-revised contract text annotated with
// [[UPDATED]]...[[/UPDATED]] and [[REMOVED]]...[[/REMOVED]] marker pairs
// into a flat sequence of tagged segments. The parse is a single forward
// scan; marker pairs may not nest or overlap.
package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags a segment of marked contract text.
type Kind int

const (
	// Unchanged text appears outside any marker pair.
	Unchanged Kind = iota
	// Updated text was rewritten by the model.
	Updated
	// Removed text was struck by the model.
	Removed
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Segment is one contiguous span of text with a single tag.
type Segment struct {
	Kind Kind
	Text string
}

// Document is the parsed form of annotated text: an ordered segment
// sequence whose concatenated text equals the input with markers stripped.
type Document []Segment

// Plain returns the concatenated segment text, markers gone.
func (d Document) Plain() string {
	var b strings.Builder
	for _, s := range d {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Counts returns the number of Updated and Removed segments.
func (d Document) Counts() (updated, removed int) {
	for _, s := range d {
		switch s.Kind {
		case Updated:
			updated++
		case Removed:
			removed++
		}
	}
	return updated, removed
}

// ErrMalformedMarkup is the sentinel wrapped by every parse failure.
var ErrMalformedMarkup = errors.New("malformed markup")

// MarkupError reports where and why a parse failed.
type MarkupError struct {
	// Offset is the byte offset of the offending token, or of the opener
	// left unclosed.
	Offset int

	// Token is the marker text involved, when one was recognized.
	Token string

	// Reason describes the failure.
	Reason string
}

func (e *MarkupError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("malformed markup at offset %d: %s %q", e.Offset, e.Reason, e.Token)
	}
	return fmt.Sprintf("malformed markup at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedMarkup.
func (e *MarkupError) Unwrap() error { return ErrMalformedMarkup }

// Marker tokens as they appear on the wire from the model.
const (
	openUpdated  = "[[UPDATED]]"
	closeUpdated = "[[/UPDATED]]"
	openRemoved  = "[[REMOVED]]"
	closeRemoved = "[[/REMOVED]]"
)

// token classifies one occurrence of "[[" in the input.
type token struct {
	text    string
	kind    Kind
	closing bool
	known   bool
	literal bool
}

// scanToken inspects the input at a "[[" occurrence. Known markers and
// marker-shaped unknowns ([[NAME]] or [[/NAME]] with an uppercase name)
// are tokens; anything else is literal text, since contracts may contain
// bare double brackets.
func scanToken(s string) token {
	switch {
	case strings.HasPrefix(s, openUpdated):
		return token{text: openUpdated, kind: Updated, known: true}
	case strings.HasPrefix(s, closeUpdated):
		return token{text: closeUpdated, kind: Updated, closing: true, known: true}
	case strings.HasPrefix(s, openRemoved):
		return token{text: openRemoved, kind: Removed, known: true}
	case strings.HasPrefix(s, closeRemoved):
		return token{text: closeRemoved, kind: Removed, closing: true, known: true}
	}

	rest := s[2:]
	name := strings.TrimPrefix(rest, "/")
	end := strings.Index(name, "]]")
	if end > 0 && isMarkerName(name[:end]) {
		tok := s[:2+len(rest)-len(name)+end+2]
		return token{text: tok}
	}

	return token{literal: true}
}

// isMarkerName reports whether s looks like a marker name (all uppercase
// ASCII letters).
func isMarkerName(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return len(s) > 0
}

// Parse scans text for marker pairs and returns the tagged segment
// sequence. Text outside pairs is Unchanged. A missing closer, a closer
// without an opener, a pair opened inside another pair, or an unknown
// marker-shaped token fails with a *MarkupError wrapping ErrMalformedMarkup.
// Empty spans produce no segment.
func Parse(text string) (Document, error) {
	var (
		doc       Document
		inPair    bool
		pairKind  Kind
		pairStart int // offset of the open token, for error reporting
		start     int // start of the current span's text
		pos       int
	)

	emit := func(kind Kind, end int) {
		if end > start {
			doc = append(doc, Segment{Kind: kind, Text: text[start:end]})
		}
	}

	for {
		idx := strings.Index(text[pos:], "[[")
		if idx < 0 {
			break
		}
		idx += pos

		tok := scanToken(text[idx:])
		if tok.literal {
			pos = idx + 2
			continue
		}
		if !tok.known {
			return nil, &MarkupError{Offset: idx, Token: tok.text, Reason: "unknown marker"}
		}

		switch {
		case !tok.closing && inPair:
			return nil, &MarkupError{Offset: idx, Token: tok.text, Reason: "marker opened inside an open pair"}
		case !tok.closing:
			emit(Unchanged, idx)
			inPair = true
			pairKind = tok.kind
			pairStart = idx
		case !inPair:
			return nil, &MarkupError{Offset: idx, Token: tok.text, Reason: "closing marker without opener"}
		case tok.kind != pairKind:
			return nil, &MarkupError{Offset: idx, Token: tok.text, Reason: "closing marker does not match open pair"}
		default:
			emit(pairKind, idx)
			inPair = false
		}

		start = idx + len(tok.text)
		pos = start
	}

	if inPair {
		tok := openUpdated
		if pairKind == Removed {
			tok = openRemoved
		}
		return nil, &MarkupError{Offset: pairStart, Token: tok, Reason: "missing closing marker"}
	}

	emit(Unchanged, len(text))
	return doc, nil
}

// markerReplacer strips all four marker tokens in one pass.
var markerReplacer = strings.NewReplacer(
	openUpdated, "",
	closeUpdated, "",
	openRemoved, "",
	closeRemoved, "",
)

// Strip removes marker tokens without validating pairing. Callers use it
// as the best-effort fallback when Parse rejects the input and the
// amendment should still render as plain text.
func Strip(text string) string {
	return markerReplacer.Replace(text)
}
