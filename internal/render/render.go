// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces the highlighted amended-contract PDF. Updated
// segments print underlined and Removed segments struck through, both in
// the highlight color; everything else prints in black. The renderer only
// builds an in-memory byte stream; persisting or mailing it is the
// caller's job.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/regulaai/internal/markup"
	"github.com/pdiddy/regulaai/pkg/types"
)

const (
	pageFormat = "A4"
	fontFamily = "Helvetica"
	margin     = 20.0 // mm, all sides
)

// renderDate is pinned so rendering the same document twice yields
// byte-identical output. fpdf would otherwise stamp time.Now().
var renderDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderError reports that the underlying PDF document could not be
// produced. No partial output accompanies it.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render failure: %v", e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer holds the page settings for highlighted PDF output.
type Renderer struct {
	// FontSize is the body font size in points.
	FontSize float64

	// Highlight is the decoration color for Updated and Removed spans.
	Highlight [3]int

	// DocTitle is stamped into the PDF metadata.
	DocTitle string
}

// New returns a Renderer with config values applied and defaults filled in.
func New(cfg types.RenderConfig) *Renderer {
	r := &Renderer{
		FontSize:  cfg.FontSize,
		Highlight: cfg.HighlightRGB,
		DocTitle:  "Amended Contract",
	}
	if r.FontSize <= 0 {
		r.FontSize = 11
	}
	if r.Highlight == [3]int{} {
		r.Highlight = [3]int{200, 0, 0}
	}
	return r
}

// Render lays out the document as flowing, word-wrapped, paginated text
// and returns the PDF bytes. Updated spans are underlined and Removed
// spans struck through, both in the highlight color. Any fpdf failure
// (unsupported glyphs, output encoding) surfaces as a *RenderError.
func (r *Renderer) Render(doc markup.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", pageFormat, "")
	pdf.SetCreationDate(renderDate)
	pdf.SetModificationDate(renderDate)
	pdf.SetTitle(r.DocTitle, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	// Core fonts are cp1252; translate what is mappable instead of
	// emitting broken glyphs.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	lineHt := r.FontSize * 0.5 // points → a comfortable line height in mm

	for _, seg := range doc {
		style := ""
		red, green, blue := 0, 0, 0
		switch seg.Kind {
		case markup.Updated:
			style = "U"
			red, green, blue = r.Highlight[0], r.Highlight[1], r.Highlight[2]
		case markup.Removed:
			style = "S"
			red, green, blue = r.Highlight[0], r.Highlight[1], r.Highlight[2]
		}

		pdf.SetFont(fontFamily, style, r.FontSize)
		pdf.SetTextColor(red, green, blue)
		pdf.Write(lineHt, tr(seg.Text))
	}

	if pdf.Err() {
		return nil, &RenderError{Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// RenderMarked parses annotated text and renders it in one step. On
// malformed markup with bestEffort set, markers are stripped and the text
// renders plain; otherwise the parse error is returned for the caller to
// reject.
func (r *Renderer) RenderMarked(text string, bestEffort bool) ([]byte, error) {
	doc, err := markup.Parse(text)
	if err != nil {
		if !bestEffort {
			return nil, err
		}
		doc = markup.Document{{Kind: markup.Unchanged, Text: markup.Strip(text)}}
	}
	return r.Render(doc)
}
