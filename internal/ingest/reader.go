// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts plain text from one contract file. Different formats
// (PDF, plain text) implement this interface.
type Reader interface {
	// Text reads the file at path and returns its textual content.
	Text(path string) (string, error)
}

// PDFReader extracts text from PDF contracts page by page. Pages that
// fail to decode are skipped rather than failing the whole document.
type PDFReader struct{}

// Text implements Reader.
func (PDFReader) Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return buf.String(), nil
}

// TextReader reads plain-text contracts as-is.
type TextReader struct{}

// Text implements Reader.
func (TextReader) Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ReaderFor picks a Reader by file extension. PDF gets the PDF reader;
// everything else is treated as plain text.
func ReaderFor(path string) Reader {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return PDFReader{}
	}
	return TextReader{}
}
