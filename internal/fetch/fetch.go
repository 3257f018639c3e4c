// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads remote contracts into the local contracts
// directory so they can be ingested like any local file.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/regulaai/pkg/types"
)

const rawDir = "raw"

// Result describes one completed download.
type Result struct {
	// Path is where the contract landed on disk.
	Path string

	// Skipped is set when the file already existed and no download ran.
	Skipped bool
}

// Fetch downloads a contract from rawURL into ContractsDir/raw/. An
// existing file with the same name is not re-downloaded. The download
// goes through a temp file and renames on success so a failed transfer
// never leaves a partial contract behind.
func Fetch(client *http.Client, rawURL string, cfg types.IngestConfig, httpCfg types.HTTPConfig, w io.Writer) (*Result, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return nil, err
	}

	contractsDir := cfg.ContractsDir
	if contractsDir == "" {
		contractsDir = "contracts"
	}
	destDir := filepath.Join(contractsDir, rawDir)
	destPath := filepath.Join(destDir, name)

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return &Result{Path: destPath, Skipped: true}, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := download(client, rawURL, destPath, httpCfg); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", name, err)
	}

	return &Result{Path: destPath}, nil
}

// fileName derives a safe local name from the URL path. Query strings
// and path traversal are stripped; an extensionless path gets .pdf.
func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	name := filepath.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "contract"
	}
	name = strings.ReplaceAll(name, "..", "")
	if filepath.Ext(name) == "" {
		name += ".pdf"
	}
	return name, nil
}

// download fetches url to destPath through a temp file.
func download(client *http.Client, url, destPath string, cfg types.HTTPConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf, text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
