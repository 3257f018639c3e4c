// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the contract register and the retrieval index.
// Contracts and their chunks live in SQLite; chunk text is mirrored into
// an FTS5 table so Q&A can pull the most relevant passages.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/regulaai/pkg/types"
)

const dbFile = "regulaai.db"

// Store manages the contract register SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the database at IndexDir/regulaai.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = "index"
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 4
	}

	s := &Store{
		db:         db,
		indexDir:   indexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS contracts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source_path TEXT,
			text_path TEXT,
			risk_score INTEGER NOT NULL,
			risk_level TEXT NOT NULL,
			risk_reasons TEXT,
			char_count INTEGER,
			uploaded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			contract_id TEXT NOT NULL REFERENCES contracts(id),
			seq INTEGER NOT NULL,
			content TEXT NOT NULL,
			UNIQUE(contract_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_contract_id ON chunks(contract_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chunks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chunks_fts USING fts5(content, content=chunks, content_rowid=rowid)`,
			`CREATE TRIGGER chunks_ai AFTER INSERT ON chunks BEGIN
				INSERT INTO chunks_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER chunks_ad AFTER DELETE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER chunks_au AFTER UPDATE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO chunks_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Add upserts a contract record and replaces its retrieval chunks in one
// transaction.
func (s *Store) Add(ctx context.Context, c types.Contract, chunks []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	reasonsJSON, _ := json.Marshal(c.RiskReasons)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contracts (id, name, source_path, text_path, risk_score, risk_level, risk_reasons, char_count, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, source_path=excluded.source_path, text_path=excluded.text_path,
			risk_score=excluded.risk_score, risk_level=excluded.risk_level,
			risk_reasons=excluded.risk_reasons, char_count=excluded.char_count,
			uploaded_at=excluded.uploaded_at`,
		c.ID, c.Name, c.SourcePath, c.TextPath, c.RiskScore, string(c.RiskLevel),
		string(reasonsJSON), c.CharCount, c.UploadedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting contract: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE contract_id = ?`, c.ID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (contract_id, seq, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, i, chunk); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// SetRisk overwrites a contract's risk fields, leaving its chunks alone.
func (s *Store) SetRisk(ctx context.Context, id string, score int, level types.RiskLevel, reasons []string) error {
	reasonsJSON, _ := json.Marshal(reasons)

	res, err := s.db.ExecContext(ctx,
		`UPDATE contracts SET risk_score = ?, risk_level = ?, risk_reasons = ? WHERE id = ?`,
		score, string(level), string(reasonsJSON), id)
	if err != nil {
		return fmt.Errorf("updating risk: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ErrNotFound is returned when a contract ID does not exist.
var ErrNotFound = fmt.Errorf("contract not found")

// Get returns the contract with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Contract, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source_path, text_path, risk_score, risk_level, risk_reasons, char_count, uploaded_at
		 FROM contracts WHERE id = ?`, id)

	c, err := scanContract(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("looking up contract: %w", err)
	}
	return c, nil
}

// List returns all contracts, most recently uploaded first.
func (s *Store) List(ctx context.Context) ([]types.Contract, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, source_path, text_path, risk_score, risk_level, risk_reasons, char_count, uploaded_at
		 FROM contracts ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer rows.Close()

	var out []types.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Remove deletes a contract and its chunks.
func (s *Store) Remove(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE contract_id = ?`, id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contract: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return tx.Commit()
}

// Text returns the stored plain text of a contract, reassembled from the
// text copy on disk.
func (s *Store) Text(ctx context.Context, id string) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(c.TextPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", c.TextPath, err)
	}
	return string(data), nil
}

// Summary holds the dashboard counters.
type Summary struct {
	// Total is the number of contracts in the register.
	Total int `json:"total" yaml:"total"`

	// HighRisk counts contracts with a risk score above 50.
	HighRisk int `json:"high_risk" yaml:"high_risk"`

	// LastUploaded is the most recent contract, nil when the register is empty.
	LastUploaded *types.Contract `json:"last_uploaded,omitempty" yaml:"last_uploaded,omitempty"`
}

// Summarize computes the dashboard counters.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE risk_score > 50) FROM contracts`,
	).Scan(&sum.Total, &sum.HighRisk); err != nil {
		return Summary{}, fmt.Errorf("counting contracts: %w", err)
	}

	if sum.Total > 0 {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, name, source_path, text_path, risk_score, risk_level, risk_reasons, char_count, uploaded_at
			 FROM contracts ORDER BY uploaded_at DESC, id LIMIT 1`)
		c, err := scanContract(row)
		if err != nil {
			return Summary{}, fmt.Errorf("finding last upload: %w", err)
		}
		sum.LastUploaded = c
	}

	return sum, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContract(row scanner) (*types.Contract, error) {
	var (
		c           types.Contract
		level       string
		reasonsJSON sql.NullString
		uploadedAt  string
	)
	if err := row.Scan(
		&c.ID, &c.Name, &c.SourcePath, &c.TextPath,
		&c.RiskScore, &level, &reasonsJSON, &c.CharCount, &uploadedAt,
	); err != nil {
		return nil, err
	}

	c.RiskLevel = types.RiskLevel(level)
	if reasonsJSON.Valid {
		json.Unmarshal([]byte(reasonsJSON.String), &c.RiskReasons)
	}
	if t, err := time.Parse(time.RFC3339Nano, uploadedAt); err == nil {
		c.UploadedAt = t
	}
	return &c, nil
}
