// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RiskLevel buckets a contract's heuristic risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Contract holds metadata and file paths for an ingested contract.
type Contract struct {
	// ID is a slug derived from the source filename plus a content hash
	// prefix (e.g. "master-services-agreement-3fa9c2d1").
	ID string `json:"id" yaml:"id"`

	// Name is the original filename as uploaded.
	Name string `json:"name" yaml:"name"`

	// SourcePath is the local filesystem path to the original file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// TextPath is the path to the extracted plain-text copy.
	TextPath string `json:"text_path" yaml:"text_path"`

	// RiskScore is the heuristic risk score in [0, 100].
	RiskScore int `json:"risk_score" yaml:"risk_score"`

	// RiskLevel is the bucketed risk score.
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`

	// RiskReasons lists the clause findings behind the score.
	RiskReasons []string `json:"risk_reasons" yaml:"risk_reasons"`

	// CharCount is the length of the extracted text.
	CharCount int `json:"char_count" yaml:"char_count"`

	// UploadedAt is the ingestion timestamp.
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// Amendment is the outcome of one LLM amendment pass over a contract.
type Amendment struct {
	// ContractID identifies the contract the amendment was generated for.
	ContractID string `json:"contract_id" yaml:"contract_id"`

	// MarkedText is the revised contract with [[UPDATED]]/[[REMOVED]]
	// marker pairs still in place.
	MarkedText string `json:"marked_text" yaml:"marked_text"`

	// Updated counts spans the model rewrote.
	Updated int `json:"updated" yaml:"updated"`

	// Removed counts spans the model struck.
	Removed int `json:"removed" yaml:"removed"`
}

// ChunkRef identifies a retrieval chunk used as context for an answer.
type ChunkRef struct {
	// ContractID is the owning contract.
	ContractID string `json:"contract_id" yaml:"contract_id"`

	// Seq is the chunk's position within the contract, starting at 0.
	Seq int `json:"seq" yaml:"seq"`
}

// Answer is the result of one contract Q&A turn.
type Answer struct {
	// Text is the model's reply.
	Text string `json:"text" yaml:"text"`

	// Sources lists the chunks supplied as context, in rank order.
	Sources []ChunkRef `json:"sources" yaml:"sources"`
}
