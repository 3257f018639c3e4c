package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "regulaai/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the LLM API.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "llama-3.3-70b-versatile").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the LLM API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Temperature controls sampling randomness (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the completion length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// IngestConfig holds settings for the contract ingestion stage.
type IngestConfig struct {
	// ContractsDir is the base directory for contracts (contains raw/, text/, amended/).
	ContractsDir string `json:"contracts_dir" yaml:"contracts_dir"`

	// MaxChars caps the amount of text extracted from one contract (default 16000).
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// ChunkSize is the retrieval chunk length in characters (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks (default 200).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// StoreConfig holds settings for the contract register and retrieval index.
type StoreConfig struct {
	// IndexDir is the directory holding the SQLite database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of retrieval results (default 4).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// RenderConfig holds settings for highlighted PDF output.
type RenderConfig struct {
	// FontSize is the body font size in points (default 11).
	FontSize float64 `json:"font_size" yaml:"font_size"`

	// HighlightRGB is the decoration color as [r, g, b] (default [200, 0, 0]).
	HighlightRGB [3]int `json:"highlight_rgb" yaml:"highlight_rgb"`
}

// MailConfig holds SMTP settings for amended-contract delivery.
type MailConfig struct {
	// Host is the SMTP server hostname (default "smtp.gmail.com").
	Host string `json:"host" yaml:"host"`

	// Port is the SMTP submission port (default 587, STARTTLS).
	Port int `json:"port" yaml:"port"`

	// From is the sender address.
	From string `json:"from" yaml:"from"`

	// Username authenticates against the SMTP server. Empty falls back to From.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Password is the SMTP password or app password.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// ChatConfig holds settings for contract Q&A.
type ChatConfig struct {
	AIConfig `yaml:",inline"`

	// TopK is the number of retrieved chunks included as context (default 4).
	TopK int `json:"top_k" yaml:"top_k"`
}

// AmendConfig holds settings for amendment generation.
type AmendConfig struct {
	AIConfig `yaml:",inline"`

	// Jurisdiction scopes the compliance review (default "global").
	Jurisdiction string `json:"jurisdiction" yaml:"jurisdiction"`

	// Laws lists the regulations to check against (e.g. ["GDPR", "HIPAA"]).
	Laws []string `json:"laws" yaml:"laws"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Amend  AmendConfig  `json:"amend" yaml:"amend"`
	Chat   ChatConfig   `json:"chat" yaml:"chat"`
	Render RenderConfig `json:"render" yaml:"render"`
	Mail   MailConfig   `json:"mail" yaml:"mail"`
}
