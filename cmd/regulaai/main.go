// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the regulaai CLI, an AI-assisted
// contract compliance pipeline: ingest contracts, score their risk,
// generate marked amendments, render highlighted PDFs, answer questions,
// and deliver results by mail.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/llm"
	"github.com/pdiddy/regulaai/internal/secrets"
	"github.com/pdiddy/regulaai/internal/store"
	"github.com/pdiddy/regulaai/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys and credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the regulaai CLI.
var rootCmd = &cobra.Command{
	Use:   "regulaai",
	Short: "AI-powered contract compliance and risk analysis",
	Long: `regulaai analyzes legal contracts for compliance risk. Contracts are
ingested into a local register, scored with clause heuristics, and indexed
for retrieval. The LLM stages generate marked amendments, render them as
highlighted PDFs, and answer questions grounded in the contract text.

Each stage is a subcommand: ingest, contracts, analyze, amend, render,
chat, and send.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./regulaai.yaml or ~/.config/regulaai/config.yaml)")
	rootCmd.PersistentFlags().String("index-dir", "index", "directory holding the contract register database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regulaai")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "regulaai"))
		}
	}

	viper.SetEnvPrefix("REGULAAI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the contract register using the shared --index-dir flag.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = viper.GetString("store.index_dir")
	}
	return store.NewStore(types.StoreConfig{
		IndexDir:   indexDir,
		MaxResults: viper.GetInt("store.max_results"),
	})
}

// newBackend builds the Groq backend from the model flag, loaded secrets,
// and environment.
func newBackend(model string) (*llm.GroqBackend, error) {
	apiKey := secrets.Get(loadedSecrets, "groq-api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("groq-api-key missing: add .secrets/groq-api-key or set GROQ_API_KEY")
	}
	if model == "" {
		model = viper.GetString("amend.model")
	}
	return &llm.GroqBackend{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
