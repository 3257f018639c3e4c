// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulaai/internal/ingest"
	"github.com/pdiddy/regulaai/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a contract PDF or text file into the register",
	Long: `Ingest extracts text from a contract (PDF or plain text), scores it
with clause heuristics, stores a normalized text copy, and indexes
overlapping chunks for retrieval. The printed contract ID is the handle
for all later stages.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	contractsDir, _ := cmd.Flags().GetString("contracts-dir")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")

	cfg := types.IngestConfig{
		ContractsDir: contractsDir,
		MaxChars:     maxChars,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}

	res, err := ingest.Ingest(args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Add(context.Background(), res.Contract, res.Chunks); err != nil {
		return err
	}

	c := res.Contract
	fmt.Printf("\n%s\n", c.ID)
	fmt.Printf("  risk: %d%% (%s)\n", c.RiskScore, c.RiskLevel)
	if len(c.RiskReasons) > 0 {
		fmt.Printf("  findings: %s\n", strings.Join(c.RiskReasons, "; "))
	}
	return nil
}

func init() {
	ingestCmd.Flags().String("contracts-dir", "contracts", "base directory for contracts (contains text/, amended/)")
	ingestCmd.Flags().Int("max-chars", 16000, "maximum characters extracted per contract")
	ingestCmd.Flags().Int("chunk-size", 1000, "retrieval chunk size in characters")
	ingestCmd.Flags().Int("chunk-overlap", 200, "overlap between consecutive chunks")

	rootCmd.AddCommand(ingestCmd)
}
