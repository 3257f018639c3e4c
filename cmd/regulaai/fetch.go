// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/fetch"
	"github.com/pdiddy/regulaai/internal/ingest"
	"github.com/pdiddy/regulaai/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download a contract from a URL and ingest it",
	Long: `Fetch downloads a contract from an HTTP or HTTPS URL into the
contracts directory and runs the ingest stage over it. Pass
--download-only to skip ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	downloadOnly, _ := cmd.Flags().GetBool("download-only")
	contractsDir, _ := cmd.Flags().GetString("contracts-dir")

	cfg := types.IngestConfig{ContractsDir: contractsDir}
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if httpCfg.Timeout == 0 {
		httpCfg.Timeout = 60 * time.Second
	}
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = "regulaai/" + version
	}

	client := &http.Client{Timeout: httpCfg.Timeout}
	res, err := fetch.Fetch(client, args[0], cfg, httpCfg, os.Stdout)
	if err != nil {
		return err
	}

	if downloadOnly {
		fmt.Printf("Saved %s\n", res.Path)
		return nil
	}

	ingested, err := ingest.Ingest(res.Path, cfg, os.Stdout)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Add(context.Background(), ingested.Contract, ingested.Chunks); err != nil {
		return err
	}

	c := ingested.Contract
	fmt.Printf("\n%s\n", c.ID)
	fmt.Printf("  risk: %d%% (%s)\n", c.RiskScore, c.RiskLevel)
	return nil
}

func init() {
	fetchCmd.Flags().Bool("download-only", false, "download without ingesting")
	fetchCmd.Flags().String("contracts-dir", "contracts", "base directory for contracts")

	rootCmd.AddCommand(fetchCmd)
}
