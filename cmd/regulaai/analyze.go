// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulaai/internal/risk"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [contract-id]",
	Short: "Re-run risk heuristics over a stored contract",
	Long: `Analyze re-scores a stored contract's text with the clause heuristics
and updates the register. Use it after the rule set changes so old
contracts pick up the new scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Get(ctx, args[0])
	if err != nil {
		return err
	}

	text, err := st.Text(ctx, c.ID)
	if err != nil {
		return err
	}

	rep := risk.Score(text)
	if err := st.SetRisk(ctx, c.ID, rep.Score, rep.Level(), rep.Reasons); err != nil {
		return err
	}

	c.RiskScore = rep.Score
	c.RiskLevel = rep.Level()
	c.RiskReasons = rep.Reasons

	printContract(c)
	if rep.HighRisk() {
		fmt.Println("\nThis contract needs review.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
