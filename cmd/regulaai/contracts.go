// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulaai/pkg/types"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Manage the contract register (list, show, summary, remove, export)",
	Long: `Contracts manages the local register of ingested contracts. Use
subcommands to list them, inspect one, view the dashboard summary,
remove one, or export the register.`,
}

// --- list subcommand ---

var contractsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested contracts, most recent first",
	RunE:  runContractsList,
}

func runContractsList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	contracts, err := st.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(contracts)
	}

	if len(contracts) == 0 {
		fmt.Println("No contracts ingested yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-44s  %-6s  %-8s  %-16s  %s\n",
		"ID", "Risk", "Level", "Uploaded", "Name")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, c := range contracts {
		id := c.ID
		if len(id) > 44 {
			id = id[:41] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-44s  %-6s  %-8s  %-16s  %s\n",
			id, fmt.Sprintf("%d%%", c.RiskScore), c.RiskLevel,
			c.UploadedAt.Format("2006-01-02 15:04"), c.Name)
	}

	fmt.Fprintf(os.Stdout, "\n%d contracts\n", len(contracts))
	return nil
}

// --- show subcommand ---

var contractsShowCmd = &cobra.Command{
	Use:   "show [contract-id]",
	Short: "Show one contract's record and risk findings",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractsShow,
}

func runContractsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	printContract(c)
	return nil
}

func printContract(c *types.Contract) {
	fmt.Printf("ID:        %s\n", c.ID)
	fmt.Printf("Name:      %s\n", c.Name)
	fmt.Printf("Uploaded:  %s\n", c.UploadedAt.Format(time.RFC3339))
	fmt.Printf("Size:      %d chars\n", c.CharCount)
	fmt.Printf("Risk:      %d%% (%s)\n", c.RiskScore, c.RiskLevel)
	if len(c.RiskReasons) == 0 {
		fmt.Println("Findings:  none")
		return
	}
	fmt.Println("Findings:")
	for _, r := range c.RiskReasons {
		fmt.Printf("  - %s\n", r)
	}
}

// --- summary subcommand ---

var contractsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show register counters: total, high risk, last upload",
	RunE:  runContractsSummary,
}

func runContractsSummary(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	sum, err := st.Summarize(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Total contracts: %d\n", sum.Total)
	fmt.Printf("High risk:       %d\n", sum.HighRisk)
	if sum.LastUploaded != nil {
		fmt.Printf("Last uploaded:   %s | risk %d%%\n", sum.LastUploaded.Name, sum.LastUploaded.RiskScore)
	}
	return nil
}

// --- remove subcommand ---

var contractsRemoveCmd = &cobra.Command{
	Use:   "remove [contract-id]",
	Short: "Remove a contract and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractsRemove,
}

func runContractsRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Remove(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

// --- export subcommand ---

var contractsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the contract register to YAML or JSON",
	RunE:  runContractsExport,
}

func runContractsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	switch format {
	case "yaml", "":
		if err := st.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.yaml")
	case "json":
		if err := st.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

func init() {
	contractsListCmd.Flags().Bool("json", false, "output as JSON")
	contractsShowCmd.Flags().Bool("json", false, "output as JSON")
	contractsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	contractsCmd.AddCommand(contractsListCmd)
	contractsCmd.AddCommand(contractsShowCmd)
	contractsCmd.AddCommand(contractsSummaryCmd)
	contractsCmd.AddCommand(contractsRemoveCmd)
	contractsCmd.AddCommand(contractsExportCmd)

	rootCmd.AddCommand(contractsCmd)
}
