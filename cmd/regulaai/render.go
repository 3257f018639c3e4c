// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/render"
	"github.com/pdiddy/regulaai/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render [marked-text-file]",
	Short: "Render a saved marked-text file as a highlighted PDF",
	Long: `Render turns a marked-text file (as saved by the amend command, or
written by hand) into a highlighted PDF without calling the LLM.
Updated passages print underlined, removed passages struck through.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	bestEffort, _ := cmd.Flags().GetBool("best-effort")
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	r := render.New(types.RenderConfig{
		FontSize: viper.GetFloat64("render.font_size"),
	})
	pdfBytes, err := r.RenderMarked(string(data), bestEffort)
	if err != nil {
		return err
	}

	if out == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		out = strings.TrimSuffix(base, ".marked") + ".pdf"
	}
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	fmt.Printf("Rendered %s\n", out)
	return nil
}

func init() {
	renderCmd.Flags().Bool("best-effort", false, "on malformed markers, strip them and render plain instead of failing")
	renderCmd.Flags().String("out", "", "output PDF path (default: input name with .pdf)")

	rootCmd.AddCommand(renderCmd)
}
