// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/amend"
	"github.com/pdiddy/regulaai/internal/markup"
	"github.com/pdiddy/regulaai/internal/render"
	"github.com/pdiddy/regulaai/pkg/types"
)

var amendCmd = &cobra.Command{
	Use:   "amend [contract-id]",
	Short: "Generate a marked compliance revision and render it as a PDF",
	Long: `Amend sends the stored contract text to the LLM with the marker
protocol, validates the markers in the reply, and renders a highlighted
PDF: updated passages underlined, removed passages struck through.

The raw marked text is saved next to the PDF so the revision can be
inspected or re-rendered. A reply with malformed markers is rejected
unless --best-effort is set, in which case the markers are stripped and
the text renders plain.`,
	Args: cobra.ExactArgs(1),
	RunE: runAmend,
}

func runAmend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	contractID := args[0]

	jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
	laws, _ := cmd.Flags().GetStringSlice("laws")
	bestEffort, _ := cmd.Flags().GetBool("best-effort")
	out, _ := cmd.Flags().GetString("out")
	model, _ := cmd.Flags().GetString("model")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	text, err := st.Text(ctx, contractID)
	if err != nil {
		return err
	}

	backend, err := newBackend(model)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Generating amendment...")
	raw, err := amend.Generate(ctx, backend, text, amend.Options{
		Jurisdiction: jurisdiction,
		Laws:         laws,
		Temperature:  viper.GetFloat64("amend.temperature"),
		MaxTokens:    viper.GetInt("amend.max_tokens"),
	})
	if err != nil {
		return err
	}

	a, doc, err := amend.Build(contractID, raw)
	switch {
	case err == nil:
	case errors.Is(err, markup.ErrMalformedMarkup) && bestEffort:
		fmt.Fprintf(os.Stderr, "Warning: %v; rendering without highlights\n", err)
		doc = markup.Document{{Kind: markup.Unchanged, Text: markup.Strip(raw)}}
		a = &types.Amendment{ContractID: contractID, MarkedText: raw}
	default:
		return err
	}

	r := render.New(types.RenderConfig{
		FontSize: viper.GetFloat64("render.font_size"),
	})
	pdfBytes, err := r.Render(doc)
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join("contracts", "amended", contractID+".pdf")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	markedPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".marked.txt"
	if err := os.WriteFile(markedPath, []byte(a.MarkedText), 0o644); err != nil {
		return fmt.Errorf("writing marked text: %w", err)
	}

	fmt.Printf("Amendment written to %s\n", out)
	fmt.Printf("  updated spans: %d, removed spans: %d\n", a.Updated, a.Removed)
	fmt.Printf("  marked text: %s\n", markedPath)
	return nil
}

func init() {
	amendCmd.Flags().String("jurisdiction", "", "jurisdiction to review against (default: global)")
	amendCmd.Flags().StringSlice("laws", nil, "regulations to check against, e.g. GDPR,HIPAA")
	amendCmd.Flags().Bool("best-effort", false, "on malformed markers, strip them and render plain instead of failing")
	amendCmd.Flags().String("out", "", "output PDF path (default contracts/amended/<id>.pdf)")
	amendCmd.Flags().String("model", "", "chat model to use")

	rootCmd.AddCommand(amendCmd)
}
