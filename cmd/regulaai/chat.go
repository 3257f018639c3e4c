// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/chat"
	"github.com/pdiddy/regulaai/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat [contract-id] [question...]",
	Short: "Ask a compliance question about a stored contract",
	Long: `Chat retrieves the passages most relevant to the question from the
contract's chunk index and asks the LLM to answer using only those
passages. The answer cites the chunk sequence numbers it drew from.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	contractID := args[0]
	question := strings.Join(args[1:], " ")

	topK, _ := cmd.Flags().GetInt("top-k")
	model, _ := cmd.Flags().GetString("model")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	backend, err := newBackend(model)
	if err != nil {
		return err
	}

	answer, err := chat.Ask(ctx, backend, st, contractID, question, types.ChatConfig{
		AIConfig: types.AIConfig{
			Temperature: viper.GetFloat64("chat.temperature"),
			MaxTokens:   viper.GetInt("chat.max_tokens"),
		},
		TopK: topK,
	})
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if len(answer.Sources) > 0 {
		seqs := make([]string, len(answer.Sources))
		for i, src := range answer.Sources {
			seqs[i] = fmt.Sprintf("%d", src.Seq)
		}
		fmt.Printf("\n[context: chunks %s]\n", strings.Join(seqs, ", "))
	}
	return nil
}

func init() {
	chatCmd.Flags().Int("top-k", 0, "number of passages retrieved as context (default 4)")
	chatCmd.Flags().String("model", "", "chat model to use")

	rootCmd.AddCommand(chatCmd)
}
