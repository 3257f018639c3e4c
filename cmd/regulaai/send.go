// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulaai/internal/mail"
	"github.com/pdiddy/regulaai/internal/secrets"
	"github.com/pdiddy/regulaai/pkg/types"
)

var sendCmd = &cobra.Command{
	Use:   "send [pdf-file]",
	Short: "Email a rendered PDF to a recipient",
	Long: `Send delivers a rendered amendment PDF as an email attachment over
SMTP with STARTTLS. Credentials come from .secrets/smtp-username and
.secrets/smtp-password, or the SMTP_USERNAME and SMTP_PASSWORD
environment variables.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	to, _ := cmd.Flags().GetString("to")
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")
	from, _ := cmd.Flags().GetString("from")

	if to == "" {
		return fmt.Errorf("--to is required")
	}

	attachment, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	username := secrets.Get(loadedSecrets, "smtp-username")
	password := secrets.Get(loadedSecrets, "smtp-password")
	if from == "" {
		from = viper.GetString("mail.from")
	}
	if from == "" {
		from = username
	}
	if from == "" {
		return fmt.Errorf("sender address missing: set --from, mail.from, or .secrets/smtp-username")
	}

	sender := mail.NewSender(types.MailConfig{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		From:     from,
		Username: username,
		Password: password,
	})

	err = sender.Send(context.Background(), mail.Message{
		To:             to,
		Subject:        subject,
		Body:           body,
		Attachment:     attachment,
		AttachmentName: filepath.Base(args[0]),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sent %s to %s\n", filepath.Base(args[0]), to)
	return nil
}

func init() {
	sendCmd.Flags().String("to", "", "recipient address (required)")
	sendCmd.Flags().String("subject", "Updated Contract - Compliance Amendments", "email subject")
	sendCmd.Flags().String("body", "Attached is the amended contract with compliance updates highlighted.", "email body text")
	sendCmd.Flags().String("from", "", "sender address (default: mail.from config or SMTP username)")

	rootCmd.AddCommand(sendCmd)
}
