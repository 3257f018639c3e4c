// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail delivers rendered amendment PDFs over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/pdiddy/regulaai/pkg/types"
)

const (
	defaultHost = "smtp.gmail.com"
	defaultPort = 587
)

// Message is one outbound delivery: a plain-text body and an optional
// PDF attachment.
type Message struct {
	To      string
	Subject string
	Body    string

	// Attachment is the PDF byte stream; empty means no attachment.
	Attachment []byte

	// AttachmentName is the filename shown to the recipient
	// (default "updated_contract.pdf").
	AttachmentName string
}

// Sender holds SMTP connection settings.
type Sender struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// NewSender returns a Sender with config values applied and defaults
// filled in. Username falls back to the From address, matching how app
// passwords work on the default provider.
func NewSender(cfg types.MailConfig) *Sender {
	s := &Sender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		From:     cfg.From,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if s.Host == "" {
		s.Host = defaultHost
	}
	if s.Port == 0 {
		s.Port = defaultPort
	}
	if s.Username == "" {
		s.Username = s.From
	}
	return s
}

// build assembles the wire message.
func (s *Sender) build(msg Message) (*gomail.Msg, error) {
	if s.From == "" {
		return nil, fmt.Errorf("sender address not configured")
	}
	if msg.To == "" {
		return nil, fmt.Errorf("recipient address required")
	}

	m := gomail.NewMsg()
	if err := m.From(s.From); err != nil {
		return nil, fmt.Errorf("invalid sender %s: %w", s.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %s: %w", msg.To, err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if len(msg.Attachment) > 0 {
		name := msg.AttachmentName
		if name == "" {
			name = "updated_contract.pdf"
		}
		if err := m.AttachReader(name, bytes.NewReader(msg.Attachment),
			gomail.WithFileContentType(gomail.TypeAppOctetStream)); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", name, err)
		}
	}

	return m, nil
}

// Send connects with STARTTLS and plain auth and delivers the message.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.Host,
		gomail.WithPort(s.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.Username),
		gomail.WithPassword(s.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending to %s: %w", msg.To, err)
	}
	return nil
}
