// Package mail relays contact-form submissions over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/config"
)

// Submission is a validated contact-form payload.
type Submission struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Sender delivers a contact submission. Satisfied by Mailer; stubbed in tests.
type Sender interface {
	SendContact(ctx context.Context, sub Submission) error
}

// Mailer sends contact email through a configured SMTP relay.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer constructs a Mailer from SMTP configuration.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendContact relays a submission to the configured recipient. Delivery is
// attempted once; the caller reports failures upstream.
func (m *Mailer) SendContact(ctx context.Context, sub Submission) error {
	msg := gomail.NewMsg()
	if errFrom := msg.From(m.cfg.Sender); errFrom != nil {
		return fmt.Errorf("mail: sender address: %w", errFrom)
	}
	if errTo := msg.To(m.cfg.Recipient); errTo != nil {
		return fmt.Errorf("mail: recipient address: %w", errTo)
	}
	if errReply := msg.ReplyTo(sub.Email); errReply != nil {
		return fmt.Errorf("mail: reply-to address: %w", errReply)
	}
	msg.Subject("Contact: " + sub.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, Body(sub))

	client, errClient := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Sender),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if errClient != nil {
		return fmt.Errorf("mail: client: %w", errClient)
	}

	if errSend := client.DialAndSendWithContext(ctx, msg); errSend != nil {
		return fmt.Errorf("mail: send: %w", errSend)
	}
	return nil
}

// Body renders the fixed plain-text email body for a submission.
func Body(sub Submission) string {
	phone := sub.Phone
	if phone == "" {
		phone = "N/A"
	}
	return fmt.Sprintf(
		"New Contact Form Submission:\n\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Subject: %s\n\n"+
			"Message:\n%s\n",
		sub.Name, sub.Email, phone, sub.Subject, sub.Message,
	)
}
