package services

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails notifications to a fixed recipient list.
type EmailNotifier struct {
	sender     MailSender
	from       string
	recipients []string
}

func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, recipients []string) *EmailNotifier {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return NewEmailNotifierWithSender(dialer, fromEmail, recipients)
}

func NewEmailNotifierWithSender(sender MailSender, fromEmail string, recipients []string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: fromEmail, recipients: recipients}
}

func (e *EmailNotifier) Notify(_ context.Context, n Notification) error {
	if len(e.recipients) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.recipients...)
	m.SetHeader("Subject", "LeadForge: "+n.Title)

	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p>%s</p>
		<p><small>%s · %s</small></p>
	`, html.EscapeString(n.Title), html.EscapeString(n.Description),
		html.EscapeString(n.Event), n.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	m.SetBody("text/html", body)

	if err := e.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
