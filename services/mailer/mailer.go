// Package mailer dispatches templated emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"datex/config"
)

// Template IDs accepted by Send.
const TemplateExpiryAlert = "expiry-alert"

// Mailer sends a templated message. Variables are substituted into the
// template identified by templateID; "to_email" selects the recipient.
type Mailer interface {
	Send(ctx context.Context, templateID string, vars map[string]string) error
}

const expiryAlertSubject = "Expiry alert: {{.product}}"

const expiryAlertBody = `Hi {{.to_name}},

Your product "{{.product}}" is expiring on {{.expiry}}.

Use it before it goes to waste!

- DateX`

var templates = map[string]struct {
	subject *template.Template
	body    *template.Template
}{
	TemplateExpiryAlert: {
		subject: template.Must(template.New("expiry-alert-subject").Parse(expiryAlertSubject)),
		body:    template.Must(template.New("expiry-alert-body").Parse(expiryAlertBody)),
	},
}

// SMTPMailer delivers mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return nil, fmt.Errorf("missing required SMTP configuration")
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     from,
	}, nil
}

// Send renders the template and dispatches the message. A non-nil error
// means delivery was not confirmed; callers must not treat the message
// as sent.
func (m *SMTPMailer) Send(_ context.Context, templateID string, vars map[string]string) error {
	tmpl, ok := templates[templateID]
	if !ok {
		return fmt.Errorf("unknown mail template %q", templateID)
	}
	to := vars["to_email"]
	if to == "" {
		return fmt.Errorf("mail template %q: missing to_email", templateID)
	}

	subject, err := render(tmpl.subject, vars)
	if err != nil {
		return fmt.Errorf("failed to render subject for %q: %w", templateID, err)
	}
	body, err := render(tmpl.body, vars)
	if err != nil {
		return fmt.Errorf("failed to render body for %q: %w", templateID, err)
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %q mail to %s: %w", templateID, to, err)
	}
	return nil
}

func render(t *template.Template, vars map[string]string) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", err
	}
	return sb.String(), nil
}
