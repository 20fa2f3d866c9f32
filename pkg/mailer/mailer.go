// Package mailer renders and sends HTML email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends HTML email
type Mailer struct {
	config Config
	send   SendFunc
}

// New creates a new mailer
func New(config Config) *Mailer {
	return &Mailer{config: config, send: smtp.SendMail}
}

// WithSendFunc replaces the SMTP transport, used by tests.
func (m *Mailer) WithSendFunc(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

// Configured reports whether an SMTP host is set.
func (m *Mailer) Configured() bool {
	return m.config.Host != ""
}

// Send delivers one HTML message. The context is only checked before the
// SMTP exchange starts.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.Configured() {
		return fmt.Errorf("smtp host not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(addr, auth, m.config.FromEmail, []string{to}, m.buildHTMLEmail(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (m *Mailer) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		m.config.FromName,
		m.config.FromEmail,
		to,
		strings.NewReplacer("\r", "", "\n", "").Replace(subject),
	)
	return []byte(headers + htmlBody)
}

// Template is a parsed campaign body.
type Template struct {
	tmpl *template.Template
}

// Parse compiles a campaign body. The body may reference the fields of
// Recipient, e.g. {{.Name}}.
func Parse(name, body string) (*Template, error) {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl: tmpl}, nil
}

// Recipient is the data a campaign body is rendered with.
type Recipient struct {
	Name           string
	Email          string
	UnsubscribeURL string
}

// Render executes the template for one recipient.
func (t *Template) Render(r Recipient) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
