package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tmajors/daykeeper/internal/models"
)

// SMTPSender delivers the email channel through a plain SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, Username: username, Password: password}
}

func (s *SMTPSender) Send(ctx context.Context, to models.Contact, subject, body string) error {
	if to.Email == "" {
		return fmt.Errorf("contact has no email address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := buildEmail(s.From, to.Email, subject, body)
	if err := smtp.SendMail(addr, auth, s.From, []string{to.Email}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to.Email, err)
	}
	return nil
}

func buildEmail(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
