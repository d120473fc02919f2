// Package mailer sends transactional email. The only sender the app needs
// today is the verification mail for new accounts.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a single outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email.
type Sender interface {
	Send(e Email) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Send delivers the message as multipart/alternative so clients that
// cannot render HTML still get the text body.
func (s *SMTPSender) Send(e Email) error {
	if e.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	const boundary = "stakehub-alt"
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, e.TextBody)
	if e.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var a smtp.Auth
	if s.User != "" {
		a = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	return smtp.SendMail(addr, a, s.From, []string{e.To}, []byte(b.String()))
}

// LogSender logs mail instead of delivering it. Used in dev and tests
// when no SMTP host is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Send(e Email) error {
	s.Logger.Info("mail (not sent; no smtp host configured)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("body", e.TextBody))
	return nil
}
