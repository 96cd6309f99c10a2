package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// Sender is the outbound-mail boundary.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewSMTPSender reads SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and
// MAIL_FROM. When no host is configured it returns a sender that only logs,
// which keeps development environments mail-free.
func NewSMTPSender() Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &logSender{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	user := os.Getenv("SMTP_USER")
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = user
	}

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASS"), host)
	}

	return &smtpSender{host: host, port: port, from: from, auth: auth}
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, []string{to}, []byte(msg))
}

type logSender struct{}

func (l *logSender) Send(to, subject, _ string) error {
	log.Printf("mail sender not configured, dropping mail to %s (%s)", to, subject)
	return nil
}
