package mail

import (
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer sends a single plain-text email. Handlers depend on this interface
// so tests can record sends instead of hitting SMTP.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, message)
}

// SendAsync dispatches in a goroutine. Failures are logged and never reach
// the caller: both the welcome and reset emails must not block or fail the
// HTTP response, and reset dispatch outcomes must not reveal whether the
// address has an account.
func SendAsync(log zerolog.Logger, m Mailer, to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("email dispatch failed")
		}
	}()
}

// Discard is a Mailer that does nothing, for environments without SMTP.
type Discard struct{}

func (Discard) Send(to, subject, body string) error { return nil }
