package mail

import (
	"fmt"

	"medical-clinic-api/config"

	"github.com/go-gomail/gomail"
)

// Mailer sends plain-text notification e-mails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer returns nil when SMTP is not configured.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

// BuildMessage composes the e-mail without sending it.
func (m *Mailer) BuildMessage(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

func (m *Mailer) Send(to, subject, body string) error {
	if err := m.dialer.DialAndSend(m.BuildMessage(to, subject, body)); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
