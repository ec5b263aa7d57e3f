package email

import (
	"visacenter_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender отправляет транзакционные письма
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender - реализация поверх gomail
type SMTPSender struct {
	cfg *config.Config
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (e *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.cfg.Email.FromEmail, e.cfg.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
