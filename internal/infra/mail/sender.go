package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send delivers one HTML email over SMTP. Used when the practice runs
// its own mail relay instead of Resend. SMTP has no message id to hand
// back, so the provider id stays empty.
func (s *SMTPSender) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	return "", nil
}
