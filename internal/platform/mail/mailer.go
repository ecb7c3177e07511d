package mail

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
	}
}

func (m *Mailer) SendLoginCode(email, code string, ttl time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your login code")

	body := fmt.Sprintf(`
		<h3>Your login code</h3>
		<p>Enter this code to sign in: <strong>%s</strong></p>
		<p>The code expires in %d minutes.</p>
		<p>If you did not request it, you can ignore this email.</p>
	`, code, int(ttl.Minutes()))

	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send login code email: %w", err)
	}

	return nil
}
