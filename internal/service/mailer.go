// Package queue_publisher also hosts the outgoing-mail helper; both are
// best-effort side channels hanging off the request path.
package queue_publisher

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain-text mail through an SMTP relay. A zero Host
// disables sending, which keeps development and test environments from
// needing a relay.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Enabled reports whether a relay is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.Host != "" }

// Send delivers one message. Callers treat failures as non-fatal and
// log them.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		to, m.From, subject, body))
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}

// PasswordResetBody renders the reset message pointing at the
// presentation layer's confirm page.
func PasswordResetBody(baseURL, token string) string {
	return fmt.Sprintf(
		"You requested a password reset for your Waves Resource Center account.\n\n"+
			"Open the link below to choose a new password. The link expires shortly and works only once.\n\n"+
			"%s/accounts/password-reset-confirm/?token=%s\n\n"+
			"If you did not request this, you can ignore this message.\n", baseURL, token)
}
