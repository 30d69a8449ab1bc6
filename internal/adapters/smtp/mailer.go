// Package smtp is the outbound mail transport. It implements the
// MailTransport port on top of an SMTP relay.
package smtp

import (
	"context"
	"fmt"

	"github.com/labwise/labwise/internal/domain/ports"
	"gopkg.in/gomail.v2"
)

// Config holds the SMTP relay settings
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Mailer sends rendered notification messages through an SMTP relay
type Mailer struct {
	dialer *gomail.Dialer
	config Config
}

// NewMailer creates a new SMTP mail transport
func NewMailer(config Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		config: config,
	}
}

// Send delivers one message to one recipient. Each call dials the relay
// independently; send volume is low enough that holding a connection open
// is not worth the reconnect handling.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.FromAddress, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.MailTransport = (*Mailer)(nil)
