package ports

import "context"

// MailTransport is the single-recipient, fire-once mail port. Fan-out
// across recipients is the dispatcher's responsibility; the transport is
// never asked to retry.
type MailTransport interface {
	Send(ctx context.Context, to, subject, html string) error
}
