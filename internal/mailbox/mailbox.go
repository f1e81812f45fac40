// internal/mailbox/mailbox.go

// Package mailbox finds time-bounded activation and verification links in
// an external mailbox. The mailbox client is an injected collaborator; its
// authentication handshake is established by the caller and opaque here.
package mailbox

import (
	"context"
	"fmt"
	"time"
)

// Query filters a mailbox search. Empty fields are not filtered on.
type Query struct {
	Recipient  string
	Sender     string
	Subject    string
	Unread     bool
	MaxResults int64
}

// Summary identifies one message in a listing, newest first.
type Summary struct {
	ID string
}

// Message is a fetched message with its body already decoded from the
// provider's transport encoding. HTML entities are left intact; the poller
// normalizes them.
type Message struct {
	ID      string
	From    string
	Subject string
	Body    string
}

// Service is the mailbox collaborator consumed by the poller.
type Service interface {
	// ListRecent returns summaries of the most recent messages matching
	// the query, newest first, bounded by Query.MaxResults.
	ListRecent(ctx context.Context, q Query) ([]Summary, error)

	// GetMessage fetches a full message and decodes its body.
	GetMessage(ctx context.Context, id string) (*Message, error)

	// MarkRead removes the unread marker from a message. This is an
	// explicit, optional primitive; the poller never calls it implicitly.
	MarkRead(ctx context.Context, id string) error
}

// EmailNotFoundError reports that polling exhausted its timeout without
// extracting a link.
type EmailNotFoundError struct {
	Recipient string
	Elapsed   time.Duration
}

func (e *EmailNotFoundError) Error() string {
	return fmt.Sprintf("no matching email for %s after %s", e.Recipient, e.Elapsed.Round(time.Millisecond))
}
