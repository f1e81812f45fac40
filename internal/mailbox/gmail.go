// internal/mailbox/gmail.go
package mailbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUser = "me"

// GmailService implements Service against the Gmail REST API. The token
// source is pre-established by the caller; refresh happens inside oauth2.
type GmailService struct {
	svc    *gmail.Service
	logger *zap.Logger
}

// NewGmailService builds a Gmail-backed mailbox client from a token source.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, logger *zap.Logger) (*GmailService, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return &GmailService{
		svc:    svc,
		logger: logger.Named("gmail"),
	}, nil
}

// buildSearch translates a Query into Gmail search syntax.
func buildSearch(q Query) string {
	var terms []string
	if q.Sender != "" {
		terms = append(terms, "from:"+q.Sender)
	}
	if q.Recipient != "" {
		terms = append(terms, "to:"+q.Recipient)
	}
	if q.Subject != "" {
		terms = append(terms, fmt.Sprintf("subject:%q", q.Subject))
	}
	if q.Unread {
		terms = append(terms, "is:unread")
	}
	return strings.Join(terms, " ")
}

// ListRecent returns summaries of the newest matching messages.
func (g *GmailService) ListRecent(ctx context.Context, q Query) ([]Summary, error) {
	call := g.svc.Users.Messages.List(gmailUser).Context(ctx)
	if search := buildSearch(q); search != "" {
		call = call.Q(search)
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list failed: %w", err)
	}

	summaries := make([]Summary, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		summaries = append(summaries, Summary{ID: m.Id})
	}
	g.logger.Debug("Listed messages.", zap.Int("count", len(summaries)), zap.String("query", buildSearch(q)))
	return summaries, nil
}

// GetMessage fetches a full message and decodes its body from the Gmail
// transport encoding (URL-safe base64). HTML parts win over plain text.
func (g *GmailService) GetMessage(ctx context.Context, id string) (*Message, error) {
	resp, err := g.svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail get %s failed: %w", id, err)
	}

	msg := &Message{ID: id}
	if resp.Payload != nil {
		for _, h := range resp.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				msg.From = h.Value
			case "subject":
				msg.Subject = h.Value
			}
		}

		data := htmlPartData(resp.Payload)
		if data == "" && resp.Payload.Body != nil {
			data = resp.Payload.Body.Data
		}
		if data != "" {
			body, err := decodeBase64URL(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode body of message %s: %w", id, err)
			}
			msg.Body = body
		}
	}
	return msg, nil
}

// htmlPartData walks the MIME tree for the first text/html part, falling
// back to text/plain.
func htmlPartData(payload *gmail.MessagePart) string {
	var plain string
	var walk func(p *gmail.MessagePart) string
	walk = func(p *gmail.MessagePart) string {
		if p.MimeType == "text/html" && p.Body != nil && p.Body.Data != "" {
			return p.Body.Data
		}
		if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" && plain == "" {
			plain = p.Body.Data
		}
		for _, child := range p.Parts {
			if found := walk(child); found != "" {
				return found
			}
		}
		return ""
	}
	if found := walk(payload); found != "" {
		return found
	}
	return plain
}

func decodeBase64URL(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		// Some senders pad their payloads.
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}

// MarkRead removes the UNREAD label from a message.
func (g *GmailService) MarkRead(ctx context.Context, id string) error {
	req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{"UNREAD"}}
	if _, err := g.svc.Users.Messages.Modify(gmailUser, id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return nil
}

var _ Service = (*GmailService)(nil)
