// internal/mailbox/poller.go
package mailbox

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kestrelqa/authproof-cli/internal/config"
)

// Poller repeatedly queries the mailbox collaborator until a message
// yields a link or the overall timeout elapses. Mail delivery latency is
// unbounded and external, so a paced poll with a ceiling is the only
// coordination available.
//
// Repeated calls for the same recipient may return the same link; the
// poller never marks messages consumed. Callers that want consume-once
// semantics call MarkRead with the returned message ID.
type Poller struct {
	svc     Service
	cfg     config.MailboxConfig
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewPoller creates a poller paced at one mailbox query per poll interval.
func NewPoller(svc Service, cfg config.MailboxConfig, logger *zap.Logger) *Poller {
	return &Poller{
		svc:     svc,
		cfg:     cfg,
		logger:  logger.Named("mailbox_poller"),
		limiter: rate.NewLimiter(rate.Every(cfg.PollInterval), 1),
	}
}

// FoundLink pairs an extracted link with the message it came from.
type FoundLink struct {
	URL       string
	MessageID string
}

// FindLink polls for a message to the recipient and extracts the first
// link matching the patterns. It fails with *EmailNotFoundError once
// elapsed time reaches the timeout; the failure happens at the first loop
// check after the timeout, so at most one poll interval late.
func (p *Poller) FindLink(ctx context.Context, recipient string, patterns []*regexp.Regexp, timeout time.Duration) (*FoundLink, error) {
	if len(patterns) == 0 {
		patterns = DefaultLinkPatterns
	}

	log := p.logger.With(zap.String("recipient", recipient))
	start := time.Now()

	for {
		// The limiter is full at start, so the first attempt is immediate.
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		found, err := p.attempt(ctx, recipient, patterns)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transient mailbox errors do not abort the poll; the
			// timeout is the only exit.
			log.Warn("Poll attempt failed.", zap.Error(err))
		}
		if found != nil {
			log.Info("Link found.", zap.Duration("elapsed", time.Since(start)),
				zap.String("message_id", found.MessageID))
			return found, nil
		}

		if elapsed := time.Since(start); elapsed >= timeout {
			log.Warn("Mailbox polling exhausted.", zap.Duration("elapsed", elapsed))
			return nil, &EmailNotFoundError{Recipient: recipient, Elapsed: elapsed}
		}
	}
}

// attempt runs one filtered query, optionally falling back to an
// unfiltered grab of the most recent message. The unfiltered variant is
// fragile in a shared inbox and only runs when explicitly allowed.
func (p *Poller) attempt(ctx context.Context, recipient string, patterns []*regexp.Regexp) (*FoundLink, error) {
	q := Query{
		Recipient:  recipient,
		Sender:     p.cfg.Sender,
		Subject:    p.cfg.Subject,
		Unread:     true,
		MaxResults: p.cfg.MaxResults,
	}

	summaries, err := p.svc.ListRecent(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(summaries) == 0 && p.cfg.AllowUnfiltered {
		summaries, err = p.svc.ListRecent(ctx, Query{MaxResults: p.cfg.MaxResults})
		if err != nil {
			return nil, err
		}
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	msg, err := p.svc.GetMessage(ctx, summaries[0].ID)
	if err != nil {
		return nil, err
	}

	if link, ok := ExtractLink(msg.Body, patterns); ok {
		return &FoundLink{URL: link, MessageID: msg.ID}, nil
	}
	p.logger.Debug("Message matched query but contained no link.",
		zap.String("message_id", msg.ID), zap.String("subject", msg.Subject))
	return nil, nil
}

// MarkRead exposes the collaborator's explicit mark-as-read primitive.
func (p *Poller) MarkRead(ctx context.Context, id string) error {
	return p.svc.MarkRead(ctx, id)
}
