// internal/activation/activation.go

// Package activation completes the email half of signup: poll the inbox
// for the activation mail, follow its link, and confirm the target
// actually acknowledged the activation.
package activation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/config"
	"github.com/kestrelqa/authproof-cli/internal/mailbox"
	"github.com/kestrelqa/authproof-cli/internal/selector"
)

// NotConfirmedError reports that the activation link was visited but the
// page showed no recognizable success signal.
type NotConfirmedError struct {
	Email string
	URL   string
}

func (e *NotConfirmedError) Error() string {
	return fmt.Sprintf("activation not confirmed for %s: no success signal at %s", e.Email, e.URL)
}

// Activator follows activation links from the mailbox into the browser.
type Activator struct {
	driver   schemas.Driver
	resolver *selector.Resolver
	poller   *mailbox.Poller
	cfg      *config.Config
	logger   *zap.Logger
}

// NewActivator wires the activation flow to its collaborators.
func NewActivator(driver schemas.Driver, resolver *selector.Resolver, poller *mailbox.Poller, cfg *config.Config, logger *zap.Logger) *Activator {
	return &Activator{
		driver:   driver,
		resolver: resolver,
		poller:   poller,
		cfg:      cfg,
		logger:   logger.Named("activation"),
	}
}

// Activate polls the mailbox for the account's activation mail, navigates
// to the extracted link and verifies the success signal. The mail is
// marked read only after a confirmed activation, so a retry of a failed
// run still finds it.
func (a *Activator) Activate(ctx context.Context, email string) error {
	log := a.logger.With(zap.String("email", email))
	start := time.Now()

	if a.cfg.Activation.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Activation.Timeout)
		defer cancel()
	}

	found, err := a.poller.FindLink(ctx, email, nil, a.cfg.Mailbox.SearchTimeout)
	if err != nil {
		return err
	}
	log.Info("Activation link extracted.", zap.String("url", found.URL))

	if err := a.driver.Navigate(ctx, found.URL); err != nil {
		return err
	}

	if err := a.confirm(ctx, email); err != nil {
		return err
	}

	if err := a.poller.MarkRead(ctx, found.MessageID); err != nil {
		// Leaving the message unread only costs a redundant match on the
		// next poll.
		log.Warn("Could not mark activation mail read.", zap.Error(err))
	}

	log.Info("Account activated.", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// confirm accepts a dedicated success element, a straight-to-dashboard
// landing (some link variants sign the account in directly), or the known
// success phrasings in the page body.
func (a *Activator) confirm(ctx context.Context, email string) error {
	if target, _, err := a.resolver.ResolveAny(ctx, selector.ActivationSuccess, selector.DashboardLandmark); err == nil {
		a.logger.Debug("Activation confirmed by element.", zap.String("target", target))
		return nil
	}
	if text, ok := a.resolver.ContainsAny(ctx, selector.ActivationSignalTexts); ok {
		a.logger.Debug("Activation confirmed by body text.", zap.String("signal", text))
		return nil
	}

	url, _ := a.driver.CurrentURL(ctx)
	if path, err := a.driver.Screenshot(ctx, "activation-not-confirmed"); err == nil {
		a.logger.Info("Failure screenshot captured.", zap.String("path", path))
	}
	return &NotConfirmedError{Email: email, URL: url}
}
