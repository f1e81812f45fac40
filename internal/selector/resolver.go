// internal/selector/resolver.go

// Package selector resolves logical UI targets against ranked lists of
// locator candidates. The target application's markup shifts between
// releases, so resilience comes from redundancy across candidates rather
// than from retrying a single locator.
package selector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
)

// CandidateSet is an ordered list of locator expressions for one logical
// UI target. Ordering encodes "most specific first"; static configuration,
// never mutated at runtime.
type CandidateSet struct {
	Target     string
	Candidates []string
}

// NoMatchError reports that no candidate in a set resolved. It carries the
// full candidate list because the usual cause is UI drift, and the list is
// what needs updating.
type NoMatchError struct {
	Target     string
	Candidates []string
	Timeout    time.Duration
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no selector matched for target %q within %s per candidate (tried: %s)",
		e.Target, e.Timeout, strings.Join(e.Candidates, ", "))
}

// Resolver finds the first matching, visible element for a candidate set.
type Resolver struct {
	driver  schemas.Driver
	logger  *zap.Logger
	timeout time.Duration
}

// NewResolver creates a resolver with a bounded wait per candidate.
func NewResolver(driver schemas.Driver, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		driver:  driver,
		logger:  logger.Named("selector"),
		timeout: timeout,
	}
}

// Resolve tries each candidate in order with an individual bounded wait and
// returns the first selector whose element became visible. It fails with
// *NoMatchError only after every candidate has timed out individually.
func (r *Resolver) Resolve(ctx context.Context, set CandidateSet) (string, error) {
	for _, candidate := range set.Candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := r.driver.WaitVisible(ctx, candidate, r.timeout); err != nil {
			r.logger.Debug("Candidate did not resolve.",
				zap.String("target", set.Target),
				zap.String("candidate", candidate))
			continue
		}

		r.logger.Debug("Candidate resolved.",
			zap.String("target", set.Target),
			zap.String("candidate", candidate))
		return candidate, nil
	}

	return "", &NoMatchError{
		Target:     set.Target,
		Candidates: set.Candidates,
		Timeout:    r.timeout,
	}
}

// ContainsAny reports whether the page body currently contains any of the
// given signal texts, returning the first one found. Used for states that
// have no stable markup to anchor a selector on.
func (r *Resolver) ContainsAny(ctx context.Context, texts []string) (string, bool) {
	body, err := r.driver.Text(ctx, "body")
	if err != nil {
		r.logger.Debug("Body text probe failed.", zap.Error(err))
		return "", false
	}
	for _, t := range texts {
		if strings.Contains(body, t) {
			return t, true
		}
	}
	return "", false
}

// ResolveAny tries several candidate sets in order and returns the first
// selector that resolves, along with the target name of the set it came
// from. Used where flows accept more than one success signal.
func (r *Resolver) ResolveAny(ctx context.Context, sets ...CandidateSet) (target, sel string, err error) {
	var lastErr error
	for _, set := range sets {
		s, rerr := r.Resolve(ctx, set)
		if rerr == nil {
			return set.Target, s, nil
		}
		lastErr = rerr
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
	}
	return "", "", lastErr
}
