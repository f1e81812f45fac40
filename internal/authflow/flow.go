// internal/authflow/flow.go

// Package authflow drives the login and MFA paths of the target UI to a
// terminal authenticated state. Classification of the post-login state is
// signal based, never path based: every check recomputes the state from
// what the page shows right now.
package authflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/config"
	"github.com/kestrelqa/authproof-cli/internal/secrets"
	"github.com/kestrelqa/authproof-cli/internal/selector"
)

// totpWindow is the standard TOTP step. Enrollment needs two codes from
// two different windows, so the flow waits this long between generations.
const totpWindow = 30 * time.Second

// storageClearer is implemented by drivers that can wipe origin storage.
// The login flow uses it opportunistically for a clean slate.
type storageClearer interface {
	ClearStorage(ctx context.Context) error
}

// Flow drives login, MFA enrollment and MFA challenge.
type Flow struct {
	driver   schemas.Driver
	resolver *selector.Resolver
	store    *secrets.Store
	cfg      *config.Config
	logger   *zap.Logger

	// Injection points for the wall-clock ordering the enrollment flow
	// depends on. Tests swap these; production uses real time.
	now        func() time.Time
	waitWindow func(ctx context.Context) error
}

// NewFlow wires the state machine to its collaborators.
func NewFlow(driver schemas.Driver, resolver *selector.Resolver, store *secrets.Store, cfg *config.Config, logger *zap.Logger) *Flow {
	return &Flow{
		driver:   driver,
		resolver: resolver,
		store:    store,
		cfg:      cfg,
		logger:   logger.Named("authflow"),
		now:      time.Now,
		waitWindow: func(ctx context.Context) error {
			t := time.NewTimer(totpWindow)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		},
	}
}

// Login navigates to the login page and submits credentials. It does not
// interpret the outcome; call Classify afterwards.
func (f *Flow) Login(ctx context.Context, account schemas.Account) error {
	log := f.logger.With(zap.String("email", account.Email))
	log.Info("Logging in.")

	if err := f.driver.Navigate(ctx, f.cfg.Target.LoginURL); err != nil {
		return err
	}
	if clearer, ok := f.driver.(storageClearer); ok {
		if err := clearer.ClearStorage(ctx); err != nil {
			log.Debug("Storage clear failed.", zap.Error(err))
		}
	}

	emailSel, err := f.resolver.Resolve(ctx, selector.EmailInput)
	if err != nil {
		f.snapshot(ctx, "login-no-email-input")
		return err
	}
	if err := f.driver.Fill(ctx, emailSel, account.Email); err != nil {
		return err
	}

	passwordSel, err := f.resolver.Resolve(ctx, selector.PasswordInput)
	if err != nil {
		f.snapshot(ctx, "login-no-password-input")
		return err
	}
	if err := f.driver.Fill(ctx, passwordSel, account.Password); err != nil {
		return err
	}

	buttonSel, err := f.resolver.Resolve(ctx, selector.LoginButton)
	if err != nil {
		f.snapshot(ctx, "login-no-submit")
		return err
	}
	return f.driver.Click(ctx, buttonSel)
}

// Classify derives the current AuthState from page signals. The first
// positive signal wins, probed in this order: enrollment instructional
// text, challenge code inputs, authenticated-area landmark, login form.
// If nothing matches within the bounded per-probe waits, it reports
// *AmbiguousStateError instead of guessing.
func (f *Flow) Classify(ctx context.Context) (schemas.AuthState, error) {
	start := f.now()
	checked := []string{"enrollment text", "challenge inputs", "authenticated landmark", "login form"}

	if text, ok := f.resolver.ContainsAny(ctx, selector.EnrollmentSignalTexts); ok {
		f.logger.Debug("Classified by enrollment text.", zap.String("signal", text))
		return schemas.StateMFAEnrollment, nil
	}

	if _, err := f.resolver.Resolve(ctx, selector.ChallengeSignal); err == nil {
		return schemas.StateMFAChallenge, nil
	}

	if f.isAuthenticated(ctx) {
		return schemas.StateAuthenticated, nil
	}

	if _, err := f.resolver.Resolve(ctx, selector.LoginForm); err == nil {
		return schemas.StateLoginForm, nil
	}

	url, _ := f.driver.CurrentURL(ctx)
	f.snapshot(ctx, "ambiguous-state")
	return schemas.StateUnknown, &AmbiguousStateError{
		URL:     url,
		Waited:  f.now().Sub(start),
		Checked: checked,
	}
}

// isAuthenticated checks the URL fragments and dashboard landmarks that
// mark the authenticated area.
func (f *Flow) isAuthenticated(ctx context.Context) bool {
	if url, err := f.driver.CurrentURL(ctx); err == nil {
		for _, fragment := range selector.URLAuthenticatedFragments {
			if strings.Contains(url, fragment) {
				return true
			}
		}
	}
	_, err := f.resolver.Resolve(ctx, selector.DashboardLandmark)
	return err == nil
}

// Authenticate drives a logged-out browser to the terminal authenticated
// state: login, classify, then enrollment or challenge as the UI demands.
func (f *Flow) Authenticate(ctx context.Context, account schemas.Account) (schemas.AuthState, error) {
	if err := f.Login(ctx, account); err != nil {
		return schemas.StateUnknown, err
	}

	state, err := f.Classify(ctx)
	if err != nil {
		return state, err
	}
	f.logger.Info("Post-login state classified.", zap.String("state", string(state)))

	switch state {
	case schemas.StateAuthenticated:
		return schemas.StateAuthenticated, nil
	case schemas.StateMFAEnrollment:
		if err := f.Enroll(ctx, account.Email); err != nil {
			return state, err
		}
	case schemas.StateMFAChallenge:
		if err := f.Challenge(ctx, account.Email); err != nil {
			return state, err
		}
	default:
		return state, fmt.Errorf("login did not leave the login form (state %s)", state)
	}

	if err := f.ConfirmAuthenticated(ctx); err != nil {
		return schemas.StateUnknown, err
	}
	return schemas.StateAuthenticated, nil
}

// Enroll walks first-time MFA setup: select the authenticator method,
// capture and persist the one-time-visible secret, then prove possession
// with two codes from two different 30 second windows.
func (f *Flow) Enroll(ctx context.Context, email string) error {
	log := f.logger.With(zap.String("email", email))
	log.Info("Starting MFA enrollment.")

	if err := f.selectAuthenticatorMethod(ctx); err != nil {
		f.snapshot(ctx, "enroll-method-select")
		return err
	}

	secret, err := f.captureSecret(ctx)
	if err != nil {
		f.snapshot(ctx, "enroll-secret-capture")
		return err
	}

	// Persist before any code is submitted. The secret is shown exactly
	// once; losing it here would strand this account forever.
	if err := f.store.Save(email, secret); err != nil {
		return err
	}

	firstCode, err := secrets.GenerateCode(secret, f.now())
	if err != nil {
		return err
	}
	if err := f.fillAndSubmit(ctx, selector.TOTPInputPrimary, firstCode); err != nil {
		f.snapshot(ctx, "enroll-first-code")
		return err
	}
	log.Debug("First enrollment code submitted.")

	// The target requires the second code to come from a strictly later
	// window. Real wall-clock ordering, not a politeness delay.
	if err := f.waitWindow(ctx); err != nil {
		return err
	}

	secondCode, err := secrets.GenerateCode(secret, f.now())
	if err != nil {
		return err
	}
	if secondCode == firstCode {
		return &EnrollmentWindowError{Code: secondCode}
	}
	if err := f.fillAndSubmit(ctx, selector.TOTPInputSecondary, secondCode); err != nil {
		f.snapshot(ctx, "enroll-second-code")
		return err
	}
	log.Info("MFA enrollment codes submitted.")
	return nil
}

// Challenge answers a returning-user MFA prompt: exactly one secret
// lookup, one code generation, one submission.
func (f *Flow) Challenge(ctx context.Context, email string) error {
	log := f.logger.With(zap.String("email", email))
	log.Info("Answering MFA challenge.")

	secret, ok, err := f.store.Get(email)
	if err != nil {
		return err
	}
	if !ok {
		f.snapshot(ctx, "challenge-missing-enrollment")
		return &MissingEnrollmentError{Email: email}
	}

	code, err := secrets.GenerateCode(secret, f.now())
	if err != nil {
		return err
	}

	inputSel, err := f.resolver.Resolve(ctx, selector.ChallengeCodeInput)
	if err != nil {
		f.snapshot(ctx, "challenge-no-input")
		return err
	}
	if err := f.driver.Fill(ctx, inputSel, code); err != nil {
		return err
	}

	buttonSel, err := f.resolver.Resolve(ctx, selector.VerifyButton)
	if err != nil {
		return err
	}
	return f.driver.Click(ctx, buttonSel)
}

// ConfirmAuthenticated verifies the terminal state was actually reached.
func (f *Flow) ConfirmAuthenticated(ctx context.Context) error {
	if f.isAuthenticated(ctx) {
		f.logger.Info("Authenticated state confirmed.")
		return nil
	}

	url, _ := f.driver.CurrentURL(ctx)
	f.snapshot(ctx, "authenticated-not-confirmed")
	state, err := f.Classify(ctx)
	if err != nil {
		return err
	}
	return fmt.Errorf("expected authenticated state but page at %s classified as %s", url, state)
}

// Logout opens the user menu and clicks through to logout. Best effort:
// session teardown closes the browser anyway, so a missing menu is an
// error for the caller to log, not a scenario failure.
func (f *Flow) Logout(ctx context.Context) error {
	menuSel, err := f.resolver.Resolve(ctx, selector.UserMenu)
	if err != nil {
		return err
	}
	if err := f.driver.Click(ctx, menuSel); err != nil {
		return err
	}

	logoutSel, err := f.resolver.Resolve(ctx, selector.LogoutButton)
	if err != nil {
		return err
	}
	if err := f.driver.Click(ctx, logoutSel); err != nil {
		return err
	}
	f.logger.Info("Logged out.")
	return nil
}

func (f *Flow) selectAuthenticatorMethod(ctx context.Context) error {
	dropdownSel, err := f.resolver.Resolve(ctx, selector.MFAMethodDropdown)
	if err != nil {
		return err
	}
	if err := f.driver.Click(ctx, dropdownSel); err != nil {
		return err
	}

	optionSel, err := f.resolver.Resolve(ctx, selector.MFAOptionAuthenticator)
	if err != nil {
		return err
	}
	return f.driver.Click(ctx, optionSel)
}

func (f *Flow) captureSecret(ctx context.Context) (string, error) {
	secretSel, err := f.resolver.Resolve(ctx, selector.EnrollmentSecret)
	if err != nil {
		return "", err
	}
	raw, err := f.driver.Text(ctx, secretSel)
	if err != nil {
		return "", err
	}
	return secrets.NormalizeSecret(raw)
}

func (f *Flow) fillAndSubmit(ctx context.Context, input selector.CandidateSet, code string) error {
	inputSel, err := f.resolver.Resolve(ctx, input)
	if err != nil {
		return err
	}
	if err := f.driver.Fill(ctx, inputSel, code); err != nil {
		return err
	}
	buttonSel, err := f.resolver.Resolve(ctx, selector.VerifyButton)
	if err != nil {
		return err
	}
	return f.driver.Click(ctx, buttonSel)
}

// snapshot captures a diagnostic screenshot on a failure path. Capture
// failures are logged and swallowed so they never mask the real error.
func (f *Flow) snapshot(ctx context.Context, name string) {
	path, err := f.driver.Screenshot(ctx, name)
	if err != nil {
		f.logger.Debug("Screenshot capture failed.", zap.String("name", name), zap.Error(err))
		return
	}
	f.logger.Info("Failure screenshot captured.", zap.String("path", path))
}
