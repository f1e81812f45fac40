// internal/authflow/signup.go
package authflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/selector"
)

// Signup fills and submits the signup form for a generated account, then
// waits for the "check your email" notice. Mechanical page interaction;
// the interesting part (the activation mail) is handled elsewhere.
func (f *Flow) Signup(ctx context.Context, account schemas.Account) error {
	log := f.logger.With(zap.String("email", account.Email))
	log.Info("Submitting signup form.")

	if err := f.driver.Navigate(ctx, f.cfg.Target.SignupURL); err != nil {
		return err
	}

	fields := []struct {
		set   selector.CandidateSet
		value string
	}{
		{selector.OrganizationInput, account.Organization},
		{selector.FirstNameInput, account.FirstName},
		{selector.LastNameInput, account.LastName},
		{selector.EmailInput, account.Email},
		{selector.PasswordInput, account.Password},
		{selector.PasswordConfirmInput, account.Password},
		{selector.PhoneInput, account.Phone},
	}

	for _, field := range fields {
		sel, err := f.resolver.Resolve(ctx, field.set)
		if err != nil {
			f.snapshot(ctx, "signup-missing-field")
			return err
		}
		if err := f.driver.Fill(ctx, sel, field.value); err != nil {
			return err
		}
	}

	buttonSel, err := f.resolver.Resolve(ctx, selector.SignupSubmitButton)
	if err != nil {
		return err
	}
	if err := f.driver.Click(ctx, buttonSel); err != nil {
		return err
	}

	log.Info("Signup form submitted.")
	return nil
}
