// -- cmd/signup.go --
package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/config"
	"github.com/kestrelqa/authproof-cli/internal/observability"
)

// newSignupCmd creates the `signup` scenario command: sign up a generated
// account, then follow the activation mail to a confirmed activation.
func newSignupCmd() *cobra.Command {
	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Signs up a fresh test account and activates it via the mailed link",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			runID := uuid.New().String()
			result := schemas.ScenarioResult{
				RunID:     runID,
				Scenario:  "signup",
				StartedAt: time.Now(),
			}

			components, err := initializeScenarioComponents(ctx, cfg, logger, true)
			if err != nil {
				return fmt.Errorf("failed to initialize scenario components: %w", err)
			}
			defer components.Shutdown()

			account := components.Generator.Account()
			if email := viper.GetString("email"); email != "" {
				account.Email = email
			}
			result.Email = account.Email

			logger.Info("Starting signup scenario",
				zap.String("run_id", runID),
				zap.String("email", account.Email))

			scenarioErr := runSignupScenario(cmd, components, account)
			result.Elapsed = time.Since(result.StartedAt)
			if scenarioErr != nil {
				result.Error = scenarioErr.Error()
			} else {
				result.Passed = true
			}

			if err := reportScenario(result, viper.GetString("output")); err != nil {
				logger.Warn("Could not write scenario summary", zap.Error(err))
			}
			return scenarioErr
		},
	}

	signupCmd.Flags().String("email", "", "Use this address instead of a generated one.")
	signupCmd.Flags().StringP("output", "o", "", "File path for the JSON scenario summary. If unset, none is written.")

	return signupCmd
}

func runSignupScenario(cmd *cobra.Command, components *scenarioComponents, account schemas.Account) error {
	ctx := cmd.Context()

	if err := components.Flow.Signup(ctx, account); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	if err := components.Activator.Activate(ctx, account.Email); err != nil {
		return fmt.Errorf("activation failed: %w", err)
	}
	return nil
}
