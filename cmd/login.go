// -- cmd/login.go --
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

// newLoginCmd creates the `login` scenario command: log in with the given
// credentials and drive whatever MFA state the UI presents (first-time
// enrollment or returning-user challenge) to a confirmed authenticated
// state.
func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Logs in an account and completes MFA enrollment or challenge",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			account := schemas.Account{
				Email:    args[0],
				Password: cfg.Account.Password,
			}
			if pw := viper.GetString("password"); pw != "" {
				account.Password = pw
			}

			runID := uuid.New().String()
			result := schemas.ScenarioResult{
				RunID:     runID,
				Scenario:  "login",
				Email:     account.Email,
				StartedAt: time.Now(),
			}

			logger.Info("Starting login scenario",
				zap.String("run_id", runID),
				zap.String("email", account.Email))

			components, err := initializeScenarioComponents(ctx, cfg, logger, false)
			if err != nil {
				return fmt.Errorf("failed to initialize scenario components: %w", err)
			}
			defer components.Shutdown()

			state, scenarioErr := components.Flow.Authenticate(ctx, account)
			result.FinalState = state
			result.Elapsed = time.Since(result.StartedAt)
			if scenarioErr != nil {
				result.Error = scenarioErr.Error()
			} else {
				result.Passed = true
				if err := components.Flow.Logout(ctx); err != nil {
					logger.Debug("Best-effort logout failed", zap.Error(err))
				}
			}

			if err := reportScenario(result, viper.GetString("output")); err != nil {
				logger.Warn("Could not write scenario summary", zap.Error(err))
			}
			if scenarioErr != nil {
				return fmt.Errorf("login scenario failed: %w", scenarioErr)
			}
			return nil
		},
	}

	loginCmd.Flags().String("password", "", "Password for the account. (Overrides config/env)")
	loginCmd.Flags().StringP("output", "o", "", "File path for the JSON scenario summary. If unset, none is written.")

	return loginCmd
}
