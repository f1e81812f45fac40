// -- cmd/scenario.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/activation"
	"github.com/kestrelqa/authproof-cli/internal/authflow"
	"github.com/kestrelqa/authproof-cli/internal/browser"
	"github.com/kestrelqa/authproof-cli/internal/config"
	"github.com/kestrelqa/authproof-cli/internal/mailbox"
	"github.com/kestrelqa/authproof-cli/internal/observability"
	"github.com/kestrelqa/authproof-cli/internal/secrets"
	"github.com/kestrelqa/authproof-cli/internal/selector"
)

// scenarioComponents holds the initialized collaborators for one scenario
// run: one browser session, one secret store, one flow around them.
type scenarioComponents struct {
	Manager   *browser.Manager
	Session   *browser.Session
	Resolver  *selector.Resolver
	Store     *secrets.Store
	Flow      *authflow.Flow
	Generator *authflow.Generator

	// Mailbox wiring, only built when the scenario needs activation mail.
	Poller    *mailbox.Poller
	Activator *activation.Activator
}

// Shutdown gracefully closes all components.
func (sc *scenarioComponents) Shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sc.Session != nil {
		if err := sc.Session.Close(shutdownCtx); err != nil {
			observability.GetLogger().Warn("Error during session close", zap.Error(err))
		}
	}
	if sc.Manager != nil {
		sc.Manager.Shutdown(shutdownCtx)
	}
}

// initializeScenarioComponents handles dependency injection for the
// scenario commands.
func initializeScenarioComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, withMailbox bool) (*scenarioComponents, error) {
	components := &scenarioComponents{
		Manager:   browser.NewManager(cfg.Browser, logger),
		Store:     secrets.NewStore(cfg.Secrets.File, logger),
		Generator: authflow.NewGenerator(cfg.Account),
	}

	session, err := components.Manager.NewSession(ctx)
	if err != nil {
		components.Shutdown()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	components.Session = session

	components.Resolver = selector.NewResolver(session, cfg.Browser.SelectorTimeout, logger)
	components.Flow = authflow.NewFlow(session, components.Resolver, components.Store, cfg, logger)

	if withMailbox {
		ts, err := mailbox.NewTokenSourceFromFiles(ctx, cfg.Mailbox.CredentialsFile, cfg.Mailbox.TokenFile)
		if err != nil {
			components.Shutdown()
			return nil, err
		}
		svc, err := mailbox.NewGmailService(ctx, ts, logger)
		if err != nil {
			components.Shutdown()
			return nil, err
		}
		components.Poller = mailbox.NewPoller(svc, cfg.Mailbox, logger)
		components.Activator = activation.NewActivator(session, components.Resolver, components.Poller, cfg, logger)
	}

	return components, nil
}

// reportScenario logs the outcome and optionally writes the JSON summary.
func reportScenario(result schemas.ScenarioResult, outputPath string) error {
	logger := observability.GetLogger()
	fields := []zap.Field{
		zap.String("run_id", result.RunID),
		zap.String("scenario", result.Scenario),
		zap.String("email", result.Email),
		zap.Duration("elapsed", result.Elapsed),
	}
	if result.Passed {
		logger.Info("Scenario passed.", fields...)
	} else {
		logger.Error("Scenario failed.", append(fields, zap.String("error", result.Error))...)
	}

	if outputPath == "" {
		return nil
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize scenario summary: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenario summary: %w", err)
	}
	logger.Info("Scenario summary written.", zap.String("path", outputPath))
	return nil
}
