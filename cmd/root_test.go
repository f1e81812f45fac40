package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// zap's lumberjack file core keeps a background goroutine alive
		// for the lifetime of the process once initialized.
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

func resetGlobals(t *testing.T) {
	t.Helper()
	viper.Reset()
	observability.ResetForTest()
	t.Cleanup(func() {
		viper.Reset()
		observability.ResetForTest()
	})
}

func TestNewRootCommandHasScenarioSubcommands(t *testing.T) {
	resetGlobals(t)
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["signup"])
	assert.True(t, names["login"])
}

func TestInitializeConfigAppliesDefaults(t *testing.T) {
	resetGlobals(t)
	require.NoError(t, initializeConfig(""))

	assert.Equal(t, "https://app.ninjarmm.com/auth/#/login", viper.GetString("target.login_url"))
	assert.Equal(t, 5*time.Second, viper.GetDuration("mailbox.poll_interval"))
	assert.Equal(t, "mfa_secrets.json", viper.GetString("secrets.file"))
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	resetGlobals(t)
	t.Setenv("AUTHPROOF_TARGET_LOGIN_URL", "https://staging.example.com/login")
	t.Setenv("AUTHPROOF_MAILBOX_SENDER", "noreply@staging.example.com")

	require.NoError(t, initializeConfig(""))

	assert.Equal(t, "https://staging.example.com/login", viper.GetString("target.login_url"))
	assert.Equal(t, "noreply@staging.example.com", viper.GetString("mailbox.sender"))
}

func TestInitializeConfigMissingFileIsFatal(t *testing.T) {
	resetGlobals(t)
	err := initializeConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "an explicitly named config file must exist")
}

func TestReportScenarioWritesSummary(t *testing.T) {
	resetGlobals(t)
	out := filepath.Join(t.TempDir(), "summary.json")

	result := schemas.ScenarioResult{
		RunID:      "run-1",
		Scenario:   "login",
		Email:      "user@gmail.com",
		Passed:     true,
		FinalState: schemas.StateAuthenticated,
		StartedAt:  time.Now(),
		Elapsed:    3 * time.Second,
	}
	require.NoError(t, reportScenario(result, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded schemas.ScenarioResult
	require.NoError(t, jsoniter.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, schemas.StateAuthenticated, decoded.FinalState)
	assert.True(t, decoded.Passed)
}

func TestReportScenarioNoOutputPath(t *testing.T) {
	resetGlobals(t)
	assert.NoError(t, reportScenario(schemas.ScenarioResult{RunID: "run-2", Scenario: "signup"}, ""))
}
