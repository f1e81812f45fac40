// File: internal/config/config.go
package config

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

var current atomic.Pointer[Config]

// Set stores the active configuration. Called once at startup after the
// config has been loaded and validated.
func Set(cfg *Config) {
	current.Store(cfg)
}

// Get returns the active configuration, falling back to defaults when
// nothing has been loaded.
func Get() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	return NewDefaultConfig()
}

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Target     TargetConfig     `mapstructure:"target" yaml:"target"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Mailbox    MailboxConfig    `mapstructure:"mailbox" yaml:"mailbox"`
	Secrets    SecretsConfig    `mapstructure:"secrets" yaml:"secrets"`
	Account    AccountConfig    `mapstructure:"account" yaml:"account"`
	Activation ActivationConfig `mapstructure:"activation" yaml:"activation"`
}

// LoggerConfig controls zap logger construction.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to console colors.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// TargetConfig identifies the application under test.
type TargetConfig struct {
	LoginURL  string `mapstructure:"login_url" yaml:"login_url"`
	SignupURL string `mapstructure:"signup_url" yaml:"signup_url"`
}

// BrowserConfig controls the chromedp session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	SelectorTimeout   time.Duration `mapstructure:"selector_timeout" yaml:"selector_timeout"`
	ScreenshotDir     string        `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
}

// MailboxConfig controls mailbox polling for activation mail.
type MailboxConfig struct {
	Sender          string        `mapstructure:"sender" yaml:"sender"`
	Subject         string        `mapstructure:"subject" yaml:"subject"`
	SearchTimeout   time.Duration `mapstructure:"search_timeout" yaml:"search_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxResults      int64         `mapstructure:"max_results" yaml:"max_results"`
	AllowUnfiltered bool          `mapstructure:"allow_unfiltered" yaml:"allow_unfiltered"`
	CredentialsFile string        `mapstructure:"credentials_file" yaml:"credentials_file"`
	TokenFile       string        `mapstructure:"token_file" yaml:"token_file"`
}

// SecretsConfig locates the TOTP secret store.
type SecretsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AccountConfig shapes generated test accounts.
type AccountConfig struct {
	EmailBase   string `mapstructure:"email_base" yaml:"email_base"`
	EmailDomain string `mapstructure:"email_domain" yaml:"email_domain"`
	Password    string `mapstructure:"password" yaml:"password"`
}

// ActivationConfig bounds the activation flow.
type ActivationConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "authproof-cli")
	v.SetDefault("logger.log_file", "authproof.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Target --
	v.SetDefault("target.login_url", "https://app.ninjarmm.com/auth/#/login")
	v.SetDefault("target.signup_url", "https://app.ninjarmm.com/auth/#/signup")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.selector_timeout", "5s")
	v.SetDefault("browser.screenshot_dir", "screenshots")

	// -- Mailbox --
	v.SetDefault("mailbox.sender", "noreply@ninjaone.com")
	v.SetDefault("mailbox.subject", "Activate your NinjaOne Account")
	v.SetDefault("mailbox.search_timeout", "60s")
	v.SetDefault("mailbox.poll_interval", "5s")
	v.SetDefault("mailbox.max_results", 10)
	v.SetDefault("mailbox.allow_unfiltered", false)
	v.SetDefault("mailbox.credentials_file", "credentials.json")
	v.SetDefault("mailbox.token_file", "token.json")

	// -- Secrets --
	v.SetDefault("secrets.file", "mfa_secrets.json")

	// -- Account --
	v.SetDefault("account.email_base", "ninja.one.test01")
	v.SetDefault("account.email_domain", "gmail.com")
	v.SetDefault("account.password", "Test1234!")

	// -- Activation --
	v.SetDefault("activation.timeout", "120s")
}

// NewDefaultConfig creates a configuration populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults, but fail loudly rather than run
		// with a half-populated config.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate rejects configurations the core cannot run with.
func (c *Config) Validate() error {
	if c.Target.LoginURL == "" {
		return fmt.Errorf("target.login_url must be set")
	}
	if c.Mailbox.PollInterval <= 0 {
		return fmt.Errorf("mailbox.poll_interval must be positive, got %s", c.Mailbox.PollInterval)
	}
	if c.Mailbox.SearchTimeout < c.Mailbox.PollInterval {
		return fmt.Errorf("mailbox.search_timeout (%s) must be at least one poll interval (%s)",
			c.Mailbox.SearchTimeout, c.Mailbox.PollInterval)
	}
	if c.Browser.SelectorTimeout <= 0 {
		return fmt.Errorf("browser.selector_timeout must be positive, got %s", c.Browser.SelectorTimeout)
	}
	if c.Secrets.File == "" {
		return fmt.Errorf("secrets.file must be set")
	}
	return nil
}
