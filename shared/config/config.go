package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Library    LibraryConfig    `yaml:"library"`
	Storage    StorageConfig    `yaml:"storage"`
	Sync       SyncConfig       `yaml:"sync"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Email      EmailConfig      `yaml:"email"`
	Schedule   string           `yaml:"schedule"`
}

type YouTubeConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	// Endpoint overrides the Google API base URL.
	Endpoint string `yaml:"endpoint"`
}

type LibraryConfig struct {
	MaxResults int64 `yaml:"max_results"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path" env:"TUBESHELF_DATA_DIR"`
}

type SyncConfig struct {
	PageDelay         time.Duration `yaml:"page_delay"`
	ChannelDelay      time.Duration `yaml:"channel_delay"`
	Pacing            string        `yaml:"pacing"`
	AutoSubscriptions bool          `yaml:"auto_subscriptions"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

// EmailConfig configures the new-uploads digest sent after scheduled runs.
type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether enough is configured to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.ToEmail != ""
}

const (
	PacingFixed       = "fixed"
	PacingTokenBucket = "token_bucket"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads .env, the YAML config file (CONFIG_FILE, default tubeshelf.yaml)
// and environment variables. The config file is optional.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "tubeshelf.yaml"
	}
	return LoadFile(configFile)
}

// LoadFile is Load with an explicit config path.
func LoadFile(configFile string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Env and defaults only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = os.Getenv("TUBESHELF_DATA_DIR")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if v := os.Getenv("TUBESHELF_MAX_RESULTS"); v != "" && c.Library.MaxResults == 0 {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Library.MaxResults = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Library.MaxResults == 0 {
		c.Library.MaxResults = 10
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data"
	}
	if c.Sync.PageDelay == 0 {
		c.Sync.PageDelay = 100 * time.Millisecond
	}
	if c.Sync.ChannelDelay == 0 {
		c.Sync.ChannelDelay = 200 * time.Millisecond
	}
	if c.Sync.Pacing == "" {
		c.Sync.Pacing = PacingFixed
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.Username
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 */6 * * *" // Every 6 hours
	}
}

func (c *Config) validate() error {
	if c.Library.MaxResults < 0 || c.Library.MaxResults > 50 {
		return fmt.Errorf("library.max_results must be between 0 and 50, got %d", c.Library.MaxResults)
	}
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend must be file, sqlite or memory, got %q", c.Storage.Backend)
	}
	if c.Sync.PageDelay < 0 || c.Sync.ChannelDelay < 0 {
		return fmt.Errorf("sync delays must not be negative")
	}
	if c.Sync.Pacing != PacingFixed && c.Sync.Pacing != PacingTokenBucket {
		return fmt.Errorf("sync.pacing must be %q or %q, got %q", PacingFixed, PacingTokenBucket, c.Sync.Pacing)
	}
	if c.Monitoring.HealthPort < 0 || c.Monitoring.HealthPort > 65535 {
		return fmt.Errorf("monitoring.health_port out of range: %d", c.Monitoring.HealthPort)
	}
	if c.Email.SMTPPort < 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("email.smtp_port out of range: %d", c.Email.SMTPPort)
	}
	return nil
}
