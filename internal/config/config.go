package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"TNSBot/internal/domain"
)

const (
	configPathEnv   = "TNS_BOT_CONFIG"
	logLevelEnv     = "TNS_BOT_LOG_LEVEL"
	tnsBotIDEnv     = "TNS_BOT_ID"
	tnsBotNameEnv   = "TNS_BOT_NAME"
	tnsAPIKeyEnv    = "TNS_API_KEY"
	slackTokenEnv   = "TNS_SLACK_BOT_TOKEN"
	defaultSnapshot = "tns_public_objects.csv"
)

// Config holds every setting of a run. It is built once at startup and
// passed down by value.
type Config struct {
	TNS        TNSConfig        `yaml:"tns"`
	Astronotes AstronotesConfig `yaml:"astronotes"`
	Slack      SlackConfig      `yaml:"slack"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Interest   []string         `yaml:"interest"`

	// DryRun prints the report instead of posting it. Set from the command line only.
	DryRun bool `yaml:"-"`
}

// TNSConfig describes the catalog export and the bot identity used to fetch it.
type TNSConfig struct {
	BaseURL      string  `yaml:"baseUrl"`
	BotID        string  `yaml:"botId"`
	BotName      string  `yaml:"botName"`
	APIKey       string  `yaml:"apiKey"`
	SnapshotPath string  `yaml:"snapshotPath"`
	MaxAgeDays   float64 `yaml:"maxAgeDays"`
	// DownloadTimeout bounds the export download, body included.
	DownloadTimeout time.Duration `yaml:"downloadTimeout"`
}

// MaxAge converts the freshness window to a duration.
func (t TNSConfig) MaxAge() time.Duration {
	return time.Duration(t.MaxAgeDays * float64(24*time.Hour))
}

// HasBotIdentity reports whether all credentials needed for the export are set.
func (t TNSConfig) HasBotIdentity() bool {
	return t.BotID != "" && t.BotName != "" && t.APIKey != ""
}

// AstronotesConfig points at the astronote listing and controls detail-page fetching.
type AstronotesConfig struct {
	ListingURL        string  `yaml:"listingUrl"`
	Layout            string  `yaml:"layout"`
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// SlackConfig wires all data required to post messages.
type SlackConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Channel  string `yaml:"channel"`
	Username string `yaml:"username"`
}

// HTTPConfig tunes outbound requests.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig selects the log level and an optional log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ScheduleConfig enables repeat mode; zero runs once.
type ScheduleConfig struct {
	Every time.Duration `yaml:"every"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over TNS_BOT_CONFIG.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate fails fast on settings a run cannot proceed without.
func (c Config) Validate() error {
	if c.Slack.Token == "" {
		return fmt.Errorf("%w: environment variable %s is not set", domain.ErrConfiguration, slackTokenEnv)
	}
	if c.TNS.MaxAgeDays <= 0 {
		return fmt.Errorf("%w: freshness window must be positive, got %v days", domain.ErrConfiguration, c.TNS.MaxAgeDays)
	}
	if c.TNS.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot path is empty", domain.ErrConfiguration)
	}
	if len(c.Interest) == 0 {
		return fmt.Errorf("%w: no classifications of interest configured", domain.ErrConfiguration)
	}
	if c.Schedule.Every < 0 {
		return fmt.Errorf("%w: repeat interval must not be negative, got %s", domain.ErrConfiguration, c.Schedule.Every)
	}
	if c.Slack.Channel == "" {
		return fmt.Errorf("%w: slack channel is empty", domain.ErrConfiguration)
	}
	return nil
}

// InterestSet builds the read-only label set.
func (c Config) InterestSet() domain.InterestSet {
	return domain.NewInterestSet(c.Interest...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(tnsBotIDEnv); v != "" {
		c.TNS.BotID = v
	}
	if v := os.Getenv(tnsBotNameEnv); v != "" {
		c.TNS.BotName = v
	}
	if v := os.Getenv(tnsAPIKeyEnv); v != "" {
		c.TNS.APIKey = v
	}
	if v := os.Getenv(slackTokenEnv); v != "" {
		c.Slack.Token = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.TNS.BaseURL != "" {
		base.TNS.BaseURL = override.TNS.BaseURL
	}
	if override.TNS.BotID != "" {
		base.TNS.BotID = override.TNS.BotID
	}
	if override.TNS.BotName != "" {
		base.TNS.BotName = override.TNS.BotName
	}
	if override.TNS.APIKey != "" {
		base.TNS.APIKey = override.TNS.APIKey
	}
	if override.TNS.SnapshotPath != "" {
		base.TNS.SnapshotPath = override.TNS.SnapshotPath
	}
	if override.TNS.MaxAgeDays != 0 {
		base.TNS.MaxAgeDays = override.TNS.MaxAgeDays
	}
	if override.TNS.DownloadTimeout > 0 {
		base.TNS.DownloadTimeout = override.TNS.DownloadTimeout
	}

	if override.Astronotes.ListingURL != "" {
		base.Astronotes.ListingURL = override.Astronotes.ListingURL
	}
	if override.Astronotes.Layout != "" {
		base.Astronotes.Layout = override.Astronotes.Layout
	}
	if override.Astronotes.Concurrency > 0 {
		base.Astronotes.Concurrency = override.Astronotes.Concurrency
	}
	if override.Astronotes.RequestsPerSecond > 0 {
		base.Astronotes.RequestsPerSecond = override.Astronotes.RequestsPerSecond
	}

	if override.Slack.Endpoint != "" {
		base.Slack.Endpoint = override.Slack.Endpoint
	}
	if override.Slack.Token != "" {
		base.Slack.Token = override.Slack.Token
	}
	if override.Slack.Channel != "" {
		base.Slack.Channel = override.Slack.Channel
	}
	if override.Slack.Username != "" {
		base.Slack.Username = override.Slack.Username
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Schedule.Every > 0 {
		base.Schedule.Every = override.Schedule.Every
	}

	if len(override.Interest) > 0 {
		base.Interest = override.Interest
	}

	return base
}

func defaultConfig() Config {
	return Config{
		TNS: TNSConfig{
			BaseURL:      "https://www.wis-tns.org",
			SnapshotPath:    defaultSnapshot,
			MaxAgeDays:      1,
			DownloadTimeout: 10 * time.Minute,
		},
		Astronotes: AstronotesConfig{
			ListingURL:        "https://www.wis-tns.org/astronotes",
			Layout:            "tns",
			Concurrency:       4,
			RequestsPerSecond: 2,
		},
		Slack: SlackConfig{
			Endpoint: "https://slack.com/api/chat.postMessage",
			Channel:  "alexander-group",
			Username: "TNS TDE Bot",
		},
		HTTP:     HTTPConfig{Timeout: 30 * time.Second},
		Logging:  LoggingConfig{Level: "info"},
		Interest: append([]string(nil), domain.DefaultInterest...),
	}
}

