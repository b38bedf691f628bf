package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Reddit    RedditConfig    `yaml:"reddit" envconfig:"REDDIT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Alerts    AlertsConfig    `yaml:"alerts" envconfig:"ALERTS"`
	Lexicon   LexiconConfig   `yaml:"lexicon" envconfig:"LEXICON"`
	Prices    PricesConfig    `yaml:"prices" envconfig:"PRICES"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wsbpulse.log"`
}

// DatabaseConfig contains persistence configuration.
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"wsbpulse.db"`
}

// RedditConfig controls the post source client.
type RedditConfig struct {
	Subreddits   []string      `yaml:"subreddits" envconfig:"SUBREDDITS" default:"wallstreetbets,stocks,investing,options,stockmarket,pennystocks"`
	Sort         string        `yaml:"sort" envconfig:"SORT" default:"hot"`
	ScanLimit    int           `yaml:"scan_limit" envconfig:"SCAN_LIMIT" default:"100"`
	MinScore     int           `yaml:"min_score" envconfig:"MIN_SCORE" default:"10"`
	UserAgent    string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"wsbpulse/1.0"`
	RequestDelay time.Duration `yaml:"request_delay" envconfig:"REQUEST_DELAY" default:"2s"`
	ScanInterval time.Duration `yaml:"scan_interval" envconfig:"SCAN_INTERVAL" default:"15m"`
}

// AnalysisConfig controls aggregation and correlation windows.
type AnalysisConfig struct {
	LookbackHours     int           `yaml:"lookback_hours" envconfig:"LOOKBACK_HOURS" default:"24"`
	MinMentionsToRank int           `yaml:"min_mentions_to_rank" envconfig:"MIN_MENTIONS_TO_RANK" default:"2"`
	ContextRadius     int           `yaml:"context_radius" envconfig:"CONTEXT_RADIUS" default:"100"`
	BucketSize        time.Duration `yaml:"bucket_size" envconfig:"BUCKET_SIZE" default:"1h"`
	MinSharedPeriods  int           `yaml:"min_shared_periods" envconfig:"MIN_SHARED_PERIODS" default:"3"`
	MinCooccurrences  int           `yaml:"min_cooccurrences" envconfig:"MIN_COOCCURRENCES" default:"2"`
	RetentionDays     int           `yaml:"retention_days" envconfig:"RETENTION_DAYS" default:"30"`
}

// AlertsConfig contains alert thresholds.
type AlertsConfig struct {
	Enabled               bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	HeatThreshold         float64 `yaml:"heat_threshold" envconfig:"HEAT_THRESHOLD" default:"5.0"`
	MinHeatScore          float64 `yaml:"min_heat_score" envconfig:"MIN_HEAT_SCORE" default:"3.0"`
	SentimentChange       float64 `yaml:"sentiment_change" envconfig:"SENTIMENT_CHANGE" default:"0.3"`
	VolumeSpikeMultiplier float64 `yaml:"volume_spike_multiplier" envconfig:"VOLUME_SPIKE_MULTIPLIER" default:"2.0"`
	MinMentions           int     `yaml:"min_mentions" envconfig:"MIN_MENTIONS" default:"5"`
}

// LexiconConfig points at an optional YAML file of extra lexicon terms.
// The lexicon is loaded once at startup; changes require a restart.
type LexiconConfig struct {
	ExtraTermsFile string `yaml:"extra_terms_file" envconfig:"EXTRA_TERMS_FILE"`
}

// PricesConfig controls the market quote client and its caches.
type PricesConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://query1.finance.yahoo.com"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"wsbpulse/1.0"`
	RequestDelay      time.Duration `yaml:"request_delay" envconfig:"REQUEST_DELAY" default:"500ms"`
	QuoteCacheTTL     time.Duration `yaml:"quote_cache_ttl" envconfig:"QUOTE_CACHE_TTL" default:"5m"`
	SparklineCacheTTL time.Duration `yaml:"sparkline_cache_ttl" envconfig:"SPARKLINE_CACHE_TTL" default:"15m"`
}

// WebSocketConfig contains push channel configuration.
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load loads configuration from environment variables (WSB prefix) layered
// over an optional config.yaml file.
func Load() (*Config, error) {
	var cfg Config

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment takes precedence over the file.
	if err := envconfig.Process("WSB", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if len(c.Reddit.Subreddits) == 0 {
		return fmt.Errorf("at least one subreddit must be configured")
	}
	switch strings.ToLower(c.Reddit.Sort) {
	case "hot", "new", "rising", "top":
	default:
		return fmt.Errorf("invalid sort %q: use hot, new, rising or top", c.Reddit.Sort)
	}
	if c.Analysis.LookbackHours < 1 || c.Analysis.LookbackHours > 720 {
		return fmt.Errorf("lookback_hours must be between 1 and 720, got %d", c.Analysis.LookbackHours)
	}
	if c.Analysis.BucketSize < time.Minute {
		return fmt.Errorf("bucket_size must be at least one minute")
	}
	if c.Alerts.VolumeSpikeMultiplier < 1 {
		return fmt.Errorf("volume_spike_multiplier must be >= 1")
	}
	if c.Analysis.ContextRadius <= 0 {
		c.Analysis.ContextRadius = 100
	}
	return nil
}

func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration, useful for tests and the
// one-shot scanner CLI.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:8080"},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/wsbpulse.log",
		},
		Database: DatabaseConfig{Path: "wsbpulse.db"},
		Reddit: RedditConfig{
			Subreddits:   []string{"wallstreetbets", "stocks", "investing"},
			Sort:         "hot",
			ScanLimit:    100,
			MinScore:     10,
			UserAgent:    "wsbpulse/1.0",
			RequestDelay: 2 * time.Second,
			ScanInterval: 15 * time.Minute,
		},
		Analysis: AnalysisConfig{
			LookbackHours:     24,
			MinMentionsToRank: 2,
			ContextRadius:     100,
			BucketSize:        time.Hour,
			MinSharedPeriods:  3,
			MinCooccurrences:  2,
			RetentionDays:     30,
		},
		Alerts: AlertsConfig{
			Enabled:               true,
			HeatThreshold:         5.0,
			MinHeatScore:          3.0,
			SentimentChange:       0.3,
			VolumeSpikeMultiplier: 2.0,
			MinMentions:           5,
		},
		Prices: PricesConfig{
			BaseURL:           "https://query1.finance.yahoo.com",
			UserAgent:         "wsbpulse/1.0",
			RequestDelay:      500 * time.Millisecond,
			QuoteCacheTTL:     5 * time.Minute,
			SparklineCacheTTL: 15 * time.Minute,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
