package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. WAREHOUSE_AI_API_KEY.
const EnvPrefix = "WAREHOUSE"

// Config represents the overall application configuration.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	AI         AIConfig         `yaml:"ai"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env      string `yaml:"env"`       // development -> console logs; anything else -> JSON
	LogLevel string `yaml:"log_level"` // trace, debug, info, warn, error
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// SimulatorConfig controls the bot lifecycle tick.
type SimulatorConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	SeedOnStart     bool          `yaml:"seed_on_start"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"` // silent, error, warn, info
}

// AIConfig configures the generative AI gateway.
type AIConfig struct {
	APIKey              string        `yaml:"api_key"`
	TextModel           string        `yaml:"text_model"`
	VideoModel          string        `yaml:"video_model"`
	TimeoutSeconds      int           `yaml:"timeout_seconds"`
	Timeout             time.Duration `yaml:"-"`
	VideoTimeoutSeconds int           `yaml:"video_timeout_seconds"`
	VideoTimeout        time.Duration `yaml:"-"`
	VideoPollSeconds    int           `yaml:"video_poll_seconds"`
	VideoPoll           time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path, then applies environment
// overrides. A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		cfg.Simulator.Enabled = true
		cfg.Simulator.SeedOnStart = true
	default:
		return nil, err
	}

	applyEnv(&cfg, newEnv())
	applyDefaults(&cfg)
	return &cfg, nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// applyEnv overrides file values with WAREHOUSE_* variables when set.
func applyEnv(cfg *Config, v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flag := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	str("app.env", &cfg.App.Env)
	str("app.log_level", &cfg.App.LogLevel)
	num("server.port", &cfg.Server.Port)
	flag("simulator.enabled", &cfg.Simulator.Enabled)
	num("simulator.interval_seconds", &cfg.Simulator.IntervalSeconds)
	str("database.driver", &cfg.Database.Driver)
	str("database.dsn", &cfg.Database.DSN)
	str("push.vapid_public_key", &cfg.Push.PublicKey)
	str("push.vapid_private_key", &cfg.Push.PrivateKey)
	str("push.subject", &cfg.Push.Subject)
	num("worker_pool.size", &cfg.WorkerPool.Size)
	str("ai.api_key", &cfg.AI.APIKey)
	str("ai.text_model", &cfg.AI.TextModel)
	str("ai.video_model", &cfg.AI.VideoModel)
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Simulator.IntervalSeconds <= 0 {
		cfg.Simulator.IntervalSeconds = 3
	}
	cfg.Simulator.Interval = time.Duration(cfg.Simulator.IntervalSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:warehouse.db?_foreign_keys=on"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}

	if cfg.AI.TextModel == "" {
		cfg.AI.TextModel = "gemini-2.5-flash"
	}
	if cfg.AI.VideoModel == "" {
		cfg.AI.VideoModel = "veo-2.0-generate-001"
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	cfg.AI.Timeout = time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	if cfg.AI.VideoTimeoutSeconds <= 0 {
		cfg.AI.VideoTimeoutSeconds = 300
	}
	cfg.AI.VideoTimeout = time.Duration(cfg.AI.VideoTimeoutSeconds) * time.Second
	if cfg.AI.VideoPollSeconds <= 0 {
		cfg.AI.VideoPollSeconds = 10
	}
	cfg.AI.VideoPoll = time.Duration(cfg.AI.VideoPollSeconds) * time.Second
}
