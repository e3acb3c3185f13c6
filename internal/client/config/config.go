package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the client reads.
const EnvPrefix = "FLUXAPI"

const (
	keyConfig           = "config"
	keyEnvFile          = "env_file"
	keyDatabasePath     = "database_path"
	keyRequestTimeout   = "request_timeout"
	keySaveDebounce     = "save_debounce"
	keyValidateInterval = "validate_interval"
	keyLogLevel         = "log_level"
	keyLogFormat        = "log_format"
	keyOneSendPerDraft  = "one_send_per_draft"
)

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"config":            keyConfig,
	"env-file":          keyEnvFile,
	"db":                keyDatabasePath,
	"timeout":           keyRequestTimeout,
	"debounce":          keySaveDebounce,
	"validate-interval": keyValidateInterval,
	"log-level":         keyLogLevel,
	"log-format":        keyLogFormat,
	"one-send":          keyOneSendPerDraft,
}

var ErrInvalidDuration = errors.New("durations must be positive")

// Config holds runtime settings for the fluxapi client.
type Config struct {
	DatabasePath     string
	RequestTimeout   time.Duration
	SaveDebounce     time.Duration
	ValidateInterval time.Duration
	LogLevel         string
	LogFormat        string
	OneSendPerDraft  bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "fluxapi.db"
	c.RequestTimeout = common.DefaultRequestTimeout
	c.SaveDebounce = common.DefaultSaveDebounce
	c.ValidateInterval = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.OneSendPerDraft = false
}

// RegisterFlags defines the client flags on fs with defaults taken from
// LoadDefaults.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("config", "", "path to a JSON or YAML config file")
	fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	fs.String("db", d.DatabasePath, "SQLite database file")
	fs.Duration("timeout", d.RequestTimeout, "per-request timeout")
	fs.Duration("debounce", d.SaveDebounce, "quiet period before draft edits are saved")
	fs.Duration("validate-interval", d.ValidateInterval, "how often open tabs are checked against storage")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: text or json")
	fs.Bool("one-send", d.OneSendPerDraft, "reject a send while the same request is in flight")
}

// LoadConfig constructs a Config from defaults, the dotenv file, an optional
// config file, FLUXAPI_* environment variables and the flags in fs (which
// may be nil). Later sources take precedence over earlier ones.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	v := viper.New()
	v.SetDefault(keyEnvFile, ".env")
	v.SetDefault(keyDatabasePath, cfg.DatabasePath)
	v.SetDefault(keyRequestTimeout, cfg.RequestTimeout)
	v.SetDefault(keySaveDebounce, cfg.SaveDebounce)
	v.SetDefault(keyValidateInterval, cfg.ValidateInterval)
	v.SetDefault(keyLogLevel, cfg.LogLevel)
	v.SetDefault(keyLogFormat, cfg.LogFormat)
	v.SetDefault(keyOneSendPerDraft, cfg.OneSendPerDraft)

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// The dotenv file has to be applied before viper consults the environment.
	if err := loadDotEnv(v.GetString(keyEnvFile)); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.DatabasePath = v.GetString(keyDatabasePath)
	cfg.RequestTimeout = v.GetDuration(keyRequestTimeout)
	cfg.SaveDebounce = v.GetDuration(keySaveDebounce)
	cfg.ValidateInterval = v.GetDuration(keyValidateInterval)
	cfg.LogLevel = v.GetString(keyLogLevel)
	cfg.LogFormat = v.GetString(keyLogFormat)
	cfg.OneSendPerDraft = v.GetBool(keyOneSendPerDraft)

	if cfg.RequestTimeout <= 0 || cfg.SaveDebounce <= 0 || cfg.ValidateInterval <= 0 {
		return nil, ErrInvalidDuration
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
