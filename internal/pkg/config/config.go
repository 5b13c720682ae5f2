package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the client configuration
type Config struct {
	Server Server `mapstructure:"server"`
	Store  Store  `mapstructure:"store"`
	Log    Log    `mapstructure:"log"`
}

// Server holds connection settings for the llm-judge web API
type Server struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	PollInterval   int    `mapstructure:"poll_interval"`   // seconds
}

// Store holds local persistence settings
type Store struct {
	Path string `mapstructure:"path"` // sqlite file for session/form draft
}

// Log holds logging settings
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var cfg *Config

// Load loads the configuration from an optional config file plus
// LLM_JUDGE_* environment variables. A missing file is not an error:
// the client works out of the box against localhost.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.base_url", "http://localhost:8080/api")
	v.SetDefault("server.request_timeout", 60)
	v.SetDefault("server.poll_interval", 5)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix("LLM_JUDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Get returns the loaded configuration
func Get() *Config {
	return cfg
}

// RequestTimeout returns the HTTP request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// PollInterval returns the task polling interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Server.PollInterval) * time.Second
}

// defaultStorePath places the local store under the user config dir,
// falling back to the working directory when it cannot be resolved
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "llm-judge-client.db"
	}
	return filepath.Join(dir, "llm-judge", "client.db")
}
