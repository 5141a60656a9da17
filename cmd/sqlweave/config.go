package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bawdo/sqlweave/dialect"
)

const configName = ".sqlweave.yaml"

// Config is the REPL configuration, read from flags, SQLWEAVE_* environment
// variables and ~/.sqlweave.yaml, in that order of precedence.
type Config struct {
	Dialect       string `mapstructure:"dialect"`
	DSN           string `mapstructure:"dsn"`
	ServerVersion string `mapstructure:"server_version"`
	Pretty        bool   `mapstructure:"pretty"`
	History       string `mapstructure:"history"`
	Verbose       bool   `mapstructure:"verbose"`
}

// LoadConfig builds the configuration. An explicit path must exist; the
// default file in the home directory is optional.
func LoadConfig(v *viper.Viper, explicitPath string) (*Config, error) {
	v.SetDefault("dialect", string(dialect.Postgres))
	v.SetDefault("history", defaultHistoryPath())
	// Unmarshal only sees keys viper knows about, so every key needs a
	// default for AutomaticEnv to apply.
	v.SetDefault("dsn", "")
	v.SetDefault("server_version", "")
	v.SetDefault("pretty", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("SQLWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := explicitPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, configName)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	if _, err := dialect.Parse(cfg.Dialect); err != nil {
		return nil, errors.Join(errors.New("invalid configuration"), err)
	}
	return &cfg, nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlweave_history")
}
