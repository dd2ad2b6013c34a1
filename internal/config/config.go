// Package config provides CLI configuration management using Viper.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// AppName is used for the config file name and the environment prefix.
const AppName = "formstate"

// Config represents the CLI configuration.
type Config struct {
	Definition  string `mapstructure:"definition" yaml:"definition"`
	Output      string `mapstructure:"output" yaml:"output"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
	MaxAttempts int    `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// New returns a viper instance with defaults, the FORMSTATE_ environment
// prefix and the formstate.yaml search path (current directory).
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("definition", "")
	v.SetDefault("output", "json")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("max_attempts", 0)
	return v
}

// Load reads the configuration into a Config. An explicit path must exist;
// when path is empty a missing formstate.yaml falls back to defaults and
// environment values.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config: file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}
