package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the CLI configuration, loaded from dataq.yaml and DATAQ_*
// environment variables.
type Config struct {
	// BaseDir is the directory all queues live under.
	BaseDir string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is "console" or "json".
	LogFormat string
}

// loadConfig reads the configuration. A missing config file is fine;
// defaults and environment variables still apply.
func loadConfig() Config {
	v := viper.New()
	v.SetConfigName("dataq")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "dataq"))
	}

	v.SetEnvPrefix("DATAQ")
	v.AutomaticEnv()

	v.SetDefault("base_dir", "./queues")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	_ = v.ReadInConfig()

	return Config{
		BaseDir:   v.GetString("base_dir"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
}
