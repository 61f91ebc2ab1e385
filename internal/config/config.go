// Package config loads the recognized options of spec §6 for the demo
// binary: a YAML file and environment variables layered through
// github.com/spf13/viper, overridable by github.com/spf13/pflag flags.
// walkingpad.ConnectOptions itself stays independent of this loader —
// Load returns a Config, from which cmd/padctl builds its ConnectOptions.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved set of recognized options (spec §6).
type Config struct {
	RememberDevice      bool
	PollIntervalMs      float64
	NamePrefixes        []string
	OptionalServices    []string
	ConnectionTimeoutMs float64
	WriteTimeoutMs      float64
	NotificationTimeMs  float64
	LogPath             string
}

func defaults() Config {
	return Config{
		RememberDevice:      true,
		PollIntervalMs:      3000,
		NamePrefixes:        []string{"Walking", "KS"},
		OptionalServices:    []string{"1826", "fe00", "fff0"},
		ConnectionTimeoutMs: float64(20 * time.Second / time.Millisecond),
		WriteTimeoutMs:      float64(10 * time.Second / time.Millisecond),
		NotificationTimeMs:  float64(15 * time.Second / time.Millisecond),
		LogPath:             "",
	}
}

// RegisterFlags adds the recognized options as flags on fs, for the demo
// binary to parse before calling Load.
func RegisterFlags(fs *pflag.FlagSet) {
	d := defaults()
	fs.Bool("remember-device", d.RememberDevice, "persist the chosen device id across runs")
	fs.Float64("poll-interval-ms", d.PollIntervalMs, "legacy-protocol poll cadence in milliseconds")
	fs.StringSlice("name-prefixes", d.NamePrefixes, "device-picker name-prefix filters")
	fs.StringSlice("optional-services", d.OptionalServices, "GATT service UUID whitelist")
	fs.Float64("connection-timeout-ms", d.ConnectionTimeoutMs, "connect deadline in milliseconds")
	fs.Float64("write-timeout-ms", d.WriteTimeoutMs, "write deadline in milliseconds")
	fs.Float64("notification-timeout-ms", d.NotificationTimeMs, "enable-notifications deadline in milliseconds")
	fs.String("log-path", d.LogPath, "rotating log file path; empty logs to stderr")
}

// Load reads config.yaml (if present) from configDir, layers
// PADCTL_-prefixed environment variables over it, layers fs's flags over
// that, and returns the result. A nil fs skips the flag layer.
func Load(configDir string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("remember-device", d.RememberDevice)
	v.SetDefault("poll-interval-ms", d.PollIntervalMs)
	v.SetDefault("name-prefixes", d.NamePrefixes)
	v.SetDefault("optional-services", d.OptionalServices)
	v.SetDefault("connection-timeout-ms", d.ConnectionTimeoutMs)
	v.SetDefault("write-timeout-ms", d.WriteTimeoutMs)
	v.SetDefault("notification-timeout-ms", d.NotificationTimeMs)
	v.SetDefault("log-path", d.LogPath)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	v.SetEnvPrefix("padctl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	return Config{
		RememberDevice:      v.GetBool("remember-device"),
		PollIntervalMs:      v.GetFloat64("poll-interval-ms"),
		NamePrefixes:        v.GetStringSlice("name-prefixes"),
		OptionalServices:    v.GetStringSlice("optional-services"),
		ConnectionTimeoutMs: v.GetFloat64("connection-timeout-ms"),
		WriteTimeoutMs:      v.GetFloat64("write-timeout-ms"),
		NotificationTimeMs:  v.GetFloat64("notification-timeout-ms"),
		LogPath:             v.GetString("log-path"),
	}, nil
}
