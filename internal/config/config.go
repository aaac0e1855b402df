package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// HistoryRetention is how long timer requests stay in a room's history.
	HistoryRetention time.Duration `mapstructure:"history_retention" yaml:"history_retention"`
	// SweepInterval is how often stale history entries are evicted.
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
	// KeepAliveInterval is how often event streams emit keep-alive pulses.
	KeepAliveInterval time.Duration `mapstructure:"keepalive_interval" yaml:"keepalive_interval"`
	// MonitorInterval is how often index page gauges are sampled.
	MonitorInterval time.Duration `mapstructure:"monitor_interval" yaml:"monitor_interval"`
	// SubscriberBuffer is the per-subscriber event channel capacity.
	SubscriberBuffer int `mapstructure:"subscriber_buffer" yaml:"subscriber_buffer"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		HistoryRetention:  24 * time.Hour,
		SweepInterval:     time.Minute,
		KeepAliveInterval: 5 * time.Second,
		MonitorInterval:   time.Second,
		SubscriberBuffer:  16,
	}
}
