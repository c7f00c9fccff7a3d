package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	MetricsAddr   string

	// Instrument whose stored candles are computed over
	Exchange string
	Token    string

	// Timeframes to compute (comma-separated seconds, e.g. "60,300,900")
	EnabledTFs string

	// Slot definitions; empty means DefaultSlots
	SlotsFile string

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/candles.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),

		// Default: NIFTY 50 on NSE
		Exchange: getEnv("EXCHANGE", "NSE"),
		Token:    getEnv("TOKEN", "99926000"),

		// Default TF: 1m
		EnabledTFs: getEnv("ENABLED_TFS", "60"),

		SlotsFile: getEnv("SLOTS_FILE", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// ParseTFs parses the EnabledTFs string into a slice of timeframe durations in seconds.
func (c *Config) ParseTFs() []int {
	parts := strings.Split(c.EnabledTFs, ",")
	tfs := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			log.Printf("[config] skipping invalid TF value: %q", p)
			continue
		}
		tfs = append(tfs, n)
	}
	return tfs
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
