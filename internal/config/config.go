package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	defaultSampleFraction  = 0.1
	defaultMemoCacheSize   = 64
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset and pipeline defaults.
	DatasetPath    string
	SampleFraction float64
	Seeds          []int64
	MemoCacheSize  int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fraction, err := parseSampleFraction()
	if err != nil {
		return nil, err
	}

	seeds, err := parseSeeds()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DatasetPath:     os.Getenv("DATASET_PATH"),
		SampleFraction:  fraction,
		Seeds:           seeds,
		MemoCacheSize:   parseMemoCacheSize(),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

func parseSampleFraction() (float64, error) {
	s := os.Getenv("SAMPLE_FRACTION")
	if s == "" {
		return defaultSampleFraction, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f > 0 && f <= 1) {
		return 0, fmt.Errorf("invalid SAMPLE_FRACTION %q: must be in (0, 1]", s)
	}
	return f, nil
}

// parseSeeds reads a comma-separated seed list, e.g. "42,1,100,2024,999".
// Unset means the canonical five-seed list, resolved by the caller.
func parseSeeds() ([]int64, error) {
	s := os.Getenv("SEEDS")
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	seeds := make([]int64, 0, len(parts))
	for _, p := range parts {
		seed, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SEEDS entry %q", p)
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return nil, errors.New("SEEDS must contain at least one seed")
	}
	return seeds, nil
}

func parseMemoCacheSize() int {
	if s := os.Getenv("MEMO_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return defaultMemoCacheSize
}
