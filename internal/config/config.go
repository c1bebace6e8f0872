package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// QueueConfig holds the tunables of the seed queue core.
// All values are fixed at initialization.
type QueueConfig struct {
	// DurableQueueMaxSize is the fixed capacity of the favored tier of
	// the random fuzzing queue.
	DurableQueueMaxSize int `mapstructure:"durable_queue_max_size"`

	// FileQueueMaxSize caps the number of entries a disk-spilled normal
	// tier may hold before silently dropping.
	FileQueueMaxSize int `mapstructure:"file_queue_max_size"`

	// FavoredSeedProb is the probability the random loop draws from the
	// favored tier when both tiers are nonempty.
	FavoredSeedProb float64 `mapstructure:"favored_seed_prob"`

	// SeedCullingThreshold triggers minimization once the favored tier
	// grows past lastMinimizedCount times this factor.
	SeedCullingThreshold float64 `mapstructure:"seed_culling_threshold"`
}

// Config is the top-level configuration of the fuzzer.
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Queue    QueueConfig `mapstructure:"queue"`
}

// DefaultQueueConfig returns the built-in tunables.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		DurableQueueMaxSize:  100,
		FileQueueMaxSize:     1000,
		FavoredSeedProb:      0.8,
		SeedCullingThreshold: 2.0,
	}
}

// Load reads a configuration file from the "configs" directory into a
// Config. The configName parameter is the base name of the file without
// the extension (e.g., "hybridfuzz").
func Load(configName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")    // go test from inside a package
	v.AddConfigPath("../../configs") // deeper packages

	def := DefaultQueueConfig()
	v.SetDefault("log_level", "info")
	v.SetDefault("queue.durable_queue_max_size", def.DurableQueueMaxSize)
	v.SetDefault("queue.file_queue_max_size", def.FileQueueMaxSize)
	v.SetDefault("queue.favored_seed_prob", def.FavoredSeedProb)
	v.SetDefault("queue.seed_culling_threshold", def.SeedCullingThreshold)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file falls back to defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	if err := cfg.Queue.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects tunables outside their documented ranges.
func (c QueueConfig) Validate() error {
	if c.DurableQueueMaxSize < 1 {
		return fmt.Errorf("durable_queue_max_size must be at least 1, got %d", c.DurableQueueMaxSize)
	}
	if c.FileQueueMaxSize < 1 {
		return fmt.Errorf("file_queue_max_size must be at least 1, got %d", c.FileQueueMaxSize)
	}
	if c.FavoredSeedProb < 0 || c.FavoredSeedProb > 1 {
		return fmt.Errorf("favored_seed_prob must be in [0,1], got %v", c.FavoredSeedProb)
	}
	if c.SeedCullingThreshold < 1 {
		return fmt.Errorf("seed_culling_threshold must be at least 1, got %v", c.SeedCullingThreshold)
	}
	return nil
}
