// Package config provides configuration management for validation runs
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for schema validation
type Config struct {
	// ParallelThreshold is the minimum number of checked rows before column
	// validation fans out to the worker pool
	ParallelThreshold int `yaml:"parallel_threshold"`
	// WorkerPoolSize is the number of worker goroutines (0 = one per CPU)
	WorkerPoolSize int `yaml:"worker_pool_size"`
}

// Default configuration values
const (
	DefaultParallelThreshold = 10000
)

// Environment variable overrides
const (
	envParallelThreshold = "TAMARIN_PARALLEL_THRESHOLD"
	envWorkerPoolSize    = "TAMARIN_WORKER_POOL_SIZE"
)

var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = NewConfig()
	globalConfig.applyEnv()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // auto-detect
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applying defaults for
// any omitted field
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables when set
func (c *Config) applyEnv() {
	if v := os.Getenv(envParallelThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ParallelThreshold = n
		}
	}
	if v := os.Getenv(envWorkerPoolSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.WorkerPoolSize = n
		}
	}
}

// GetConfig returns a copy of the global configuration
func GetConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the global configuration after validating it
func SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
	return nil
}

// ResetConfig restores the global configuration to defaults
func ResetConfig() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = NewConfig()
}
