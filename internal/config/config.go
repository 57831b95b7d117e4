package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Top-level worker configuration.
type Config struct {
	Redis    Redis    `yaml:"redis"`
	Worker   Worker   `yaml:"worker"`
	Runtime  Runtime  `yaml:"runtime"`
	Pipeline Pipeline `yaml:"pipeline"`
	Log      Log      `yaml:"log"`
}

// Redis connection settings.
type Redis struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Returns the host:port address for the Redis client.
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Task listener settings. Durations are in seconds; zero values fall back
// to the worker package defaults.
type Worker struct {
	Queues       []string `yaml:"queues"`
	ResultTTL    int      `yaml:"result_ttl"`
	RetryBackoff int      `yaml:"retry_backoff"`
	ShellTimeout int      `yaml:"shell_timeout"`
	Shell        string   `yaml:"shell"`
}

// Containerd connection settings.
type Runtime struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
}

// Build pipeline settings.
type Pipeline struct {
	Manifest string `yaml:"manifest"` // Path to a pipeline manifest. Empty uses the built-in pipeline.
	Output   string `yaml:"output"`   // Directory for the exported image.
	Root     string `yaml:"root"`     // Source tree root.
}

// Log file settings. The worker always logs to stderr; a non-empty file
// adds a rotated log file alongside.
type Log struct {
	File       string `yaml:"file"`        // Log file path. Empty uses the default mcp-worker.log location.
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB before rotation.
	MaxBackups int    `yaml:"max_backups"` // Rotated files to keep.
	MaxAge     int    `yaml:"max_age"`     // Days to keep rotated files.
}

// Returns the default configuration.
//
// The REDIS_HOST environment variable overrides the Redis host, matching
// how the worker is pointed at its queue broker in container deployments.
func Default() *Config {
	cfg := &Config{
		Redis: Redis{
			Host: "127.0.0.1",
			Port: 6379,
		},
		Runtime: Runtime{},
		Pipeline: Pipeline{
			Output: "dist",
			Root:   ".",
		},
		Log: Log{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
		},
	}
	cfg.applyEnv()
	return cfg
}

// Reads configuration from a YAML file, layered over the defaults.
//
// Unknown fields are rejected. Environment overrides are applied after the
// file so REDIS_HOST always wins.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg := Default()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Applies environment variable overrides.
func (c *Config) applyEnv() {
	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Host = host
	}
}
