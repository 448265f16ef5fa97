package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "SURVEYBENCH"

// Config is the full application configuration. Defaults come from the
// struct tags, an optional YAML file overrides them, and SURVEYBENCH_*
// environment variables override both.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Engine  EngineConfig  `yaml:"engine" envconfig:"ENGINE"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port" envconfig:"PORT" default:"8080"`
	Host         string        `yaml:"host" envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"120s"`
	RateLimit    int           `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"100"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/surveybench.log"`
}

// EngineConfig tunes corpus traversal and caching.
type EngineConfig struct {
	ChunkSize         int           `yaml:"chunk_size" envconfig:"CHUNK_SIZE" default:"5000"`
	SourceConcurrency int           `yaml:"source_concurrency" envconfig:"SOURCE_CONCURRENCY" default:"4"`
	CacheFreshFor     time.Duration `yaml:"cache_fresh_for" envconfig:"CACHE_FRESH_FOR" default:"5m"`
	CacheStaleFor     time.Duration `yaml:"cache_stale_for" envconfig:"CACHE_STALE_FOR" default:"5m"`
}

// PathsConfig points at the on-disk inputs.
type PathsConfig struct {
	// ExtractsDir holds the CSV and XLSX survey extracts to ingest.
	ExtractsDir string `yaml:"extracts_dir" envconfig:"EXTRACTS_DIR" default:"data/extracts"`
	// MappingsFile is the curated and learned mappings document.
	MappingsFile string `yaml:"mappings_file" envconfig:"MAPPINGS_FILE" default:"data/mappings.json"`
}

// Load reads configuration from the given YAML file (skipped when the
// path is empty or the file is missing), layered between the tag
// defaults and any SURVEYBENCH_* environment overrides.
func Load(path string) (*Config, error) {
	// Defaults plus any environment overrides.
	env := &Config{}
	if err := envconfig.Process(envPrefix, env); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	file := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, file); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	cfg := merge(file, env)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// merge layers the file configuration over the defaults while keeping
// explicit environment overrides on top. A field the file leaves at its
// type's zero value is indistinguishable from an unset field and keeps
// the default.
func merge(file, env *Config) *Config {
	cfg := *env

	overlay(&cfg.Server.Port, file.Server.Port, "SERVER_PORT")
	overlay(&cfg.Server.Host, file.Server.Host, "SERVER_HOST")
	overlay(&cfg.Server.ReadTimeout, file.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	overlay(&cfg.Server.WriteTimeout, file.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	overlay(&cfg.Server.IdleTimeout, file.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	overlay(&cfg.Server.RateLimit, file.Server.RateLimit, "SERVER_RATE_LIMIT")

	overlay(&cfg.Logging.Level, file.Logging.Level, "LOGGING_LEVEL")
	overlay(&cfg.Logging.Output, file.Logging.Output, "LOGGING_OUTPUT")
	overlay(&cfg.Logging.FilePath, file.Logging.FilePath, "LOGGING_FILE_PATH")

	overlay(&cfg.Engine.ChunkSize, file.Engine.ChunkSize, "ENGINE_CHUNK_SIZE")
	overlay(&cfg.Engine.SourceConcurrency, file.Engine.SourceConcurrency, "ENGINE_SOURCE_CONCURRENCY")
	overlay(&cfg.Engine.CacheFreshFor, file.Engine.CacheFreshFor, "ENGINE_CACHE_FRESH_FOR")
	overlay(&cfg.Engine.CacheStaleFor, file.Engine.CacheStaleFor, "ENGINE_CACHE_STALE_FOR")

	overlay(&cfg.Paths.ExtractsDir, file.Paths.ExtractsDir, "PATHS_EXTRACTS_DIR")
	overlay(&cfg.Paths.MappingsFile, file.Paths.MappingsFile, "PATHS_MAPPINGS_FILE")

	return &cfg
}

// overlay writes the file value over dst unless the file left it zero
// or the named environment variable is set.
func overlay[T comparable](dst *T, fileValue T, key string) {
	var zero T
	if fileValue == zero {
		return
	}
	if _, ok := os.LookupEnv(envPrefix + "_" + key); ok {
		return
	}
	*dst = fileValue
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Engine.ChunkSize < 1 {
		return fmt.Errorf("engine chunk size must be positive, got %d", c.Engine.ChunkSize)
	}
	if c.Engine.SourceConcurrency < 1 {
		return fmt.Errorf("engine source concurrency must be positive, got %d", c.Engine.SourceConcurrency)
	}
	if c.Engine.CacheFreshFor <= 0 || c.Engine.CacheStaleFor < 0 {
		return fmt.Errorf("cache windows must be positive, got fresh=%s stale=%s", c.Engine.CacheFreshFor, c.Engine.CacheStaleFor)
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("unknown logging output %q", c.Logging.Output)
	}
	return nil
}

// ListenAddr returns the host:port pair the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
