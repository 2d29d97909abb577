package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/musikspil/internal/factory"
	redisstorage "github.com/mcoot/musikspil/internal/storage/redis"
)

// Environment variables read by the CLI
const (
	EnvServer      = "MUSIKSPIL_SERVER"
	EnvStorage     = "MUSIKSPIL_STORAGE"
	EnvStateFile   = "MUSIKSPIL_STATE_FILE"
	EnvRedisURL    = "MUSIKSPIL_REDIS_URL"
	EnvDisplayAddr = "MUSIKSPIL_DISPLAY_ADDR"
	EnvConfig      = "MUSIKSPIL_CONFIG"
)

// Config holds CLI configuration. Precedence, lowest first: built-in
// defaults, the YAML config file, environment (including .env), flags.
type Config struct {
	ServerURL   string        `yaml:"server"`
	Storage     string        `yaml:"storage"`
	StateFile   string        `yaml:"state_file"`
	RedisURL    string        `yaml:"redis_url"`
	Output      string        `yaml:"output"`
	DisplayAddr string        `yaml:"display"`
	CoversDir   string        `yaml:"covers_dir"`
	LogFormat   string        `yaml:"log_format"`
	Poll        time.Duration `yaml:"poll_interval"`
	Verbose     bool          `yaml:"verbose"`

	// ConfigFile is where the YAML config was read from
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a Config with built-in defaults only
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  "http://localhost:8080",
		Storage:    factory.StorageTypeFile,
		StateFile:  defaultPath("state.json"),
		Output:     factory.OutputText,
		LogFormat:  "text",
		ConfigFile: defaultPath("config.yaml"),
	}
}

// LoadDotEnv loads a .env file from the working directory if there is one
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadFile overlays values from a YAML config file. A missing file is not
// an error unless required is set.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.ConfigFile = path
	c.merge(file)
	return nil
}

// LoadEnv overlays values from the environment
func (c *Config) LoadEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvServer, &c.ServerURL)
	set(EnvStorage, &c.Storage)
	set(EnvStateFile, &c.StateFile)
	set(EnvRedisURL, &c.RedisURL)
	set(EnvDisplayAddr, &c.DisplayAddr)
}

func (c *Config) merge(o Config) {
	mergeString(&c.ServerURL, o.ServerURL)
	mergeString(&c.Storage, o.Storage)
	mergeString(&c.StateFile, o.StateFile)
	mergeString(&c.RedisURL, o.RedisURL)
	mergeString(&c.Output, o.Output)
	mergeString(&c.DisplayAddr, o.DisplayAddr)
	mergeString(&c.CoversDir, o.CoversDir)
	mergeString(&c.LogFormat, o.LogFormat)
	if o.Poll > 0 {
		c.Poll = o.Poll
	}
	c.Verbose = c.Verbose || o.Verbose
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks values that flags and files cannot constrain themselves
func (c *Config) Validate() error {
	switch c.Output {
	case factory.OutputText, factory.OutputJSON:
	default:
		return fmt.Errorf("invalid output %q: must be 'text' or 'json'", c.Output)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.Storage {
	case factory.StorageTypeMemory, factory.StorageTypeFile:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("--redis-url (env: %s) required when storage is redis", EnvRedisURL)
		}
	default:
		return fmt.Errorf("invalid storage %q: must be 'memory', 'file' or 'redis'", c.Storage)
	}
	return nil
}

// FactoryConfig converts the CLI config into the application factory's
func (c *Config) FactoryConfig() factory.Config {
	fc := factory.Config{
		ServerURL:    c.ServerURL,
		StorageType:  c.Storage,
		StatePath:    c.StateFile,
		PollInterval: c.Poll,
		OutputFormat: c.Output,
		DisplayAddr:  c.DisplayAddr,
		CoversDir:    c.CoversDir,
	}
	if c.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".musikspil", name)
	}
	return filepath.Join(home, ".musikspil", name)
}
