package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tgienger/todo/internal/tasklist"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config is the effective application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Filters FiltersConfig `mapstructure:"filters" yaml:"filters"`
	LogFile string        `mapstructure:"log_file" yaml:"log_file"`
}

// StorageConfig selects where the task collection lives
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
	Key     string `mapstructure:"key" yaml:"key"`
}

// FiltersConfig holds the initial filters
type FiltersConfig struct {
	Status      string `mapstructure:"status" yaml:"status"`
	Date        string `mapstructure:"date" yaml:"date"`
	DateBuckets bool   `mapstructure:"date_buckets" yaml:"date_buckets"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     "todos",
		},
		Filters: FiltersConfig{
			Status:      "all",
			Date:        "all",
			DateBuckets: true,
		},
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error. TODO_* environment variables
// override file values (e.g. TODO_STORAGE_BACKEND).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the file does not mention it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("filters.status", cfg.Filters.Status)
	v.SetDefault("filters.date", cfg.Filters.Date)
	v.SetDefault("filters.date_buckets", cfg.Filters.DateBuckets)
	v.SetDefault("log_file", cfg.LogFile)
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, file or memory)", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if _, err := tasklist.ParseStatusFilter(c.Filters.Status); err != nil {
		return fmt.Errorf("filters.status: %w", err)
	}
	if _, err := tasklist.ParseDateFilter(c.Filters.Date); err != nil {
		return fmt.Errorf("filters.date: %w", err)
	}
	return nil
}

// Dir returns the configuration directory
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".todo"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "todo")
}

// DefaultPath returns the path to the config file
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes a commented default configuration to path
func WriteDefault(path string) error {
	content := `# todo configuration

storage:
  backend: sqlite   # sqlite, file or memory
  path: ""          # empty uses $XDG_DATA_HOME/todo
  key: todos        # key holding the task collection

filters:
  status: all        # all, completed or pending
  date: all          # all, today, past or future
  date_buckets: true # false hides the date filter

# log_file: /tmp/todo.log
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
