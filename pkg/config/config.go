package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	xdgAppName = "auditboard"
	configFile = "config.yaml"
	envPrefix  = "AUDITBOARD"
)

// Backends.
const (
	BackendFirestore = "firestore"
	BackendXLSX      = "xlsx"
	BackendGSheets   = "gsheets"
	BackendMemory    = "memory"
)

type Config struct {
	Backend     string            `mapstructure:"backend"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Firestore   FirestoreConfig   `mapstructure:"firestore"`
	XLSX        XLSXConfig        `mapstructure:"xlsx"`
	GSheets     GSheetsConfig     `mapstructure:"gsheets"`
	Memory      MemoryConfig      `mapstructure:"memory"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

// CredentialsConfig points at a service account key. JSON holds the key
// inline (e.g. from a secret store) and wins over File.
type CredentialsConfig struct {
	File string `mapstructure:"file"`
	JSON string `mapstructure:"json"`
}

type FirestoreConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

type XLSXConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// GSheetsConfig selects a spreadsheet. Auth is "service_account" or "user"
// (the cached token from the login command).
type GSheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	Range         string `mapstructure:"range"`
	Auth          string `mapstructure:"auth"`
}

// MemoryConfig optionally snapshots the in-memory store to a JSON file.
type MemoryConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Load reads .env, then the config file (path, or the default location if
// it exists), then AUDITBOARD_* environment variables, over the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirestore, BackendMemory:
	case BackendXLSX:
		if c.XLSX.Path == "" {
			return errors.New("config: xlsx.path is required for the xlsx backend")
		}
	case BackendGSheets:
		if c.GSheets.SpreadsheetID == "" {
			return errors.New("config: gsheets.spreadsheet_id is required for the gsheets backend")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// Set stores one key in the config file at path (the default location when
// empty), keeping the other keys already in it.
func Set(path, key, value string) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if def, err := GetConfigPath(); err == nil {
		if _, err := os.Stat(def); err == nil {
			v.SetConfigFile(def)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendFirestore)

	v.SetDefault("credentials.file", "")
	v.SetDefault("credentials.json", "")

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collection", "tasks")

	v.SetDefault("xlsx.path", "")
	v.SetDefault("xlsx.sheet", "")

	v.SetDefault("gsheets.spreadsheet_id", "")
	v.SetDefault("gsheets.range", "Sheet1")
	v.SetDefault("gsheets.auth", "service_account")

	v.SetDefault("memory.path", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
