package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application.
// Values are layered: defaults, then an optional YAML file, then environment variables.
type Config struct {
	Server    ServerConfig  `koanf:"server"`
	Auth      AuthConfig    `koanf:"auth"`
	API       APIConfig     `koanf:"api"`
	Catalog   CatalogConfig `koanf:"catalog"`
	LogLevel  string        `koanf:"log_level"`
	LogFormat string        `koanf:"log_format"`
}

type ServerConfig struct {
	Port            string   `koanf:"port"`
	Host            string   `koanf:"host"`
	ReadTimeout     int      `koanf:"read_timeout"`
	WriteTimeout    int      `koanf:"write_timeout"`
	ShutdownTimeout int      `koanf:"shutdown_timeout"`
	CORSOrigins     []string `koanf:"cors_origins"`
}

type AuthConfig struct {
	TokenStore      string        `koanf:"token_store"` // memory or badger
	TokenStorePath  string        `koanf:"token_store_path"`
	TokenTTL        time.Duration `koanf:"token_ttl"` // 0 keeps tokens until logout
	BcryptCost      int           `koanf:"bcrypt_cost"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

type APIConfig struct {
	PageSize             int    `koanf:"page_size"`
	MaxPageSize          int    `koanf:"max_page_size"`
	ShoppingListFilename string `koanf:"shopping_list_filename"`
}

type CatalogConfig struct {
	IngredientSources []string `koanf:"ingredient_sources"`
	SeedTags          bool     `koanf:"seed_tags"`
}

// ConfigPathEnvVar is the environment variable that can override the config file path
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists config files searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
			CORSOrigins:     []string{"*"},
		},
		Auth: AuthConfig{
			TokenStore:      "memory",
			TokenStorePath:  "data/tokens",
			TokenTTL:        0,
			BcryptCost:      10,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		API: APIConfig{
			PageSize:             6,
			MaxPageSize:          100,
			ShoppingListFilename: "shopping_list.txt",
		},
		Catalog: CatalogConfig{
			IngredientSources: []string{},
			SeedTags:          true,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads configuration from defaults, an optional YAML file and environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Auth.TokenStore {
	case "memory":
	case "badger":
		if c.Auth.TokenStorePath == "" {
			return fmt.Errorf("TOKEN_STORE_PATH is required for the badger token store")
		}
	default:
		return fmt.Errorf("invalid token store: %s (must be memory or badger)", c.Auth.TokenStore)
	}

	if c.API.PageSize < 1 || c.API.MaxPageSize < c.API.PageSize {
		return fmt.Errorf("PAGE_SIZE must be positive and not exceed MAX_PAGE_SIZE")
	}

	if c.API.ShoppingListFilename == "" {
		return fmt.Errorf("SHOPPING_LIST_FILENAME is required")
	}

	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names to config paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"PORT":                   "server.port",
	"HOST":                   "server.host",
	"READ_TIMEOUT":           "server.read_timeout",
	"WRITE_TIMEOUT":          "server.write_timeout",
	"SHUTDOWN_TIMEOUT":       "server.shutdown_timeout",
	"CORS_ORIGINS":           "server.cors_origins",
	"TOKEN_STORE":            "auth.token_store",
	"TOKEN_STORE_PATH":       "auth.token_store_path",
	"TOKEN_TTL":              "auth.token_ttl",
	"BCRYPT_COST":            "auth.bcrypt_cost",
	"LOGIN_RATE_LIMIT":       "auth.login_rate_limit",
	"LOGIN_RATE_WINDOW":      "auth.login_rate_window",
	"PAGE_SIZE":              "api.page_size",
	"MAX_PAGE_SIZE":          "api.max_page_size",
	"SHOPPING_LIST_FILENAME": "api.shopping_list_filename",
	"INGREDIENT_SOURCES":     "catalog.ingredient_sources",
	"SEED_TAGS":              "catalog.seed_tags",
	"LOG_LEVEL":              "log_level",
	"LOG_FORMAT":             "log_format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToUpper(key)]
}

// sliceConfigPaths are parsed as comma-separated lists when they come from the environment
var sliceConfigPaths = []string{
	"server.cors_origins",
	"catalog.ingredient_sources",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
