package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/chartref/internal/domain/document"
)

// Config holds the chartref configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Matching MatchingConfig `yaml:"matching"`
	Assembly AssemblyConfig `yaml:"assembly"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys     []string `yaml:"api_keys"`
	PublicReads bool     `yaml:"public_reads"` // lookups without a key; cache admin still needs one
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds catalog cache store settings. No addrs disables the cache.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds the upstream catalog and document endpoints.
type CatalogConfig struct {
	ChartsURL         string `yaml:"charts_url"`
	ProceduresURL     string `yaml:"procedures_url"`
	BaseURL           string `yaml:"base_url"`
	ExtractURL        string `yaml:"extract_url"`
	CIFPPath          string `yaml:"cifp_path"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	CacheTTLSec       int    `yaml:"cache_ttl_sec"` // capped at the end of the AIRAC cycle
}

// MatchingConfig holds catalog matcher thresholds.
type MatchingConfig struct {
	Acceptance    float64 `yaml:"acceptance"`
	Margin        float64 `yaml:"margin"`
	MaxCandidates int     `yaml:"max_candidates"`
}

// AssemblyConfig holds document assembly settings.
type AssemblyConfig struct {
	Rotation  string  `yaml:"rotation"` // auto, disabled, 0, 90, 180, 270
	Dominance float64 `yaml:"dominance"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	// Unset ${VAR} expansions leave empty addresses behind.
	addrs := c.Database.Addrs[:0]
	for _, a := range c.Database.Addrs {
		if strings.TrimSpace(a) != "" {
			addrs = append(addrs, a)
		}
	}
	c.Database.Addrs = addrs
	if c.Catalog.RequestTimeoutSec <= 0 {
		c.Catalog.RequestTimeoutSec = 10
	}
	if c.Catalog.CacheTTLSec <= 0 {
		c.Catalog.CacheTTLSec = 86400
	}
	if c.Matching.Acceptance <= 0 {
		c.Matching.Acceptance = 0.5
	}
	if c.Matching.Margin <= 0 {
		c.Matching.Margin = 0.15
	}
	if c.Matching.MaxCandidates <= 0 {
		c.Matching.MaxCandidates = 10
	}
	if c.Assembly.Rotation == "" {
		c.Assembly.Rotation = "auto"
	}
	if c.Assembly.Dominance <= 0 {
		c.Assembly.Dominance = 0.5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if c.Catalog.ChartsURL == "" && c.Catalog.ProceduresURL == "" {
		return fmt.Errorf("catalog.charts_url or catalog.procedures_url is required")
	}
	if c.Matching.Acceptance > 1 {
		return fmt.Errorf("matching.acceptance must be in (0, 1], got %v", c.Matching.Acceptance)
	}
	if c.Matching.Margin > 1 {
		return fmt.Errorf("matching.margin must be in (0, 1], got %v", c.Matching.Margin)
	}
	if c.Assembly.Dominance > 1 {
		return fmt.Errorf("assembly.dominance must be in (0, 1], got %v", c.Assembly.Dominance)
	}
	if _, err := document.ParseRotationPolicy(c.Assembly.Rotation); err != nil {
		return fmt.Errorf("assembly.rotation: %w", err)
	}
	return nil
}

// CacheEnabled reports whether a catalog cache store is configured.
func (c *Config) CacheEnabled() bool { return len(c.Database.Addrs) > 0 }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
