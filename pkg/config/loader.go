package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "SEAWAY_"
	configEnvVar = "CONFIG_PATH"
)

// Loader assembles configuration from multiple sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/seaway/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths sets the config file search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load assembles the configuration with the priority:
// 1. Defaults (lowest)
// 2. Config file (yaml)
// 3. Environment variables (highest)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The file is optional
	if err := l.loadConfigFile(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults installs the built-in defaults.
func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "seaway-service",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// GRPC
		"grpc.port":              50051,
		"grpc.max_recv_msg_size": 16 * 1024 * 1024,
		"grpc.max_send_msg_size": 16 * 1024 * 1024,
		"grpc.tls.enabled":       false,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   true,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "seaway",
		"metrics.subsystem": "",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "seaway-service",
		"tracing.sample_rate":  0.1,

		// Database
		"database.driver":             "postgres",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.database":           "seaway",
		"database.username":           "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.auto_migrate":       true,

		// Cache
		"cache.enabled":      false,
		"cache.driver":       "memory",
		"cache.host":         "localhost",
		"cache.port":         6379,
		"cache.db":           0,
		"cache.default_ttl":  5 * time.Minute,
		"cache.max_entries":  10000,
		"cache.compress_min": 1024,

		// Routing
		"routing.max_edge_distance_nm":              5000.0,
		"routing.max_alternatives":                  5,
		"routing.route_calculation_timeout_seconds": 30,
		"routing.route_cache_capacity":              1000,
		"routing.route_ttl_seconds":                 1800,
		"routing.port_ttl_seconds":                  86400,
		"routing.direct_safety_margin":              0.9,
		"routing.hub_detour_cap":                    1.2,
		"routing.penalty_factor":                    2.0,
		"routing.fuel_price_usd_per_ton":            600.0,
		"routing.default_load_factor":               0.8,
		"routing.default_dwell_hours":               24.0,
		"routing.hub_codes": []string{
			"SGSIN", "NLRTM", "CNSHA", "AEJEA", "USLAX",
			"DEHAM", "HKHKG", "BEANR",
		},
		"routing.workers": 0, // 0 means GOMAXPROCS
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile reads the first config file found.
func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv reads configuration from environment variables.
// Key transformation handles fields whose names contain underscores.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			key = strings.ReplaceAll(key, "_", ".")
		}

		if isSliceField(key) {
			return key, splitAndTrim(value)
		}

		return key, value
	}), nil)
}

// envKeyMappings maps environment variable suffixes to config keys.
// Needed for fields whose names themselves contain underscores.
var envKeyMappings = map[string]string{
	// GRPC
	"grpc_port":              "grpc.port",
	"grpc_max_recv_msg_size": "grpc.max_recv_msg_size",
	"grpc_max_send_msg_size": "grpc.max_send_msg_size",
	"grpc_tls_enabled":       "grpc.tls.enabled",
	"grpc_tls_cert_file":     "grpc.tls.cert_file",
	"grpc_tls_key_file":      "grpc.tls.key_file",
	"grpc_tls_ca_file":       "grpc.tls.ca_file",

	// Log
	"log_level":       "log.level",
	"log_format":      "log.format",
	"log_output":      "log.output",
	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",
	"log_compress":    "log.compress",

	// Database
	"database_ssl_mode":           "database.ssl_mode",
	"database_max_open_conns":     "database.max_open_conns",
	"database_max_idle_conns":     "database.max_idle_conns",
	"database_conn_max_lifetime":  "database.conn_max_lifetime",
	"database_conn_max_idle_time": "database.conn_max_idle_time",
	"database_auto_migrate":       "database.auto_migrate",

	// Cache
	"cache_default_ttl":  "cache.default_ttl",
	"cache_max_entries":  "cache.max_entries",
	"cache_compress_min": "cache.compress_min",

	// Tracing
	"tracing_service_name": "tracing.service_name",
	"tracing_sample_rate":  "tracing.sample_rate",

	// Routing
	"routing_max_edge_distance_nm":              "routing.max_edge_distance_nm",
	"routing_max_alternatives":                  "routing.max_alternatives",
	"routing_route_calculation_timeout_seconds": "routing.route_calculation_timeout_seconds",
	"routing_route_cache_capacity":              "routing.route_cache_capacity",
	"routing_route_ttl_seconds":                 "routing.route_ttl_seconds",
	"routing_port_ttl_seconds":                  "routing.port_ttl_seconds",
	"routing_direct_safety_margin":              "routing.direct_safety_margin",
	"routing_hub_detour_cap":                    "routing.hub_detour_cap",
	"routing_penalty_factor":                    "routing.penalty_factor",
	"routing_fuel_price_usd_per_ton":            "routing.fuel_price_usd_per_ton",
	"routing_default_load_factor":               "routing.default_load_factor",
	"routing_default_dwell_hours":               "routing.default_dwell_hours",
	"routing_hub_codes":                         "routing.hub_codes",
	"routing_workers":                           "routing.workers",
}

// sliceFields lists keys parsed as comma-separated slices.
var sliceFields = map[string]bool{
	"routing.hub_codes": true,
}

func isSliceField(key string) bool {
	return sliceFields[key]
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// MustLoad loads the configuration or panics.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load loads the configuration with default loader settings.
func Load() (*Config, error) {
	return NewLoader().Load()
}

// LoadWithServiceDefaults loads the configuration and applies per-service overrides.
func LoadWithServiceDefaults(serviceName string, defaultPort int) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if cfg.GRPC.Port == 50051 && defaultPort != 0 {
		cfg.GRPC.Port = defaultPort
	}

	if cfg.App.Name == "seaway-service" {
		cfg.App.Name = serviceName
	}

	return cfg, nil
}
