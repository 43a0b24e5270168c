// Package config defines the service configuration tree and loads it from
// defaults, an optional YAML file, and SEAWAY_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	App      AppConfig      `koanf:"app"`
	GRPC     GRPCConfig     `koanf:"grpc"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Routing  RoutingConfig  `koanf:"routing"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// GRPCConfig holds gRPC server settings.
type GRPCConfig struct {
	Port           int       `koanf:"port"`
	MaxRecvMsgSize int       `koanf:"max_recv_msg_size"` // bytes
	MaxSendMsgSize int       `koanf:"max_send_msg_size"` // bytes
	TLS            TLSConfig `koanf:"tls"`
}

// TLSConfig holds TLS settings.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
	CAFile   string `koanf:"ca_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // log file location
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // rotated files kept
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig holds port database settings.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"` // postgres
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch strings.ToLower(d.Driver) {
	case "postgres", "postgresql":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
		)
	default:
		return ""
	}
}

// CacheConfig holds shared cache settings.
type CacheConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Driver      string        `koanf:"driver"` // redis, memory
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DefaultTTL  time.Duration `koanf:"default_ttl"`
	MaxEntries  int           `koanf:"max_entries"` // in-memory backend only
	CompressMin int           `koanf:"compress_min"`
}

// Address returns the cache server address.
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RoutingConfig holds the route calculation knobs.
type RoutingConfig struct {
	MaxEdgeDistanceNM  float64  `koanf:"max_edge_distance_nm"`
	MaxAlternatives    int      `koanf:"max_alternatives"`
	CalculationTimeout int      `koanf:"route_calculation_timeout_seconds"`
	RouteCacheCapacity int      `koanf:"route_cache_capacity"`
	RouteTTLSeconds    int      `koanf:"route_ttl_seconds"`
	PortTTLSeconds     int      `koanf:"port_ttl_seconds"`
	DirectSafetyMargin float64  `koanf:"direct_safety_margin"`
	HubDetourCap       float64  `koanf:"hub_detour_cap"`
	PenaltyFactor      float64  `koanf:"penalty_factor"`
	FuelPriceUSDPerTon float64  `koanf:"fuel_price_usd_per_ton"`
	DefaultLoadFactor  float64  `koanf:"default_load_factor"`
	DefaultDwellHours  float64  `koanf:"default_dwell_hours"`
	HubCodes           []string `koanf:"hub_codes"`
	Workers            int      `koanf:"workers"`
}

// DefaultRoutingConfig returns routing settings matching the loader defaults.
// Callers that bypass the loader, such as benchmarks, start from this.
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		MaxEdgeDistanceNM:  5000.0,
		MaxAlternatives:    5,
		CalculationTimeout: 30,
		RouteCacheCapacity: 1000,
		RouteTTLSeconds:    1800,
		PortTTLSeconds:     86400,
		DirectSafetyMargin: 0.9,
		HubDetourCap:       1.2,
		PenaltyFactor:      2.0,
		FuelPriceUSDPerTon: 600.0,
		DefaultLoadFactor:  0.8,
		DefaultDwellHours:  24.0,
		HubCodes: []string{
			"SGSIN", "NLRTM", "CNSHA", "AEJEA", "USLAX",
			"DEHAM", "HKHKG", "BEANR",
		},
	}
}

// RouteTTL returns the route cache TTL as a duration.
func (r RoutingConfig) RouteTTL() time.Duration {
	return time.Duration(r.RouteTTLSeconds) * time.Second
}

// PortTTL returns the port record cache TTL as a duration.
func (r RoutingConfig) PortTTL() time.Duration {
	return time.Duration(r.PortTTLSeconds) * time.Second
}

// Timeout returns the default calculation deadline as a duration.
func (r RoutingConfig) Timeout() time.Duration {
	return time.Duration(r.CalculationTimeout) * time.Second
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		errs = append(errs, fmt.Sprintf("grpc.port must be between 1 and 65535, got %d", c.GRPC.Port))
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Routing.MaxEdgeDistanceNM <= 0 {
		errs = append(errs, "routing.max_edge_distance_nm must be positive")
	}

	if c.Routing.MaxAlternatives < 0 || c.Routing.MaxAlternatives > 10 {
		errs = append(errs, fmt.Sprintf("routing.max_alternatives must be in [0,10], got %d", c.Routing.MaxAlternatives))
	}

	if c.Routing.CalculationTimeout < 5 || c.Routing.CalculationTimeout > 120 {
		errs = append(errs, fmt.Sprintf("routing.route_calculation_timeout_seconds must be in [5,120], got %d", c.Routing.CalculationTimeout))
	}

	if c.Routing.RouteCacheCapacity <= 0 {
		errs = append(errs, "routing.route_cache_capacity must be positive")
	}

	if c.Routing.DirectSafetyMargin <= 0 || c.Routing.DirectSafetyMargin > 1 {
		errs = append(errs, "routing.direct_safety_margin must be in (0,1]")
	}

	if c.Routing.HubDetourCap < 1 {
		errs = append(errs, "routing.hub_detour_cap must be at least 1")
	}

	if c.Routing.PenaltyFactor <= 1 {
		errs = append(errs, "routing.penalty_factor must be greater than 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
