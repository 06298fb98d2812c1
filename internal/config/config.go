package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Map       MapConfig       `yaml:"map"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type StorageConfig struct {
	Backend    string         `yaml:"backend"`
	Key        string         `yaml:"key"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MapConfig struct {
	Zoom int     `yaml:"zoom"`
	Home *LatLng `yaml:"home"`
}

// LatLng is a configured position in degrees.
type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix PINTRACK_:
//
//	PINTRACK_SERVER_HOST, PINTRACK_SERVER_PORT, PINTRACK_AUTH_API_KEY,
//	PINTRACK_STORAGE_BACKEND, PINTRACK_STORAGE_KEY, PINTRACK_SQLITE_PATH,
//	PINTRACK_DB_HOST, PINTRACK_DB_PORT, PINTRACK_DB_NAME,
//	PINTRACK_DB_USER, PINTRACK_DB_PASSWORD, PINTRACK_DB_SSLMODE,
//	PINTRACK_MAP_ZOOM, PINTRACK_HOME_LAT, PINTRACK_HOME_LNG
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "workoutSave"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/pintrack.db"
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 13
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PINTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PINTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PINTRACK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("PINTRACK_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("PINTRACK_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("PINTRACK_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("PINTRACK_DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("PINTRACK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("PINTRACK_DB_NAME"); v != "" {
		cfg.Storage.Postgres.Name = v
	}
	if v := os.Getenv("PINTRACK_DB_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("PINTRACK_DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("PINTRACK_DB_SSLMODE"); v != "" {
		cfg.Storage.Postgres.SSLMode = v
	}
	if v := os.Getenv("PINTRACK_MAP_ZOOM"); v != "" {
		if zoom, err := strconv.Atoi(v); err == nil {
			cfg.Map.Zoom = zoom
		}
	}
	lat, latErr := strconv.ParseFloat(os.Getenv("PINTRACK_HOME_LAT"), 64)
	lng, lngErr := strconv.ParseFloat(os.Getenv("PINTRACK_HOME_LNG"), 64)
	if latErr == nil && lngErr == nil {
		cfg.Map.Home = &LatLng{Lat: lat, Lng: lng}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if pg.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if pg.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if pg.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, sqlite, postgres", c.Storage.Backend)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("map.zoom must be between 0 and 19")
	}
	if h := c.Map.Home; h != nil {
		if math.IsNaN(h.Lat) || math.IsNaN(h.Lng) || h.Lat < -90 || h.Lat > 90 || h.Lng < -180 || h.Lng > 180 {
			return fmt.Errorf("map.home is not a valid position")
		}
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
