package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brightlines/interference-tracker/internal/pkg/logger"
	"github.com/brightlines/interference-tracker/internal/utils"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Geocode GeocodeConfig `yaml:"geocode"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // sqlite file path
	DSN    string `yaml:"dsn"`    // postgres DSN
}

type IngestConfig struct {
	GeoPath  string `yaml:"geo_path"`
	PostPath string `yaml:"post_path"`
	SiteBase string `yaml:"site_base"`
}

type GeocodeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Load reads an optional YAML file and applies environment overrides on top.
func Load(path string, log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         "8080",
			AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "data/incidents.sqlite",
		},
		Ingest: IngestConfig{
			SiteBase: "https://securingdemocracy.gmfus.org",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Server.Port = utils.GetEnv("SERVER_PORT", cfg.Server.Port, log)
	cfg.DB.Driver = utils.GetEnv("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.Path = utils.GetEnv("TRACKER_DB", cfg.DB.Path, log)
	cfg.DB.DSN = utils.GetEnv("POSTGRES_DSN", cfg.DB.DSN, log)
	cfg.Ingest.SiteBase = utils.GetEnv("SITE_BASE", cfg.Ingest.SiteBase, log)
	cfg.Geocode.Enabled = utils.GetEnvAsBool("GEOCODE_ENABLED", cfg.Geocode.Enabled, log)
	cfg.Geocode.Endpoint = utils.GetEnv("GEOCODE_ENDPOINT", cfg.Geocode.Endpoint, log)

	return cfg, nil
}
