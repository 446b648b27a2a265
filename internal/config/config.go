// Package config handles loading, defaulting, and validation of the
// Conjunction Engine TOML configuration file. Every section maps to a
// typed struct so the rest of the codebase gets strong typing without
// manual key lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/isr-tools/conjunction-engine/internal/conjunction"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data    DataConfig    `toml:"data"    json:"data"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Server  ServerConfig  `toml:"server"  json:"server"`
	Demo    DemoConfig    `toml:"demo"    json:"demo"`
	Site    SiteConfig    `toml:"site"    json:"site"`
	Catalog CatalogConfig `toml:"catalog" json:"catalog"`
	Search  SearchConfig  `toml:"search"  json:"search"`
	Windows WindowsConfig `toml:"windows" json:"windows"`
}

type DataConfig struct {
	Root string `toml:"root" json:"root"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type DemoConfig struct {
	Enabled         bool `toml:"enabled"          json:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds" json:"interval_seconds"`
}

// SiteConfig places the ground site. When Shortname is set and a windows
// database is configured, coordinates are read from the site table instead.
type SiteConfig struct {
	Latitude  float64 `toml:"latitude"  json:"latitude"`
	Longitude float64 `toml:"longitude" json:"longitude"`
	Altitude  float64 `toml:"altitude"  json:"altitude"`
	Shortname string  `toml:"shortname" json:"shortname"`
}

type CatalogConfig struct {
	URL          string `toml:"url"           json:"url"`
	RefreshHours int    `toml:"refresh_hours" json:"refresh_hours"`
}

type SearchConfig struct {
	StepSeconds        float64 `toml:"step_seconds"         json:"step_seconds"`
	Criterion          string  `toml:"criterion"            json:"criterion"`
	Frame              string  `toml:"frame"                json:"frame"`
	ZenithToleranceDeg float64 `toml:"zenith_tolerance_deg" json:"zenith_tolerance_deg"`
	LatToleranceDeg    float64 `toml:"lat_tolerance_deg"    json:"lat_tolerance_deg"`
	LonToleranceDeg    float64 `toml:"lon_tolerance_deg"    json:"lon_tolerance_deg"`
	MaxEpochAgeDays    int     `toml:"max_epoch_age_days"   json:"max_epoch_age_days"`
	Workers            int     `toml:"workers"              json:"workers"`
}

type WindowsConfig struct {
	DBPath string `toml:"db_path" json:"db_path"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root: "/var/lib/conjunction",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled:         false,
			IntervalSeconds: 30,
		},
		Site: SiteConfig{
			Latitude:  65.12,
			Longitude: -147.47,
			Altitude:  0.0,
		},
		Catalog: CatalogConfig{
			URL:          "https://celestrak.org/NORAD/elements/gp.php?GROUP=science&FORMAT=tle",
			RefreshHours: 24,
		},
		Search: SearchConfig{
			StepSeconds:        60,
			Criterion:          "zenith",
			Frame:              "geo",
			ZenithToleranceDeg: 25,
			LatToleranceDeg:    1,
			LonToleranceDeg:    2,
			MaxEpochAgeDays:    14,
			Workers:            4,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the cross-field constraints a usable config must hold.
func Validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Demo.IntervalSeconds < 0 {
		return errors.New("demo.interval_seconds must be >= 0")
	}
	if cfg.Site.Latitude < -90 || cfg.Site.Latitude > 90 {
		return errors.New("site.latitude must be between -90 and 90")
	}
	if cfg.Site.Longitude < -180 || cfg.Site.Longitude > 360 {
		return errors.New("site.longitude must be between -180 and 360")
	}
	if cfg.Catalog.RefreshHours < 1 {
		return errors.New("catalog.refresh_hours must be >= 1")
	}
	if cfg.Search.StepSeconds <= 0 {
		return errors.New("search.step_seconds must be > 0")
	}
	if _, err := conjunction.ParseCriterion(cfg.Search.Criterion); err != nil {
		return err
	}
	if _, err := conjunction.ParseCoordFrame(cfg.Search.Frame); err != nil {
		return err
	}
	if cfg.Search.ZenithToleranceDeg <= 0 || cfg.Search.ZenithToleranceDeg > 90 {
		return errors.New("search.zenith_tolerance_deg must be in (0, 90]")
	}
	if cfg.Search.LatToleranceDeg <= 0 || cfg.Search.LonToleranceDeg <= 0 {
		return errors.New("search lat/lon tolerances must be > 0")
	}
	if cfg.Search.MaxEpochAgeDays < 1 {
		return errors.New("search.max_epoch_age_days must be >= 1")
	}
	if cfg.Search.Workers < 1 {
		return errors.New("search.workers must be >= 1")
	}
	return nil
}
