package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	// Decode into ordered sections for human-readable output.
	var cfg struct {
		Data struct {
			Root string `json:"root"`
		} `json:"data"`
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Demo struct {
			Enabled         bool `json:"enabled"`
			IntervalSeconds int  `json:"interval_seconds"`
		} `json:"demo"`
		Site struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Altitude  float64 `json:"altitude"`
			Shortname string  `json:"shortname"`
		} `json:"site"`
		Catalog struct {
			URL          string `json:"url"`
			RefreshHours int    `json:"refresh_hours"`
		} `json:"catalog"`
		Search struct {
			StepSeconds        float64 `json:"step_seconds"`
			Criterion          string  `json:"criterion"`
			Frame              string  `json:"frame"`
			ZenithToleranceDeg float64 `json:"zenith_tolerance_deg"`
			LatToleranceDeg    float64 `json:"lat_tolerance_deg"`
			LonToleranceDeg    float64 `json:"lon_tolerance_deg"`
			MaxEpochAgeDays    int     `json:"max_epoch_age_days"`
			Workers            int     `json:"workers"`
		} `json:"search"`
		Windows struct {
			DBPath string `json:"db_path"`
		} `json:"windows"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-22s %v\n", colorize(dim, key+":"), val)
	}

	section("data")
	field("root", cfg.Data.Root)

	section("logging")
	field("level", cfg.Logging.Level)

	section("server")
	field("bind", cfg.Server.Bind)

	section("demo")
	field("enabled", cfg.Demo.Enabled)
	field("interval_seconds", cfg.Demo.IntervalSeconds)

	section("site")
	field("latitude", cfg.Site.Latitude)
	field("longitude", cfg.Site.Longitude)
	field("altitude", cfg.Site.Altitude)
	field("shortname", cfg.Site.Shortname)

	section("catalog")
	field("url", cfg.Catalog.URL)
	field("refresh_hours", cfg.Catalog.RefreshHours)

	section("search")
	field("step_seconds", cfg.Search.StepSeconds)
	field("criterion", cfg.Search.Criterion)
	field("frame", cfg.Search.Frame)
	field("zenith_tolerance_deg", cfg.Search.ZenithToleranceDeg)
	field("lat_tolerance_deg", cfg.Search.LatToleranceDeg)
	field("lon_tolerance_deg", cfg.Search.LonToleranceDeg)
	field("max_epoch_age_days", cfg.Search.MaxEpochAgeDays)
	field("workers", cfg.Search.Workers)

	section("windows")
	field("db_path", cfg.Windows.DBPath)

	fmt.Println()

	return nil
}
