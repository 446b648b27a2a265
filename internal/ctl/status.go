package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name            string `json:"name"`
	State           string `json:"state"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	DataRoot        string `json:"data_root"`
	DemoEnabled     bool   `json:"demo_enabled"`
	WSClients       int    `json:"ws_clients"`
	Objects         int    `json:"objects"`
	CatalogCacheAge int64  `json:"catalog_cache_age_seconds"`
	Site            struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
		Alt float64 `json:"alt"`
	} `json:"site"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	fmt.Println()
	fmt.Println(header("  CONJUNCTION ENGINE STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Data:"), s.DataRoot)
	fmt.Printf("  %-12s %.4f, %.4f, %.0fm\n", colorize(dim, "Site:"), s.Site.Lat, s.Site.Lon, s.Site.Alt)
	if s.Objects > 0 {
		fmt.Printf("  %-12s %d\n", colorize(dim, "Objects:"), s.Objects)
	}
	if s.CatalogCacheAge > 0 {
		age := formatDuration(time.Duration(s.CatalogCacheAge) * time.Second)
		fmt.Printf("  %-12s %s\n", colorize(dim, "Cache age:"), age)
	}
	if s.DemoEnabled {
		fmt.Printf("  %-12s %s\n", colorize(dim, "Mode:"), colorize(yellow, "DEMO"))
	}
	fmt.Printf("  %-12s %d\n", colorize(dim, "Watchers:"), s.WSClients)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), baseURL)
	fmt.Println()

	return nil
}
