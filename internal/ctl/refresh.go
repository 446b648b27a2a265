package ctl

import (
	"fmt"
	"strings"
)

// CatalogRefresh forces the daemon to refetch the element catalog from the
// network, bypassing the disk cache.
func CatalogRefresh(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Objects int `json:"objects"`
	}
	if err := postJSON(baseURL, "/api/catalog/refresh", nil, &resp); err != nil {
		if jsonOutput {
			return printJSON(map[string]any{"ok": false, "error": err.Error()})
		}
		fmt.Println()
		fmt.Printf("  %s  %s\n", colorize(red, "FAILED"), err.Error())
		fmt.Println()
		return nil
	}

	if jsonOutput {
		return printJSON(map[string]any{"ok": true, "objects": resp.Objects})
	}

	fmt.Println()
	fmt.Printf("  %s  catalog refreshed, %d objects loaded\n", colorize(green, "REFRESHED"), resp.Objects)
	fmt.Println()

	return nil
}
