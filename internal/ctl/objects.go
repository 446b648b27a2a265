package ctl

import (
	"fmt"
	"strings"
)

// Objects lists the element catalog loaded by the daemon.
func Objects(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Objects []struct {
			ObjectID   int    `json:"object_id"`
			Name       string `json:"name"`
			Snapshots  int    `json:"snapshots"`
			FirstEpoch string `json:"first_epoch"`
			LastEpoch  string `json:"last_epoch"`
		} `json:"objects"`
	}
	if err := getJSON(baseURL, "/api/objects", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  ELEMENT CATALOG"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	if len(resp.Objects) == 0 {
		fmt.Println(colorize(dim, "  Catalog is empty."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-8s %-24s %5s  %-20s %s\n",
		colorize(dim, "NORAD"),
		colorize(dim, "Name"),
		colorize(dim, "Sets"),
		colorize(dim, "First epoch"),
		colorize(dim, "Last epoch"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	for _, o := range resp.Objects {
		fmt.Printf("  %-8d %-24s %5d  %-20s %s\n",
			o.ObjectID,
			colorize(bold, o.Name),
			o.Snapshots,
			formatLocalTime(o.FirstEpoch),
			formatLocalTime(o.LastEpoch),
		)
	}
	fmt.Printf("\n  %s %d\n\n", colorize(dim, "Total objects:"), len(resp.Objects))

	return nil
}
