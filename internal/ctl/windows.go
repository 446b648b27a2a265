package ctl

import (
	"fmt"
	"net/url"
	"strings"
)

// WindowsOptions controls the windows command.
type WindowsOptions struct {
	Start string // RFC 3339
	End   string // RFC 3339
	JSON  bool
}

// Windows lists the sensor operating windows overlapping a time range.
func Windows(baseURL string, opts WindowsOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	params.Set("start", opts.Start)
	params.Set("end", opts.End)

	var resp struct {
		Windows []struct {
			Label string `json:"label"`
			Mode  string `json:"mode"`
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"windows"`
	}
	if err := getJSON(baseURL, "/api/windows?"+params.Encode(), &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  OPERATING WINDOWS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	if len(resp.Windows) == 0 {
		fmt.Println(colorize(dim, "  No operating windows in range."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-4s %-16s %-20s %-20s %s\n",
		colorize(dim, "#"),
		colorize(dim, "Label"),
		colorize(dim, "Start"),
		colorize(dim, "End"),
		colorize(dim, "Mode"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	for i, w := range resp.Windows {
		fmt.Printf("  %-4d %-16s %-20s %-20s %s\n",
			i+1,
			colorize(bold, w.Label),
			formatLocalTime(w.Start),
			formatLocalTime(w.End),
			w.Mode,
		)
	}
	fmt.Printf("\n  %s %d\n\n", colorize(dim, "Total windows:"), len(resp.Windows))

	return nil
}
