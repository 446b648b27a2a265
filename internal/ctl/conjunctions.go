package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchOptions controls the search command.
type SearchOptions struct {
	ObjectID    int
	Start       string // RFC 3339
	End         string // RFC 3339
	Criterion   string
	Frame       string
	Tolerance   float64
	StepSeconds float64
	Windows     bool // restrict to sensor operating windows
	JSON        bool
}

// Search asks the daemon for conjunctions of one object over a window and
// prints the resulting passes.
func Search(baseURL string, opts SearchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	params.Set("object", strconv.Itoa(opts.ObjectID))
	params.Set("start", opts.Start)
	params.Set("end", opts.End)
	if opts.Criterion != "" {
		params.Set("criterion", opts.Criterion)
	}
	if opts.Frame != "" {
		params.Set("frame", opts.Frame)
	}
	if opts.Tolerance > 0 {
		params.Set("tolerance", strconv.FormatFloat(opts.Tolerance, 'f', -1, 64))
	}
	if opts.StepSeconds > 0 {
		params.Set("step_seconds", strconv.FormatFloat(opts.StepSeconds, 'f', -1, 64))
	}
	if opts.Windows {
		params.Set("windows", "true")
	}

	var resp struct {
		RunID    string `json:"run_id"`
		ObjectID int    `json:"object_id"`
		Start    string `json:"start"`
		End      string `json:"end"`
		Passes   []struct {
			Window         string `json:"window"`
			Mode           string `json:"mode"`
			Start          string `json:"start"`
			End            string `json:"end"`
			Representative string `json:"representative"`
			Samples        int    `json:"samples"`
		} `json:"passes"`
	}

	// Searches propagate the orbit across the whole window, so this can
	// take well over the default client timeout.
	if err := getJSONSlow(baseURL, "/api/conjunctions?"+params.Encode(), &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  CONJUNCTIONS"))
	fmt.Printf("  %s %d   %s %s %s %s\n",
		colorize(dim, "Object:"), resp.ObjectID,
		colorize(dim, "Window:"), formatLocalTime(resp.Start),
		colorize(dim, "to"), formatLocalTime(resp.End),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 84)))

	if len(resp.Passes) == 0 {
		fmt.Println(colorize(dim, "  No passes found."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-4s %-20s %-20s %9s %8s  %s\n",
		colorize(dim, "#"),
		colorize(dim, "Start"),
		colorize(dim, "End"),
		colorize(dim, "Duration"),
		colorize(dim, "Samples"),
		colorize(dim, "Window"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 84)))

	for i, p := range resp.Passes {
		win := p.Window
		if win != "" && p.Mode != "" {
			win += " (" + p.Mode + ")"
		}
		fmt.Printf("  %-4d %-20s %-20s %9s %8d  %s\n",
			i+1,
			formatLocalTime(p.Start),
			formatLocalTime(p.End),
			passDuration(p.Start, p.End),
			p.Samples,
			colorize(bold, win),
		)
	}
	fmt.Printf("\n  %s %d\n\n", colorize(dim, "Total passes:"), len(resp.Passes))

	return nil
}

func passDuration(start, end string) string {
	s, err1 := time.Parse(time.RFC3339, start)
	e, err2 := time.Parse(time.RFC3339, end)
	if err1 != nil || err2 != nil {
		return "?"
	}
	return formatDuration(e.Sub(s))
}
