// Conjctl is the command-line client for monitoring and controlling a
// running conjunctiond instance. It connects over HTTP and WebSocket to run
// searches, query state, and stream live events from the daemon.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/isr-tools/conjunction-engine/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Conjunction daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --tolerance are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "objects":
		err = ctl.Objects(*host, *jsonOut)

	case "search":
		opts := ctl.SearchOptions{JSON: *jsonOut}
		searchFlags := pflag.NewFlagSet("search", pflag.ContinueOnError)
		searchFlags.IntVar(&opts.ObjectID, "object", 0, "NORAD catalog number")
		searchFlags.StringVar(&opts.Start, "start", "", "Window start (RFC 3339)")
		searchFlags.StringVar(&opts.End, "end", "", "Window end (RFC 3339)")
		searchFlags.StringVar(&opts.Criterion, "criterion", "", "Proximity criterion (zenith, latlon)")
		searchFlags.StringVar(&opts.Frame, "frame", "", "Coordinate frame (geo, mag)")
		searchFlags.Float64Var(&opts.Tolerance, "tolerance", 0, "Zenith-angle tolerance in degrees")
		searchFlags.Float64Var(&opts.StepSeconds, "step", 0, "Sampling step in seconds")
		searchFlags.BoolVar(&opts.Windows, "windows", false, "Restrict to sensor operating windows")
		_ = searchFlags.Parse(subArgs)
		if opts.ObjectID == 0 || opts.Start == "" || opts.End == "" {
			err = fmt.Errorf("search requires --object, --start, and --end")
			break
		}
		if opts.End == "now" {
			opts.End = time.Now().UTC().Format(time.RFC3339)
		}
		err = ctl.Search(*host, opts)

	case "windows":
		opts := ctl.WindowsOptions{JSON: *jsonOut}
		winFlags := pflag.NewFlagSet("windows", pflag.ContinueOnError)
		winFlags.StringVar(&opts.Start, "start", "", "Range start (RFC 3339)")
		winFlags.StringVar(&opts.End, "end", "", "Range end (RFC 3339)")
		_ = winFlags.Parse(subArgs)
		if opts.Start == "" || opts.End == "" {
			err = fmt.Errorf("windows requires --start and --end")
			break
		}
		err = ctl.Windows(*host, opts)

	// ── Control commands ──────────────────────────────────────────
	case "catalog-refresh":
		err = ctl.CatalogRefresh(*host, *jsonOut)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  conjctl — Conjunction Engine control CLI

  USAGE
    conjctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and catalog summary
    health          Check daemon liveness
    version         Show CLI and daemon version information
    config          Show the daemon's running configuration
    objects         List the element catalog
    search          Find conjunctions of an object over a time window
    windows         List sensor operating windows in a time range

  COMMANDS (control)
    catalog-refresh Force an element catalog update from the network

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    search:
        --object N          NORAD catalog number (required)
        --start TIME        Window start, RFC 3339 (required)
        --end TIME          Window end, RFC 3339 (required)
        --criterion NAME    Proximity criterion: zenith or latlon
        --frame NAME        Coordinate frame: geo or mag
        --tolerance DEG     Zenith-angle tolerance in degrees
        --step SECS         Sampling step in seconds
        --windows           Restrict to sensor operating windows

    windows:
        --start TIME        Range start, RFC 3339 (required)
        --end TIME          Range end, RFC 3339 (required)

  EXAMPLES
    conjctl status
    conjctl --json status
    conjctl --host http://192.168.8.1:8080 watch
    conjctl objects
    conjctl search --object 25544 --start 2026-08-25T00:00:00Z --end 2026-08-26T00:00:00Z
    conjctl search --object 39452 --start 2026-08-25T00:00:00Z --end 2026-08-26T00:00:00Z --windows
    conjctl search --object 25544 --start 2026-08-25T00:00:00Z --end 2026-08-26T00:00:00Z --criterion latlon
    conjctl windows --start 2026-08-25T00:00:00Z --end 2026-08-26T00:00:00Z
    conjctl catalog-refresh
    conjctl watch --filter state,log,pass

`)
}
