// Package app wires together the HTTP server, WebSocket hub, element
// catalog, and searcher. It owns the daemon's lifecycle and is the single
// source of truth for the current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/config"
	"github.com/isr-tools/conjunction-engine/internal/frame"
	"github.com/isr-tools/conjunction-engine/internal/tle"
	"github.com/isr-tools/conjunction-engine/internal/windows"
	"github.com/isr-tools/conjunction-engine/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, the element catalog, and the search pipeline.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, SEARCHING)

	store *tle.Store
	winDB *windows.Store
	site  frame.Site
	wsHub *ws.Hub

	libMu sync.RWMutex
	lib   *tle.Library
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		startedAt: time.Now(),
		store:     tle.NewStore(opts.Cfg.Catalog.URL, opts.Cfg.Data.Root, opts.Cfg.Catalog.RefreshHours),
		wsHub:     ws.NewHub(),
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, WebSocket hub, and heartbeat ticker, resolves
// the site, and loads the element catalog. It blocks until the context is
// cancelled or the server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	if a.cfg.Windows.DBPath != "" {
		db, err := windows.Open(a.cfg.Windows.DBPath)
		if err != nil {
			return err
		}
		a.winDB = db
		defer db.Close()
	}

	if err := a.resolveSite(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/objects", a.handleObjects)
	mux.HandleFunc("/api/conjunctions", a.handleConjunctions)
	mux.HandleFunc("/api/windows", a.handleWindows)
	mux.HandleFunc("/api/catalog/refresh", a.handleCatalogRefresh)
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		go a.demoLoop(ctx)
	} else {
		go a.loadCatalog()
	}

	a.transition("IDLE")

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// resolveSite determines the ground site location: the windows database
// when a shortname is configured, otherwise the TOML values.
func (a *App) resolveSite(ctx context.Context) error {
	sc := a.cfg.Site
	if sc.Shortname != "" && a.winDB != nil {
		rec, err := a.winDB.Site(ctx, sc.Shortname)
		if err != nil {
			return err
		}
		a.site = frame.NewSite(rec.Latitude, rec.Longitude, rec.Altitude)
		a.log.Printf("site %s from windows db: %.4f, %.4f, %.0fm",
			sc.Shortname, rec.Latitude, rec.Longitude, rec.Altitude)
		return nil
	}

	a.site = frame.NewSite(sc.Latitude, sc.Longitude, sc.Altitude)
	a.log.Printf("site from config: %.4f, %.4f, %.0fm", sc.Latitude, sc.Longitude, sc.Altitude)
	return nil
}

// loadCatalog loads the element library through the store's cache chain.
// Runs once at startup; failures leave the library empty until a refresh.
func (a *App) loadCatalog() {
	lib, err := a.store.Library()
	if err != nil {
		a.log.Printf("catalog load failed: %v", err)
		a.emit("catalog", map[string]any{
			"type":    "log",
			"level":   "error",
			"message": "catalog load failed: " + err.Error(),
		})
		return
	}

	a.libMu.Lock()
	a.lib = lib
	a.libMu.Unlock()

	a.log.Printf("catalog loaded: %d objects", len(lib.Objects()))
}

func (a *App) library() *tle.Library {
	a.libMu.RLock()
	defer a.libMu.RUnlock()
	return a.lib
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      "state",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"from":      old,
		"to":        newState,
		"component": "conjunctiond",
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(map[string]any{
				"type":           "heartbeat",
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}

// emit stamps a payload with a timestamp and component name, then pushes
// it to every connected WebSocket client.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}
