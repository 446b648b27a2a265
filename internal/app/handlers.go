package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/conjunction"
	"github.com/isr-tools/conjunction-engine/internal/propagate"
	"github.com/isr-tools/conjunction-engine/internal/search"
)

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":           "conjunction-engine",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"data_root":      a.cfg.Data.Root,
		"demo_enabled":   a.cfg.Demo.Enabled,
		"ws_clients":     a.wsHub.ClientCount(),
		"site": map[string]any{
			"lat": a.site.LatDeg,
			"lon": a.site.LonDeg,
			"alt": a.site.AltM,
		},
	}

	if lib := a.library(); lib != nil {
		resp["objects"] = len(lib.Objects())
	}
	if age, ok := a.store.CacheAge(); ok {
		resp["catalog_cache_age_seconds"] = int64(age.Seconds())
	}
	if du := diskUsage(a.cfg.Data.Root); du != nil {
		resp["disk"] = du
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.cfg)
}

func (a *App) handleObjects(w http.ResponseWriter, _ *http.Request) {
	lib := a.library()
	if lib == nil {
		http.Error(w, "element catalog not loaded", http.StatusServiceUnavailable)
		return
	}

	type objJSON struct {
		ObjectID   int    `json:"object_id"`
		Name       string `json:"name"`
		Snapshots  int    `json:"snapshots"`
		FirstEpoch string `json:"first_epoch"`
		LastEpoch  string `json:"last_epoch"`
	}

	var objs []objJSON
	for _, id := range lib.Objects() {
		snaps, err := lib.Snapshots(id)
		if err != nil {
			continue
		}
		objs = append(objs, objJSON{
			ObjectID:   id,
			Name:       snaps[0].Name,
			Snapshots:  len(snaps),
			FirstEpoch: snaps[0].Epoch.UTC().Format(time.RFC3339),
			LastEpoch:  snaps[len(snaps)-1].Epoch.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"objects": objs})
}

// handleConjunctions runs a search for one object over a requested window.
// Query parameters: object (NORAD ID, required), start and end (RFC 3339,
// required), plus optional criterion, frame, tolerance, lat_tolerance,
// lon_tolerance, step_seconds, and windows=true to restrict the search to
// sensor operating windows.
func (a *App) handleConjunctions(w http.ResponseWriter, r *http.Request) {
	lib := a.library()
	if lib == nil {
		http.Error(w, "element catalog not loaded", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()

	objectID, err := strconv.Atoi(q.Get("object"))
	if err != nil {
		http.Error(w, "object must be a NORAD catalog number", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		http.Error(w, "start must be RFC 3339", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		http.Error(w, "end must be RFC 3339", http.StatusBadRequest)
		return
	}

	params, err := a.searchParams(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := search.New(search.Options{
		Library:    lib,
		Propagator: propagate.SGP4{},
		Site:       a.site,
		Windows:    a.winDB,
		Hub:        a.wsHub,
		Logger:     a.log,
		Params:     params,
	})

	a.transition("SEARCHING")
	defer a.transition("IDLE")

	var res search.Result
	if q.Get("windows") == "true" {
		res, err = s.WindowConjunctions(r.Context(), objectID, start, end)
	} else {
		res, err = s.Conjunctions(r.Context(), objectID, start, end)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(conjunctionsToJSON(res))
}

func (a *App) handleWindows(w http.ResponseWriter, r *http.Request) {
	if a.winDB == nil {
		http.Error(w, "no operating-window database configured", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		http.Error(w, "start must be RFC 3339", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		http.Error(w, "end must be RFC 3339", http.StatusBadRequest)
		return
	}

	wins, err := a.winDB.Windows(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type winJSON struct {
		Label string `json:"label"`
		Mode  string `json:"mode"`
		Start string `json:"start"`
		End   string `json:"end"`
	}
	out := make([]winJSON, len(wins))
	for i, win := range wins {
		out[i] = winJSON{
			Label: win.Label,
			Mode:  win.Mode,
			Start: win.Start.Format(time.RFC3339),
			End:   win.End.Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"windows": out})
}

func (a *App) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	lib, err := a.store.ForceRefresh()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	a.libMu.Lock()
	a.lib = lib
	a.libMu.Unlock()

	a.log.Printf("catalog refreshed: %d objects", len(lib.Objects()))
	a.emit("catalog", map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "catalog refreshed from network",
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"objects": len(lib.Objects())})
}

// searchParams builds search parameters from the config defaults with any
// query-string overrides applied.
func (a *App) searchParams(q map[string][]string) (search.Params, error) {
	sc := a.cfg.Search

	get := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if v := get("criterion"); v != "" {
		sc.Criterion = v
	}
	if v := get("frame"); v != "" {
		sc.Frame = v
	}
	if v := get("tolerance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return search.Params{}, err
		}
		sc.ZenithToleranceDeg = f
	}
	if v := get("lat_tolerance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return search.Params{}, err
		}
		sc.LatToleranceDeg = f
	}
	if v := get("lon_tolerance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return search.Params{}, err
		}
		sc.LonToleranceDeg = f
	}
	if v := get("step_seconds"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return search.Params{}, err
		}
		sc.StepSeconds = f
	}

	criterion, err := conjunction.ParseCriterion(sc.Criterion)
	if err != nil {
		return search.Params{}, err
	}
	coordFrame, err := conjunction.ParseCoordFrame(sc.Frame)
	if err != nil {
		return search.Params{}, err
	}

	return search.Params{
		Step:               time.Duration(sc.StepSeconds * float64(time.Second)),
		Criterion:          criterion,
		Frame:              coordFrame,
		ZenithToleranceDeg: sc.ZenithToleranceDeg,
		LatToleranceDeg:    sc.LatToleranceDeg,
		LonToleranceDeg:    sc.LonToleranceDeg,
		MaxEpochAge:        time.Duration(sc.MaxEpochAgeDays) * 24 * time.Hour,
		Workers:            sc.Workers,
	}, nil
}

// conjunctionsToJSON flattens a search result for the HTTP response.
func conjunctionsToJSON(res search.Result) map[string]any {
	type passJSON struct {
		Window         string `json:"window,omitempty"`
		Mode           string `json:"mode,omitempty"`
		Start          string `json:"start"`
		End            string `json:"end"`
		Representative string `json:"representative"`
		Samples        int    `json:"samples"`
	}

	passes := make([]passJSON, len(res.Passes))
	for i, p := range res.Passes {
		passes[i] = passJSON{
			Window:         p.Label,
			Mode:           p.Mode,
			Start:          p.Start().UTC().Format(time.RFC3339),
			End:            p.End().UTC().Format(time.RFC3339),
			Representative: p.Representative().Format(time.RFC3339),
			Samples:        len(p.Samples),
		}
	}

	return map[string]any{
		"run_id":    res.RunID,
		"object_id": res.ObjectID,
		"start":     res.Start.UTC().Format(time.RFC3339),
		"end":       res.End.UTC().Format(time.RFC3339),
		"passes":    passes,
	}
}
