package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/core/agg"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// viewConfig scopes the base config to the user, range and interval query params.
func (s *Server) viewConfig(r *http.Request) (*contract.Config, error) {
	q := r.URL.Query()
	user := strings.TrimSpace(q.Get("user"))
	if user != "" {
		if err := contract.ValidateUserName(user); err != nil {
			return nil, badRequest(err.Error())
		}
	}
	cfg, err := s.config().CloneWithView(user, q.Get("range"))
	if err != nil {
		return nil, badRequest(err.Error())
	}
	if raw := q.Get("interval"); raw != "" {
		interval, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || interval <= 0 {
			return nil, badRequest(fmt.Sprintf("interval must be a positive number of seconds (received %q)", raw))
		}
		cfg.Interval = interval
	}
	return cfg, nil
}

// recordsHandler runs the pipeline for the request view and renders the result of view.
func (s *Server) recordsHandler(view func(cfg *contract.Config, result *core.LoadResult) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.viewConfig(r)
		if err != nil {
			writeError(w, err)
			return
		}
		result, err := core.LoadRecords(core.WithSuppressHeader(r.Context()), cfg, s.mgr, s.source)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view(cfg, result))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	dir, err := core.ResolveLogDir(r.Context(), s.config(), s.mgr.GetItemStore(), s.source)
	if err != nil {
		writeError(w, err)
		return
	}
	users, err := s.source.ListUsers(r.Context(), dir)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dir": dir, "users": users})
}

func overviewView(_ *contract.Config, result *core.LoadResult) any {
	return agg.Overview(result.Records, result.Now)
}

func incomeView(cfg *contract.Config, result *core.LoadResult) any {
	return agg.IncomeSeries(result.Records, cfg.Interval)
}

func rarityView(cfg *contract.Config, result *core.LoadResult) any {
	return agg.RaritySeries(result.Records, cfg.Interval)
}

func heatmapView(cfg *contract.Config, result *core.LoadResult) any {
	return agg.HeatmapSeries(agg.ActivityHeatmap(result.Records, cfg.Location))
}

func treemapView(_ *contract.Config, result *core.LoadResult) any {
	return agg.Treemap(agg.ItemLogsFromRollup(agg.SortTopItems(agg.RollupItems(result.Records))))
}

func groupsView(_ *contract.Config, result *core.LoadResult) any {
	return agg.GroupByRarity(agg.ItemLogsFromRollup(agg.SortTopItems(agg.RollupItems(result.Records))))
}

func correlationView(_ *contract.Config, result *core.LoadResult) any {
	logs := agg.ItemLogsFromRollup(agg.SortTopItems(agg.RollupItems(result.Records)))
	return map[string]any{
		"correlation": agg.ValueQuantityCorrelation(logs),
		"points":      agg.ValueQuantityPoints(logs),
	}
}

func activityView(cfg *contract.Config, result *core.LoadResult) any {
	return map[string]any{
		"by_hour": agg.ActivityByHour(result.Records, cfg.Location),
		"by_day":  agg.ActivityByDay(result.Records, cfg.Location),
	}
}

func dashboardView(cfg *contract.Config, result *core.LoadResult) any {
	return core.BuildDashboard(result.Records, cfg, result.Now)
}

// handleItems ranks items and keeps the first limit of them.
// The limit query param overrides the configured result limit; 0 keeps every item.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	limit := s.config().ResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > contract.MaxResultLimit {
			writeError(w, badRequest(fmt.Sprintf("limit must be between 0 and %d (received %q)", contract.MaxResultLimit, raw)))
			return
		}
		limit = n
	}

	s.recordsHandler(func(_ *contract.Config, result *core.LoadResult) any {
		items := agg.SortTopItems(agg.RollupItems(result.Records))
		total := len(items)
		if limit > 0 && total > limit {
			items = items[:limit]
		}
		return map[string]any{"total": total, "items": items}
	})(w, r)
}

func (s *Server) handleStoreStatus(w http.ResponseWriter, _ *http.Request) {
	store := s.mgr.GetItemStore()
	if store == nil {
		writeError(w, contract.ErrStoreUnavailable)
		return
	}
	status, err := store.GetStatus()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	store := s.mgr.GetItemStore()
	if store == nil {
		writeError(w, contract.ErrStoreUnavailable)
		return
	}
	settings, err := store.ListSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if settings == nil {
		settings = []schema.Setting{}
	}
	writeJSON(w, http.StatusOK, settings)
}

// settingsRequest is the body of PUT /api/settings.
type settingsRequest struct {
	Dir string `json:"dir"`
}

// handlePutSettings stores a new log directory and moves the watcher to it.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Dir) == "" {
		writeError(w, badRequest("dir is required"))
		return
	}

	store := s.mgr.GetItemStore()
	if store == nil {
		writeError(w, contract.ErrStoreUnavailable)
		return
	}
	dir, err := s.source.ResolveDir(r.Context(), req.Dir)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	if err := store.SetSetting(r.Context(), schema.LogDirSetting, dir); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.cfg = s.cfg.Clone()
	s.cfg.LogDir = dir
	s.mu.Unlock()
	s.watch(dir)

	writeJSON(w, http.StatusOK, map[string]string{"dir": dir})
}

// handleClearLog truncates the log of one user.
func (s *Server) handleClearLog(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	if err := contract.ValidateUserName(user); err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	if user == contract.DefaultUser {
		writeError(w, badRequest("a single user is required to clear a log"))
		return
	}

	dir, err := core.ResolveLogDir(r.Context(), s.config(), s.mgr.GetItemStore(), s.source)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.source.ClearUserLog(r.Context(), dir, user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": user, "dir": dir})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	serveSSE(s.hub, w, r)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	serveWS(s.hub, w, r)
}
