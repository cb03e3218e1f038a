package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/cors"

	"eve-render/internal/db"
	"eve-render/internal/galaxy"
	"eve-render/internal/headless"
	"eve-render/internal/traffic"
	"eve-render/internal/vmath"
)

const maxNeighborJumps = 10

// Server exposes read-only simulation state plus a manual feed refresh.
// Every dependency except catalog may be nil.
type Server struct {
	version  string
	catalog  *galaxy.Catalog
	clock    *galaxy.Clock
	renderer *headless.Renderer
	feed     *traffic.Feed
	db       *db.DB
	started  time.Time
}

// NewServer creates the status API server.
func NewServer(version string, catalog *galaxy.Catalog, clock *galaxy.Clock, renderer *headless.Renderer, feed *traffic.Feed, database *db.DB) *Server {
	return &Server{
		version:  version,
		catalog:  catalog,
		clock:    clock,
		renderer: renderer,
		feed:     feed,
		db:       database,
		started:  time.Now(),
	}
}

// Handler returns the HTTP handler with all routes and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/stars/{id}", s.handleStar)
	mux.HandleFunc("GET /api/stars/{id}/neighbors", s.handleNeighbors)
	mux.HandleFunc("GET /api/feed/cycles", s.handleFeedCycles)
	mux.HandleFunc("POST /api/feed/refresh", s.handleFeedRefresh)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

type statusResponse struct {
	Version     string                `json:"version"`
	Started     string                `json:"started"`
	UptimeSec   int64                 `json:"uptime_sec"`
	Stars       int                   `json:"stars"`
	Gates       int                   `json:"gates"`
	Clock       *galaxy.ClockStats    `json:"clock,omitempty"`
	Renderer    *headless.Stats       `json:"renderer,omitempty"`
	FeedRunning bool                  `json:"feed_running"`
	LastCycle   []traffic.CycleResult `json:"last_cycle"`
	Database    bool                  `json:"database"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Version:   s.version,
		Started:   humanize.Time(s.started),
		UptimeSec: int64(time.Since(s.started).Seconds()),
		Stars:     s.catalog.Len(),
		Gates:     s.catalog.Gates().GateCount(),
		LastCycle: []traffic.CycleResult{},
		Database:  s.db != nil,
	}
	if s.clock != nil {
		st := s.clock.Stats()
		resp.Clock = &st
	}
	if s.renderer != nil {
		st := s.renderer.Stats()
		resp.Renderer = &st
	}
	if s.feed != nil {
		resp.FeedRunning = s.feed.IsRunning()
		resp.LastCycle = s.feed.LastCycle()
	}
	writeJSON(w, resp)
}

type starResponse struct {
	ID           int32      `json:"id"`
	Location     vmath.Vec3 `json:"location"`
	Size         float64    `json:"size"`
	Color        string     `json:"color"`
	Security     float64    `json:"security"`
	KillsPerHour int32      `json:"kills_per_hour"`
	JumpsPerHour int32      `json:"jumps_per_hour"`
	Destinations []int32    `json:"destinations"`
}

func (s *Server) lookupStar(w http.ResponseWriter, r *http.Request) (*galaxy.Star, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid star id")
		return nil, false
	}
	star := s.catalog.Star(int32(id))
	if star == nil {
		writeError(w, http.StatusNotFound, "star not found")
		return nil, false
	}
	return star, true
}

func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) {
	star, ok := s.lookupStar(w, r)
	if !ok {
		return
	}
	dests := s.catalog.Destinations(star.ID)
	ids := make([]int32, 0, len(dests))
	for _, d := range dests {
		ids = append(ids, d.ID)
	}
	writeJSON(w, starResponse{
		ID:           star.ID,
		Location:     star.Location,
		Size:         star.Size,
		Color:        star.Color.Hex(),
		Security:     star.Security,
		KillsPerHour: star.KillsPerHour(),
		JumpsPerHour: star.JumpsPerHour(),
		Destinations: ids,
	})
}

type neighbor struct {
	ID       int32   `json:"id"`
	Jumps    int     `json:"jumps"`
	Security float64 `json:"security"`
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	star, ok := s.lookupStar(w, r)
	if !ok {
		return
	}
	jumps := 1
	if v := r.URL.Query().Get("jumps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid jumps")
			return
		}
		jumps = min(n, maxNeighborJumps)
	}
	minSecurity := -1.0
	if v := r.URL.Query().Get("min_security"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < -1 || f > 1 {
			writeError(w, http.StatusBadRequest, "invalid min_security")
			return
		}
		minSecurity = f
	}

	reach := s.catalog.Gates().SystemsWithinRadiusMinSecurity(star.ID, jumps, minSecurity)
	out := make([]neighbor, 0, len(reach))
	for id, d := range reach {
		if id == star.ID {
			continue
		}
		n := neighbor{ID: id, Jumps: d}
		if st := s.catalog.Star(id); st != nil {
			n.Security = st.Security
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Jumps != out[j].Jumps {
			return out[i].Jumps < out[j].Jumps
		}
		return out[i].ID < out[j].ID
	})
	writeJSON(w, out)
}

func (s *Server) handleFeedCycles(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, 500)
	}
	writeJSON(w, s.db.RecentCycles(limit))
}

func (s *Server) handleFeedRefresh(w http.ResponseWriter, r *http.Request) {
	if s.feed == nil {
		writeError(w, http.StatusServiceUnavailable, "traffic feed disabled")
		return
	}
	results, err := s.feed.Refresh(context.WithoutCancel(r.Context()))
	if errors.Is(err, traffic.ErrStopped) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
