// Package api provides the read-only HTTP API for observing a running
// market simulation.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/gin-gonic/gin"

	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/persistence"
	"github.com/talgya/mini-market/internal/region"
	"github.com/talgya/mini-market/internal/stats"
)

// Requests per minute a single client may make.
const requestsPerMinute = 600

// Server serves the simulation state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	DB   *persistence.DB // nil disables the history endpoints
	Addr string

	srv *http.Server
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())

	v1 := r.Group("/api/v1")
	v1.Use(RateLimit(NewRateLimiter(requestsPerMinute, time.Minute)))
	v1.GET("/status", s.handleStatus)
	v1.GET("/stats", s.handleStats)
	v1.GET("/stats/history", s.handleStatsHistory)
	v1.GET("/regions", s.handleRegions)
	v1.GET("/regions/:id", s.handleRegion)
	v1.GET("/events", s.handleEvents)
	v1.GET("/prices/:item", s.handlePrices)
	return r
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.srv = &http.Server{Addr: s.Addr, Handler: s.Router()}
	slog.Info("HTTP API starting", "addr", s.Addr, "history", s.DB != nil)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware() gin.HandlerFunc {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowedOrigins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Sim.Status())
}

func (s *Server) handleStats(c *gin.Context) {
	v, err := s.Sim.WorldSummary()
	if err != nil {
		slog.Error("world summary failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleRegions(c *gin.Context) {
	regions := s.Sim.RegionList()
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusOK, regions)
		return
	}

	var matches []engine.RegionInfo
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			matches = append(matches, r)
		}
	}
	if len(matches) > 0 {
		c.JSON(http.StatusOK, matches)
		return
	}

	resp := gin.H{"error": "region not found"}
	if suggestion, ok := closestName(name, regions); ok {
		resp["suggestion"] = suggestion
	}
	c.JSON(http.StatusNotFound, resp)
}

// closestName returns the region name with the smallest edit distance to
// name, ignoring case.
func closestName(name string, regions []engine.RegionInfo) (string, bool) {
	best, bestDist := "", -1
	lower := strings.ToLower(name)
	for _, r := range regions {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(r.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = r.Name, d
		}
	}
	return best, bestDist >= 0
}

func (s *Server) handleRegion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	v, err := s.Sim.Summary(region.NodeID(id))
	switch {
	case errors.Is(err, region.ErrUnknownNode):
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
	case errors.Is(err, stats.ErrNotAggregatable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a country, state or city"})
	case err != nil:
		slog.Error("region summary failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
	default:
		c.JSON(http.StatusOK, v)
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	limit := queryInt(c, "limit", 50, 1000)
	category := c.Query("category")

	events := s.Sim.RecentEvents(limit, category)
	if len(events) == 0 && s.DB != nil && category == "" {
		// Nothing in memory yet; fall back to what earlier reports stored.
		stored, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("recent events query failed", "error", err)
		} else {
			events = stored
		}
	}
	if events == nil {
		events = []engine.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleStatsHistory(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not available"})
		return
	}

	fromTick := int64(0)
	toTick := int64(1<<63 - 1)
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			fromTick = v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			toTick = v
		}
	}
	limit := queryInt(c, "limit", 30, 1000)

	rows, err := s.DB.LoadStatsHistory(fromTick, toTick, limit)
	if err != nil {
		slog.Error("stats history query failed", "error", err)
		rows = nil
	}
	if rows == nil {
		rows = []persistence.StatsRow{}
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handlePrices(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not available"})
		return
	}

	points, err := s.DB.LoadPriceHistory(c.Param("item"), queryInt(c, "limit", 30, 1000))
	if err != nil {
		slog.Error("price history query failed", "error", err)
		points = nil
	}
	if points == nil {
		points = []persistence.PricePoint{}
	}
	c.JSON(http.StatusOK, points)
}

// queryInt reads a positive integer query parameter no larger than upper.
// Anything else yields def.
func queryInt(c *gin.Context, key string, def, upper int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= upper {
			return v
		}
	}
	return def
}
