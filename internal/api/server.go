// Package api provides the HTTP server for Questify. It exposes the
// gamification state (stats, badges, quests, streaks, notifications)
// and the event endpoints the host app posts rewards to.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questify-app/questify/internal/app/gamify"
	"github.com/questify-app/questify/internal/health"
)

// Server is the Questify HTTP API server.
type Server struct {
	engine         *gamify.Engine
	version        string
	metricsEnabled bool
	health         *health.Checker
}

// NewServer creates a new API server backed by the given engine.
func NewServer(engine *gamify.Engine, version string) *Server {
	return &Server{engine: engine, version: version}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches a health checker. When set, /health reports the
// per-check statuses instead of a static ok.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/streak", s.handleStreak)
		r.Post("/streak/freeze", s.handleStreakFreeze)
		r.Post("/streak/unfreeze", s.handleStreakUnfreeze)
		r.Get("/badges", s.handleBadges)
		r.Get("/quests", s.handleQuests)
		r.Post("/quests/generate", s.handleQuestsGenerate)
		r.Post("/quests/{id}/complete", s.handleQuestComplete)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		r.Get("/ledger", s.handleLedger)
		r.Get("/summary", s.handleSummary)
		r.Post("/reset", s.handleReset)

		r.Route("/events", func(r chi.Router) {
			r.Post("/task-completed", s.handleTaskCompleted)
			r.Post("/study-session", s.handleStudySession)
			r.Post("/class-attended", s.handleClassAttended)
			r.Post("/schedule-block", s.handleScheduleBlock)
			r.Post("/schedule-block-completed", s.handleScheduleBlockCompleted)
			r.Post("/perfect-week", s.handlePerfectWeek)
			r.Post("/course-added", s.handleCourseAdded)
			r.Post("/grade-entered", s.handleGradeEntered)
			r.Post("/login", s.handleLogin)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
		return
	}

	status := "ok"
	code := http.StatusOK
	if !s.health.IsHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local dashboard.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
