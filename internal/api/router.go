package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rollcall-iot/rollcall-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Controller ingestion routes, authenticated by device API key.
		r.Group(func(r chi.Router) {
			r.Use(s.deviceKeyMiddleware)

			r.Post("/devices/heartbeat", s.handleHeartbeat)
			r.Post("/attendance/scans", s.handleScan)
		})

		// Registry introspection for bench debugging. Unauthenticated,
		// mounted only when explicitly enabled in config.
		if s.cfg.DebugEndpoints {
			r.Get("/devices/registry/debug", s.handleRegistryDebug)
		}

		// Dashboard routes, authenticated by bearer JWT.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Device fleet (instructor or above).
			r.With(s.requireRole(auth.RoleInstructor)).
				Get("/devices/online", s.handleOnlineDevices)

			// Attendance reporting (instructor or above).
			r.With(s.requireRole(auth.RoleInstructor)).
				Get("/attendance/records", s.handleListRecords)

			// Campus structure: reads for instructors, writes for admins.
			r.Route("/rooms", func(r chi.Router) {
				r.With(s.requireRole(auth.RoleInstructor)).Get("/", s.handleListRooms)
				r.With(s.requireRole(auth.RoleInstructor)).Get("/{id}", s.handleGetRoom)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/", s.handleCreateRoom)
				r.With(s.requireRole(auth.RoleAdmin)).Put("/{id}", s.handleUpdateRoom)
				r.With(s.requireRole(auth.RoleAdmin)).Delete("/{id}", s.handleDeleteRoom)
			})

			r.Route("/subjects", func(r chi.Router) {
				r.With(s.requireRole(auth.RoleInstructor)).Get("/", s.handleListSubjects)
				r.With(s.requireRole(auth.RoleInstructor)).Get("/{id}", s.handleGetSubject)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/", s.handleCreateSubject)
				r.With(s.requireRole(auth.RoleAdmin)).Put("/{id}", s.handleUpdateSubject)
				r.With(s.requireRole(auth.RoleAdmin)).Delete("/{id}", s.handleDeleteSubject)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.With(s.requireRole(auth.RoleInstructor)).Get("/", s.handleListSchedules)
				r.With(s.requireRole(auth.RoleInstructor)).Get("/{id}", s.handleGetSchedule)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/", s.handleCreateSchedule)
				r.With(s.requireRole(auth.RoleAdmin)).Put("/{id}", s.handleUpdateSchedule)
				r.With(s.requireRole(auth.RoleAdmin)).Delete("/{id}", s.handleDeleteSchedule)

				// Class roster management.
				r.With(s.requireRole(auth.RoleInstructor)).Get("/{id}/enrollments", s.handleListEnrollments)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/{id}/enrollments", s.handleEnroll)
				r.With(s.requireRole(auth.RoleAdmin)).Delete("/{id}/enrollments/{studentID}", s.handleUnenroll)
			})

			// Roster: reads for instructors, writes for admins.
			r.Route("/students", func(r chi.Router) {
				r.With(s.requireRole(auth.RoleInstructor)).Get("/", s.handleListStudents)
				r.With(s.requireRole(auth.RoleInstructor)).Get("/{id}", s.handleGetStudent)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/", s.handleCreateStudent)
				r.With(s.requireRole(auth.RoleAdmin)).Put("/{id}", s.handleUpdateStudent)
				r.With(s.requireRole(auth.RoleAdmin)).Delete("/{id}", s.handleDeleteStudent)
			})

			// WebSocket for live heartbeat/scan events.
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
