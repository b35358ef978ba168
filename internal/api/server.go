package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rollcall-iot/rollcall-core/internal/attendance"
	"github.com/rollcall-iot/rollcall-core/internal/campus"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/config"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/influxdb"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/logging"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/mqtt"
	"github.com/rollcall-iot/rollcall-core/internal/presence"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Security   config.SecurityConfig
	Logger     *logging.Logger
	Registry   *presence.Registry
	CampusRepo campus.Repository
	Roster     attendance.Repository
	Attendance *attendance.Service
	MQTT       *mqtt.Client     // optional: broker link for controller traffic
	Influx     *influxdb.Client // optional: telemetry sink
	Version    string
}

// Server is the HTTP API server for Rollcall Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	secCfg     config.SecurityConfig
	logger     *logging.Logger
	registry   *presence.Registry
	campusRepo campus.Repository
	roster     attendance.Repository
	attendance *attendance.Service
	mqtt       *mqtt.Client
	influx     *influxdb.Client
	version    string
	server     *http.Server
	hub        *Hub
	cancel     context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. MQTT and InfluxDB are
// optional; HTTP-only deployments leave them nil.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("presence registry is required")
	}
	if deps.CampusRepo == nil {
		return nil, fmt.Errorf("campus repository is required")
	}
	if deps.Roster == nil {
		return nil, fmt.Errorf("attendance repository is required")
	}
	if deps.Attendance == nil {
		return nil, fmt.Errorf("attendance service is required")
	}

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		registry:   deps.Registry,
		campusRepo: deps.CampusRepo,
		roster:     deps.Roster,
		attendance: deps.Attendance,
		mqtt:       deps.MQTT,
		influx:     deps.Influx,
		version:    deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, subscribes to the MQTT
// controller topics for brokered heartbeats and scans, and launches the
// HTTP listener in a background goroutine. The server can be stopped with
// Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Brokered controllers publish on MQTT instead of HTTP.
	if err := s.subscribeControllerTopics(); err != nil {
		s.logger.Warn("failed to subscribe to controller topics", "error", err)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
