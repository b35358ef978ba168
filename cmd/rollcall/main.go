// Rollcall Core - IoT Campus Attendance Backend
//
// This is the main entry point for the Rollcall Core application.
// Rollcall tracks a fleet of ESP32 room controllers and resolves the
// credential scans they report into per-meeting attendance records:
//   - Device presence registry with TTL-based liveness
//   - RFID and fingerprint scan resolution against the class timetable
//   - HTTP and MQTT ingestion paths for heartbeats and scans
//   - Live WebSocket feed for dashboards
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rollcall-iot/rollcall-core/migrations"

	"github.com/rollcall-iot/rollcall-core/internal/api"
	"github.com/rollcall-iot/rollcall-core/internal/attendance"
	"github.com/rollcall-iot/rollcall-core/internal/campus"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/config"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/database"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/influxdb"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/logging"
	"github.com/rollcall-iot/rollcall-core/internal/infrastructure/mqtt"
	"github.com/rollcall-iot/rollcall-core/internal/presence"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Rollcall Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Campus timezone governs which class a scan lands in
	campusTZ, err := time.LoadLocation(cfg.Campus.Timezone)
	if err != nil {
		return fmt.Errorf("loading campus timezone %q: %w", cfg.Campus.Timezone, err)
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories and the scan resolution service
	campusRepo := campus.NewSQLiteRepository(db.DB)
	roster := attendance.NewSQLiteRepository(db.DB)

	attendanceSvc := attendance.NewService(roster, campusRepo, campusTZ)
	attendanceSvc.SetLogger(log)

	// Device presence registry with background sweep
	registry := presence.NewRegistry(presence.Config{
		HeartbeatTTL:    cfg.GetHeartbeatTTL(),
		CleanupInterval: cfg.GetCleanupInterval(),
	})
	registry.SetLogger(log)
	registry.Start(ctx)
	defer func() {
		log.Info("stopping presence registry")
		registry.Stop()
	}()
	log.Info("presence registry started",
		"heartbeat_ttl", cfg.GetHeartbeatTTL(),
		"cleanup_interval", cfg.GetCleanupInterval(),
	)

	// Connect to MQTT broker (optional; HTTP-only benches run without it)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Registry:   registry,
		CampusRepo: campusRepo,
		Roster:     roster,
		Attendance: attendanceSvc,
		MQTT:       mqttClient,
		Influx:     influxClient,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
		"debug_endpoints", cfg.API.DebugEndpoints,
	)

	// Periodic fleet-size telemetry
	if influxClient != nil {
		go reportFleetGauge(ctx, registry, influxClient)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Presence registry
	// 5. Database

	log.Info("Rollcall Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ROLLCALL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ROLLCALL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// fleetGaugeInterval is how often the fleet size is sampled for telemetry.
const fleetGaugeInterval = time.Minute

// reportFleetGauge periodically samples the presence registry and writes the
// online/total device counts to InfluxDB.
func reportFleetGauge(ctx context.Context, registry *presence.Registry, influx *influxdb.Client) {
	ticker := time.NewTicker(fleetGaugeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			influx.WriteFleetGauge(len(registry.ListOnline()), registry.Len())
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
