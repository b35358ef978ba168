package presence

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Default timing values, matching the config package defaults.
const (
	// DefaultHeartbeatTTL is the window after which a device without a
	// fresh heartbeat is considered offline and eligible for removal.
	DefaultHeartbeatTTL = 60 * time.Second

	// DefaultCleanupInterval is how often the background sweep runs.
	DefaultCleanupInterval = 30 * time.Second
)

// Config contains the registry's timing options.
// Zero values fall back to the defaults above.
type Config struct {
	HeartbeatTTL    time.Duration
	CleanupInterval time.Duration
}

// Registry maintains a best-effort view of which devices have phoned home
// recently, with automatic garbage collection of stale entries.
//
// One Registry instance is created by main and handed to the transports
// (HTTP handlers, MQTT subscriptions) that feed it. It is never a package
// global.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record

	ttl           time.Duration
	sweepInterval time.Duration

	// now is the clock used for liveness computation.
	// Replaceable in tests; defaults to time.Now.
	now func() time.Time

	logger Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRegistry creates a device presence registry.
// The sweep does not run until Start is called.
func NewRegistry(cfg Config) *Registry {
	ttl := cfg.HeartbeatTTL
	if ttl <= 0 {
		ttl = DefaultHeartbeatTTL
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	return &Registry{
		records:       make(map[string]*Record),
		ttl:           ttl,
		sweepInterval: interval,
		now:           time.Now,
		logger:        noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// UpsertHeartbeat records a heartbeat, inserting or fully replacing the
// entry for the device. Fields absent from the heartbeat reset to zero
// values; nothing is merged from the prior record. The stored timestamp is
// set to the current clock.
//
// If the heartbeat carries no DeviceID, one is derived from the device's
// network/location attributes.
//
// The returned record is a copy; callers may retain or modify it freely.
func (r *Registry) UpsertHeartbeat(hb Heartbeat) *Record {
	id := hb.DeviceID
	if id == "" {
		id = DeriveDeviceID(hb)
	}

	caps := hb.Capabilities
	if caps == nil {
		caps = []string{}
	}

	rec := &Record{
		DeviceID:      id,
		DeviceType:    hb.DeviceType,
		Location:      hb.Location,
		RoomID:        hb.RoomID,
		RoomNumber:    hb.RoomNumber,
		IPAddress:     hb.IPAddress,
		Hostname:      hb.Hostname,
		AppVersion:    hb.AppVersion,
		Capabilities:  caps,
		LastHeartbeat: r.now(),
	}

	r.mu.Lock()
	r.records[id] = rec
	r.mu.Unlock()

	r.logger.Debug("heartbeat recorded", "device_id", id, "device_type", rec.DeviceType)
	return rec.Copy()
}

// ListOnline returns a fresh snapshot of every device whose last heartbeat
// is within the TTL, each annotated online. Liveness is computed against
// the current clock on every call; nothing is cached and nothing is
// mutated.
//
// Results are sorted by device ID for stable dashboard rendering.
func (r *Registry) ListOnline() []OnlineRecord {
	now := r.now()

	r.mu.RLock()
	online := make([]OnlineRecord, 0, len(r.records))
	for _, rec := range r.records {
		if now.Sub(rec.LastHeartbeat) <= r.ttl {
			online = append(online, OnlineRecord{Record: *rec.Copy(), Online: true})
		}
	}
	r.mu.RUnlock()

	sort.Slice(online, func(i, j int) bool {
		return online[i].DeviceID < online[j].DeviceID
	})
	return online
}

// Snapshot returns copies of every stored record regardless of liveness.
// Used by the debug endpoint and tests.
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	all := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, *rec.Copy())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].DeviceID < all[j].DeviceID
	})
	return all
}

// Len returns the number of stored records, online or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// TTL returns the configured heartbeat TTL.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// CleanupInterval returns the configured sweep interval.
func (r *Registry) CleanupInterval() time.Duration {
	return r.sweepInterval
}

// Start launches the background sweep goroutine. The sweep stops when the
// context is cancelled or Stop is called; it never blocks shutdown.
func (r *Registry) Start(ctx context.Context) {
	sweepCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if removed := r.sweep(); removed > 0 {
					r.logger.Info("presence sweep removed stale devices", "removed", removed, "remaining", r.Len())
				}
			}
		}
	}()

	r.logger.Info("presence registry started",
		"heartbeat_ttl", r.ttl.String(),
		"cleanup_interval", r.sweepInterval.String(),
	)
}

// Stop cancels the sweep goroutine and waits for it to exit.
// Safe to call if Start was never called.
func (r *Registry) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// sweep deletes every record whose age exceeds the TTL and returns the
// number removed. This is the only operation that removes entries.
func (r *Registry) sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, rec := range r.records {
		if now.Sub(rec.LastHeartbeat) > r.ttl {
			delete(r.records, id)
			removed++
		}
	}
	return removed
}
