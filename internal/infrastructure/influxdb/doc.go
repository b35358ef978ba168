// Package influxdb provides InfluxDB connectivity for Rollcall Core.
//
// It wraps the official influxdb-client-go v2 library for time-series
// telemetry that does not belong in SQLite:
//   - heartbeat arrivals per device (fleet health dashboards)
//   - scan event rates per room (arrival curves, reader usage)
//   - device fleet gauges (online/total counts over time)
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteHeartbeat("a1b2c3d4e5f60718", "101")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly. The integration is optional and disabled by default.
package influxdb
