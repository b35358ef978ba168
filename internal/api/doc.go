// Package api provides the HTTP REST API and WebSocket server for
// Rollcall Core.
//
// Two distinct callers talk to this server. Room controllers (ESP32 boards
// with RFID and fingerprint readers) authenticate with a shared device API
// key and use the heartbeat and scan ingestion endpoints. Dashboard users
// authenticate with bearer JWTs and use the device fleet, campus data, and
// attendance reporting endpoints; mutations require the admin role, reads
// require instructor or above.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api
