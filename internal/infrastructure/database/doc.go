// Package database provides SQLite persistence for Rollcall Core.
//
// This package manages:
//   - Opening and configuring the SQLite database (WAL mode, busy timeout)
//   - Schema migrations from embedded SQL files
//   - Connection lifecycle and health checks
//
// SQLite was chosen deliberately: a campus attendance backend is a single
// process with modest write volume (one scan per student per meeting, one
// heartbeat per device per interval), well inside SQLite's comfort zone,
// and the zero-dependency deployment matters for on-premises installs.
//
// Thread Safety: the pool is limited to a single connection because SQLite
// supports one writer; WAL mode keeps reads concurrent with writes.
package database
