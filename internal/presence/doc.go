// Package presence tracks which physical devices have phoned home recently.
//
// ESP32 lock controllers, RFID readers and fingerprint scanners send periodic
// heartbeats over HTTP or MQTT. The registry keeps the last heartbeat per
// device in memory and treats a device as online while its most recent
// heartbeat is younger than the configured TTL. A background sweep purges
// records that have aged past the TTL.
//
// Design notes:
//
//   - Liveness is computed at read time from the stored timestamp. There is
//     no stored online/offline flag to drift out of sync with the TTL.
//   - Heartbeats fully replace the prior record (last-write-wins). Fields
//     absent from a heartbeat reset to their zero values.
//   - Devices that cannot supply a stable identifier get one derived from
//     their network/location attributes, so repeated anonymous heartbeats
//     from the same unit coalesce into a single record.
//   - Nothing is persisted. After a restart the registry repopulates from
//     incoming heartbeats within one announce interval.
//
// Thread Safety: all public methods are safe for concurrent use.
package presence
