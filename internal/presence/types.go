package presence

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Heartbeat is the payload a device sends to announce itself.
// Every field is optional; DeviceID is derived from the other attributes
// when absent.
type Heartbeat struct {
	DeviceID     string   `json:"device_id"`
	DeviceType   string   `json:"device_type"`
	Location     string   `json:"location"`
	RoomID       string   `json:"room_id"`
	RoomNumber   string   `json:"room_number"`
	IPAddress    string   `json:"ip_address"`
	Hostname     string   `json:"hostname"`
	AppVersion   string   `json:"app_version"`
	Capabilities []string `json:"capabilities"`
}

// Record is the last known state of one physical device.
type Record struct {
	DeviceID      string    `json:"device_id"`
	DeviceType    string    `json:"device_type"`
	Location      string    `json:"location"`
	RoomID        string    `json:"room_id"`
	RoomNumber    string    `json:"room_number"`
	IPAddress     string    `json:"ip_address"`
	Hostname      string    `json:"hostname"`
	AppVersion    string    `json:"app_version"`
	Capabilities  []string  `json:"capabilities"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Copy returns an independent copy of the record.
// The capabilities slice is cloned so callers cannot mutate stored state.
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}
	cpy := *r
	if r.Capabilities != nil {
		cpy.Capabilities = make([]string, len(r.Capabilities))
		copy(cpy.Capabilities, r.Capabilities)
	}
	return &cpy
}

// OnlineRecord is a Record annotated with its computed liveness.
// Online is always true in ListOnline results; the field exists so the
// dashboard payload is self-describing.
type OnlineRecord struct {
	Record
	Online bool `json:"online"`
}

// derivedIDLength is the number of hex characters in a derived device ID.
// 16 hex chars = 64 bits of the SHA-256 digest; collisions are accepted as
// negligible for realistic fleet sizes.
const derivedIDLength = 16

// DeriveDeviceID computes a deterministic fingerprint for a device that did
// not supply its own identifier. Two heartbeats with identical hostname,
// IP address, location, room ID and room number resolve to the same ID, so
// anonymous devices coalesce instead of duplicating.
func DeriveDeviceID(hb Heartbeat) string {
	composite := strings.Join([]string{
		hb.Hostname,
		hb.IPAddress,
		hb.Location,
		hb.RoomID,
		hb.RoomNumber,
	}, "|")

	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])[:derivedIDLength]
}
