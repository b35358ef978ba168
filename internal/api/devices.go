package api

import (
	"encoding/json"
	"net/http"

	"github.com/rollcall-iot/rollcall-core/internal/presence"
)

// handleHeartbeat ingests a liveness announcement from a room controller.
//
// The payload is the controller's self-description; every field is optional
// but must be the right type. The registry derives a stable device ID from
// the identity fields when the controller does not send one, so the same
// board maps to the same record across reboots. Responds 201 with the
// stored record.
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var hb presence.Heartbeat
	if err := json.NewDecoder(r.Body).Decode(&hb); err != nil {
		writeBadRequest(w, "invalid heartbeat payload: "+err.Error())
		return
	}

	record := s.registry.UpsertHeartbeat(hb)

	s.broadcastHeartbeat(record)
	if s.influx != nil {
		s.influx.WriteHeartbeat(record.DeviceID, record.RoomNumber)
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleOnlineDevices returns the devices currently considered online as a
// bare JSON array.
//
// Liveness is computed at read time against the heartbeat TTL, so a device
// that missed its window disappears from this list immediately even if the
// background sweep has not run yet.
func (s *Server) handleOnlineDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.ListOnline())
}

// handleRegistryDebug exposes the raw registry contents, including records
// past their TTL that the sweep has not removed yet. Bench tooling only.
func (s *Server) handleRegistryDebug(w http.ResponseWriter, _ *http.Request) {
	records := s.registry.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices":                  records,
		"count":                    len(records),
		"heartbeat_ttl_seconds":    int(s.registry.TTL().Seconds()),
		"cleanup_interval_seconds": int(s.registry.CleanupInterval().Seconds()),
	})
}

// broadcastHeartbeat pushes a heartbeat event to subscribed WebSocket clients.
func (s *Server) broadcastHeartbeat(record *presence.Record) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(ChannelDeviceHeartbeat, record)
}
