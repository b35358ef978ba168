package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcall-iot/rollcall-core/internal/attendance"
	"github.com/rollcall-iot/rollcall-core/internal/campus"
)

// handleScan ingests a credential scan from a room controller and resolves
// it to an attendance record.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var scan attendance.Scan
	if err := json.NewDecoder(r.Body).Decode(&scan); err != nil {
		writeBadRequest(w, "invalid scan payload: "+err.Error())
		return
	}

	record, err := s.attendance.RecordScan(r.Context(), &scan)
	switch {
	case errors.Is(err, attendance.ErrInvalidScan):
		writeValidationError(w, err.Error())
		return
	case errors.Is(err, attendance.ErrUnknownCredential):
		writeNotFound(w, "credential matches no student")
		return
	case errors.Is(err, campus.ErrRoomNotFound):
		writeNotFound(w, "room not found")
		return
	case errors.Is(err, attendance.ErrNoActiveClass):
		writeConflict(w, "no class in session for room")
		return
	case errors.Is(err, attendance.ErrNotEnrolled):
		writeForbidden(w, "student not enrolled in class")
		return
	case errors.Is(err, attendance.ErrAlreadyRecorded):
		// Duplicate scans return the record that won, so controllers can
		// show the student their original check-in status.
		writeJSON(w, http.StatusOK, map[string]any{
			"record":    record,
			"duplicate": true,
		})
		return
	case err != nil:
		writeInternalError(w, "failed to record scan")
		return
	}

	s.broadcastScan(record)
	s.notifyController(record)
	if s.influx != nil {
		s.influx.WriteScanEvent(record.DeviceID, scan.RoomNumber, string(record.Source), string(record.Status))
	}

	writeJSON(w, http.StatusCreated, record)
}

// notifyController publishes an unlock command back to the controller that
// reported a successful scan, releasing the door strike. No-op on HTTP-only
// deployments or when the scan carried no device ID.
func (s *Server) notifyController(record *attendance.Record) {
	if s.mqtt == nil || record.DeviceID == "" {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"action":     "unlock",
		"student_id": record.StudentID,
		"status":     record.Status,
	})
	if err != nil {
		return
	}
	if err := s.mqtt.PublishCommand(record.DeviceID, payload); err != nil {
		s.logger.Warn("failed to publish unlock command", "device_id", record.DeviceID, "error", err)
	}
}

// handleListRecords returns attendance records, optionally filtered by
// student, schedule, or meeting date query parameters.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{
		StudentID:   r.URL.Query().Get("student_id"),
		ScheduleID:  r.URL.Query().Get("schedule_id"),
		MeetingDate: r.URL.Query().Get("meeting_date"),
	}

	records, err := s.roster.ListRecords(r.Context(), filter)
	if err != nil {
		writeInternalError(w, "failed to list attendance records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
}
