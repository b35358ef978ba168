package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rollcall-iot/rollcall-core/internal/campus"
)

// handleListRooms returns all campus rooms.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.campusRepo.ListRooms(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list rooms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
}

// handleGetRoom returns a single room by ID.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.campusRepo.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, campus.ErrRoomNotFound) {
			writeNotFound(w, "room not found")
			return
		}
		writeInternalError(w, "failed to get room")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleCreateRoom creates a new room.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var room campus.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := campus.ValidateRoom(&room); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	if err := s.campusRepo.CreateRoom(r.Context(), &room); err != nil {
		writeConflict(w, "room could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// handleUpdateRoom updates an existing room.
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var room campus.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	room.ID = chi.URLParam(r, "id")
	if err := campus.ValidateRoom(&room); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.campusRepo.UpdateRoom(r.Context(), &room); err != nil {
		if errors.Is(err, campus.ErrRoomNotFound) {
			writeNotFound(w, "room not found")
			return
		}
		writeInternalError(w, "failed to update room")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleDeleteRoom removes a room.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	err := s.campusRepo.DeleteRoom(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, campus.ErrRoomNotFound):
		writeNotFound(w, "room not found")
	case errors.Is(err, campus.ErrRoomHasSchedules):
		writeConflict(w, "room has schedules: delete schedules first")
	case err != nil:
		writeInternalError(w, "failed to delete room")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleListSubjects returns all subjects.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.campusRepo.ListSubjects(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list subjects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects, "count": len(subjects)})
}

// handleGetSubject returns a single subject by ID.
func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	subject, err := s.campusRepo.GetSubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, campus.ErrSubjectNotFound) {
			writeNotFound(w, "subject not found")
			return
		}
		writeInternalError(w, "failed to get subject")
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// handleCreateSubject creates a new subject.
func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var subject campus.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := campus.ValidateSubject(&subject); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}

	if err := s.campusRepo.CreateSubject(r.Context(), &subject); err != nil {
		writeConflict(w, "subject could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

// handleUpdateSubject updates an existing subject.
func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	var subject campus.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	subject.ID = chi.URLParam(r, "id")
	if err := campus.ValidateSubject(&subject); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.campusRepo.UpdateSubject(r.Context(), &subject); err != nil {
		if errors.Is(err, campus.ErrSubjectNotFound) {
			writeNotFound(w, "subject not found")
			return
		}
		writeInternalError(w, "failed to update subject")
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// handleDeleteSubject removes a subject and its schedules.
func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	err := s.campusRepo.DeleteSubject(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, campus.ErrSubjectNotFound):
		writeNotFound(w, "subject not found")
	case err != nil:
		writeInternalError(w, "failed to delete subject")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleListSchedules returns all schedules.
func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.campusRepo.ListSchedules(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list schedules")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules, "count": len(schedules)})
}

// handleGetSchedule returns a single schedule by ID.
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.campusRepo.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, campus.ErrScheduleNotFound) {
			writeNotFound(w, "schedule not found")
			return
		}
		writeInternalError(w, "failed to get schedule")
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// handleCreateSchedule creates a new schedule.
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule campus.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := campus.ValidateSchedule(&schedule); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}

	if err := s.campusRepo.CreateSchedule(r.Context(), &schedule); err != nil {
		writeConflict(w, "schedule could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

// handleUpdateSchedule updates an existing schedule.
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule campus.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	schedule.ID = chi.URLParam(r, "id")
	if err := campus.ValidateSchedule(&schedule); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.campusRepo.UpdateSchedule(r.Context(), &schedule); err != nil {
		if errors.Is(err, campus.ErrScheduleNotFound) {
			writeNotFound(w, "schedule not found")
			return
		}
		writeInternalError(w, "failed to update schedule")
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// handleDeleteSchedule removes a schedule.
func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	err := s.campusRepo.DeleteSchedule(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, campus.ErrScheduleNotFound):
		writeNotFound(w, "schedule not found")
	case err != nil:
		writeInternalError(w, "failed to delete schedule")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
