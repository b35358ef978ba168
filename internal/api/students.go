package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rollcall-iot/rollcall-core/internal/attendance"
)

// handleListStudents returns the campus roster.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.roster.ListStudents(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list students")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": students, "count": len(students)})
}

// handleGetStudent returns a single student by ID.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.roster.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, attendance.ErrStudentNotFound) {
			writeNotFound(w, "student not found")
			return
		}
		writeInternalError(w, "failed to get student")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// handleCreateStudent adds a student to the roster.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var student attendance.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := attendance.ValidateStudent(&student); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}

	if err := s.roster.CreateStudent(r.Context(), &student); err != nil {
		// UNIQUE on student_number, card_uid, fingerprint_id
		writeConflict(w, "student could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// handleUpdateStudent updates a student's details or credentials.
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var student attendance.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	student.ID = chi.URLParam(r, "id")
	if err := attendance.ValidateStudent(&student); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.roster.UpdateStudent(r.Context(), &student); err != nil {
		if errors.Is(err, attendance.ErrStudentNotFound) {
			writeNotFound(w, "student not found")
			return
		}
		writeInternalError(w, "failed to update student")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// handleDeleteStudent removes a student from the roster.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	err := s.roster.DeleteStudent(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, attendance.ErrStudentNotFound):
		writeNotFound(w, "student not found")
	case err != nil:
		writeInternalError(w, "failed to delete student")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// enrollmentRequest is the body for enrolling a student in a schedule.
type enrollmentRequest struct {
	StudentID string `json:"student_id"`
}

// handleListEnrollments returns the students enrolled in a schedule.
func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := s.roster.ListEnrollmentsBySchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInternalError(w, "failed to list enrollments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": enrollments, "count": len(enrollments)})
}

// handleEnroll links a student to a schedule.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.StudentID == "" {
		writeValidationError(w, "student_id is required")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	err := s.roster.Enroll(r.Context(), req.StudentID, scheduleID)
	switch {
	case errors.Is(err, attendance.ErrAlreadyEnrolled):
		writeConflict(w, "student already enrolled")
	case err != nil:
		// FK violation when either side does not exist
		writeBadRequest(w, "student or schedule does not exist")
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"student_id":  req.StudentID,
			"schedule_id": scheduleID,
		})
	}
}

// handleUnenroll removes a student from a schedule.
func (s *Server) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	scheduleID := chi.URLParam(r, "id")

	if err := s.roster.Unenroll(r.Context(), studentID, scheduleID); err != nil {
		writeInternalError(w, "failed to unenroll student")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
