package campus

import "errors"

var (
	// ErrRoomNotFound is returned when a room ID does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomHasSchedules is returned when deleting a room that schedules still reference.
	ErrRoomHasSchedules = errors.New("room has schedules: delete schedules first")

	// ErrSubjectNotFound is returned when a subject ID does not exist.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrScheduleNotFound is returned when a schedule ID does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrInvalidRoom is returned when room fields fail validation.
	ErrInvalidRoom = errors.New("invalid room")

	// ErrInvalidSubject is returned when subject fields fail validation.
	ErrInvalidSubject = errors.New("invalid subject")

	// ErrInvalidSchedule is returned when schedule fields fail validation.
	ErrInvalidSchedule = errors.New("invalid schedule")
)
