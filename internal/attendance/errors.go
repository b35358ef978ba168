package attendance

import "errors"

var (
	// ErrStudentNotFound is returned when a student ID does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrUnknownCredential is returned when a scan credential matches no student.
	ErrUnknownCredential = errors.New("credential matches no student")

	// ErrInvalidScan is returned when a scan payload fails validation.
	ErrInvalidScan = errors.New("invalid scan")

	// ErrInvalidStudent is returned when student fields fail validation.
	ErrInvalidStudent = errors.New("invalid student")

	// ErrNoActiveClass is returned when no schedule covers the scan's room and time.
	ErrNoActiveClass = errors.New("no class in session for room")

	// ErrNotEnrolled is returned when the student is not enrolled in the active class.
	ErrNotEnrolled = errors.New("student not enrolled in class")

	// ErrAlreadyRecorded is returned when the student already has a record
	// for this class meeting. The first scan of the day wins.
	ErrAlreadyRecorded = errors.New("attendance already recorded for meeting")

	// ErrRecordNotFound is returned when an attendance record does not exist.
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrAlreadyEnrolled is returned when creating a duplicate enrollment.
	ErrAlreadyEnrolled = errors.New("student already enrolled")
)
