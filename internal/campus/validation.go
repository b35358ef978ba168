package campus

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxNameLength   = 100
	maxNumberLength = 20
	maxCodeLength   = 20
	minutesPerDay   = 24 * 60
	codePattern     = `^[A-Z0-9]+(?:-[A-Z0-9]+)*$`
)

var codeRegex = regexp.MustCompile(codePattern)

// ValidateRoom validates a Room before persistence.
func ValidateRoom(r *Room) error {
	number := strings.TrimSpace(r.Number)
	if number == "" {
		return fmt.Errorf("%w: number cannot be empty", ErrInvalidRoom)
	}
	if len(number) > maxNumberLength {
		return fmt.Errorf("%w: number exceeds %d characters", ErrInvalidRoom, maxNumberLength)
	}
	if name := strings.TrimSpace(r.Name); name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRoom)
	} else if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRoom, maxNameLength)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrInvalidRoom)
	}
	return nil
}

// ValidateSubject validates a Subject before persistence.
func ValidateSubject(s *Subject) error {
	code := strings.TrimSpace(s.Code)
	if code == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidSubject)
	}
	if len(code) > maxCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidSubject, maxCodeLength)
	}
	if !codeRegex.MatchString(code) {
		return fmt.Errorf("%w: code must be uppercase alphanumeric with hyphens", ErrInvalidSubject)
	}
	if name := strings.TrimSpace(s.Name); name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidSubject)
	} else if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidSubject, maxNameLength)
	}
	return nil
}

// ValidateSchedule validates a Schedule before persistence.
func ValidateSchedule(s *Schedule) error {
	if s.SubjectID == "" {
		return fmt.Errorf("%w: subject_id cannot be empty", ErrInvalidSchedule)
	}
	if s.RoomID == "" {
		return fmt.Errorf("%w: room_id cannot be empty", ErrInvalidSchedule)
	}
	if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday must be 0-6", ErrInvalidSchedule)
	}
	if s.StartMinute < 0 || s.StartMinute >= minutesPerDay {
		return fmt.Errorf("%w: start_minute out of range", ErrInvalidSchedule)
	}
	if s.EndMinute <= s.StartMinute || s.EndMinute > minutesPerDay {
		return fmt.Errorf("%w: end_minute must be after start_minute", ErrInvalidSchedule)
	}
	if s.GraceMinutes < 0 {
		return fmt.Errorf("%w: grace_minutes cannot be negative", ErrInvalidSchedule)
	}
	return nil
}
