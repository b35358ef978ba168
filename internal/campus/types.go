package campus

import "time"

// Room represents a physical space on campus where an attendance
// controller can be mounted.
type Room struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Building  string    `json:"building,omitempty"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subject represents a course offered by the campus.
type Subject struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedule represents a weekly meeting of a subject in a room.
// StartMinute and EndMinute are minutes since midnight in campus local
// time; Weekday follows time.Weekday (0 = Sunday).
type Schedule struct {
	ID           string       `json:"id"`
	SubjectID    string       `json:"subject_id"`
	RoomID       string       `json:"room_id"`
	Weekday      time.Weekday `json:"weekday"`
	StartMinute  int          `json:"start_minute"`
	EndMinute    int          `json:"end_minute"`
	GraceMinutes int          `json:"grace_minutes"`
	Term         string       `json:"term,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Covers reports whether the schedule is in session at the given weekday
// and minute-of-day. The start bound is inclusive, the end exclusive.
func (s *Schedule) Covers(weekday time.Weekday, minute int) bool {
	return s.Weekday == weekday && minute >= s.StartMinute && minute < s.EndMinute
}

// LateAfter returns the minute-of-day past which a scan is marked late.
func (s *Schedule) LateAfter() int {
	return s.StartMinute + s.GraceMinutes
}
