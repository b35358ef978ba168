package attendance

import "time"

// Status records whether a student arrived within the grace window.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// Source identifies which reader produced a scan.
type Source string

const (
	SourceRFID        Source = "rfid"
	SourceFingerprint Source = "fingerprint"
)

// Valid reports whether the source is one of the known reader types.
func (s Source) Valid() bool {
	return s == SourceRFID || s == SourceFingerprint
}

// Student represents a member of the campus roster.
type Student struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Name          string    `json:"name"`
	CardUID       *string   `json:"card_uid,omitempty"`
	FingerprintID *string   `json:"fingerprint_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Enrollment links a student to a schedule.
type Enrollment struct {
	StudentID  string    `json:"student_id"`
	ScheduleID string    `json:"schedule_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Scan is a raw credential read reported by a room controller.
type Scan struct {
	Source     Source    `json:"source"`
	Credential string    `json:"credential"`
	RoomID     string    `json:"room_id,omitempty"`
	RoomNumber string    `json:"room_number,omitempty"`
	DeviceID   string    `json:"device_id,omitempty"`
	ScannedAt  time.Time `json:"scanned_at,omitempty"`
}

// Record is a resolved attendance entry, at most one per student per
// class meeting.
type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	ScheduleID  string    `json:"schedule_id"`
	MeetingDate string    `json:"meeting_date"`
	Status      Status    `json:"status"`
	Source      Source    `json:"source"`
	DeviceID    string    `json:"device_id,omitempty"`
	ScannedAt   time.Time `json:"scanned_at"`
}

// RecordFilter narrows ListRecords queries. Zero-value fields are ignored.
type RecordFilter struct {
	StudentID   string
	ScheduleID  string
	MeetingDate string
}
