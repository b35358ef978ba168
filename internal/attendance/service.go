package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rollcall-iot/rollcall-core/internal/campus"
)

// Logger is the minimal logging interface the service needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CampusDirectory is the slice of the campus repository the service needs
// to resolve a scan's room and the class in session.
type CampusDirectory interface {
	GetRoom(ctx context.Context, id string) (*campus.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*campus.Room, error)
	ListSchedulesByRoom(ctx context.Context, roomID string, weekday time.Weekday) ([]campus.Schedule, error)
}

// Service resolves raw scans into attendance records.
type Service struct {
	repo     Repository
	dir      CampusDirectory
	timezone *time.Location
	logger   Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewService creates an attendance service. Schedule times are interpreted
// in the given campus timezone; pass nil for time.Local.
func NewService(repo Repository, dir CampusDirectory, timezone *time.Location) *Service {
	if timezone == nil {
		timezone = time.Local
	}
	return &Service{
		repo:     repo,
		dir:      dir,
		timezone: timezone,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the logger for scan resolution events.
func (s *Service) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RecordScan resolves a credential scan into an attendance record.
//
// Resolution: credential to student, room plus scan time to the schedule in
// session, enrollment check, then one record per student per meeting. Scans
// after the grace window are recorded late. Returns ErrAlreadyRecorded with
// the existing record when the student already scanned in this meeting.
func (s *Service) RecordScan(ctx context.Context, scan *Scan) (*Record, error) {
	if err := validateScan(scan); err != nil {
		return nil, err
	}

	scannedAt := scan.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = s.now()
	}
	local := scannedAt.In(s.timezone)

	student, err := s.repo.GetStudentByCredential(ctx, scan.Source, scan.Credential)
	if err != nil {
		return nil, err
	}

	room, err := s.resolveRoom(ctx, scan)
	if err != nil {
		return nil, err
	}

	schedule, err := s.activeSchedule(ctx, room.ID, local)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.repo.IsEnrolled(ctx, student.ID, schedule.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		s.logger.Warn("scan from non-enrolled student",
			"student_id", student.ID, "schedule_id", schedule.ID, "room", room.Number)
		return nil, ErrNotEnrolled
	}

	meetingDate := local.Format("2006-01-02")
	if existing, err := s.repo.GetRecordForMeeting(ctx, student.ID, schedule.ID, meetingDate); err == nil {
		return existing, ErrAlreadyRecorded
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	status := StatusPresent
	minute := local.Hour()*60 + local.Minute()
	if minute > schedule.LateAfter() {
		status = StatusLate
	}

	record := &Record{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		ScheduleID:  schedule.ID,
		MeetingDate: meetingDate,
		Status:      status,
		Source:      scan.Source,
		DeviceID:    scan.DeviceID,
		ScannedAt:   scannedAt,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		// A concurrent scan may have won the unique constraint race.
		if errors.Is(err, ErrAlreadyRecorded) {
			if existing, getErr := s.repo.GetRecordForMeeting(ctx, student.ID, schedule.ID, meetingDate); getErr == nil {
				return existing, ErrAlreadyRecorded
			}
		}
		return nil, err
	}

	s.logger.Info("attendance recorded",
		"student_id", student.ID, "schedule_id", schedule.ID,
		"status", string(status), "source", string(scan.Source), "room", room.Number)
	return record, nil
}

// resolveRoom finds the room a scan came from, by ID or campus number.
func (s *Service) resolveRoom(ctx context.Context, scan *Scan) (*campus.Room, error) {
	if scan.RoomID != "" {
		return s.dir.GetRoom(ctx, scan.RoomID)
	}
	return s.dir.GetRoomByNumber(ctx, scan.RoomNumber)
}

// activeSchedule returns the schedule covering the room at the given local time.
func (s *Service) activeSchedule(ctx context.Context, roomID string, local time.Time) (*campus.Schedule, error) {
	schedules, err := s.dir.ListSchedulesByRoom(ctx, roomID, local.Weekday())
	if err != nil {
		return nil, err
	}
	minute := local.Hour()*60 + local.Minute()
	for i := range schedules {
		if schedules[i].Covers(local.Weekday(), minute) {
			return &schedules[i], nil
		}
	}
	return nil, ErrNoActiveClass
}

// validateScan checks the shape of an incoming scan payload.
func validateScan(scan *Scan) error {
	if !scan.Source.Valid() {
		return fmt.Errorf("%w: source must be rfid or fingerprint", ErrInvalidScan)
	}
	if strings.TrimSpace(scan.Credential) == "" {
		return fmt.Errorf("%w: credential cannot be empty", ErrInvalidScan)
	}
	if scan.RoomID == "" && scan.RoomNumber == "" {
		return fmt.Errorf("%w: room_id or room_number required", ErrInvalidScan)
	}
	return nil
}

// ValidateStudent validates a Student before persistence.
func ValidateStudent(st *Student) error {
	if strings.TrimSpace(st.StudentNumber) == "" {
		return fmt.Errorf("%w: student_number cannot be empty", ErrInvalidStudent)
	}
	if strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidStudent)
	}
	if st.CardUID != nil && strings.TrimSpace(*st.CardUID) == "" {
		return fmt.Errorf("%w: card_uid cannot be blank", ErrInvalidStudent)
	}
	if st.FingerprintID != nil && strings.TrimSpace(*st.FingerprintID) == "" {
		return fmt.Errorf("%w: fingerprint_id cannot be blank", ErrInvalidStudent)
	}
	return nil
}
