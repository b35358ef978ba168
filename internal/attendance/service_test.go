package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rollcall-iot/rollcall-core/internal/campus"
)

// mockRepository implements Repository in memory for service tests.
type mockRepository struct {
	students    map[string]*Student
	enrollments map[string]bool // studentID|scheduleID
	records     map[string]*Record
	createErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		students:    make(map[string]*Student),
		enrollments: make(map[string]bool),
		records:     make(map[string]*Record),
	}
}

func (m *mockRepository) CreateStudent(_ context.Context, s *Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *mockRepository) ListStudents(context.Context) ([]Student, error) { return nil, nil }

func (m *mockRepository) GetStudent(_ context.Context, id string) (*Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, ErrStudentNotFound
}

func (m *mockRepository) GetStudentByCredential(_ context.Context, source Source, credential string) (*Student, error) {
	for _, s := range m.students {
		switch source {
		case SourceRFID:
			if s.CardUID != nil && *s.CardUID == credential {
				return s, nil
			}
		case SourceFingerprint:
			if s.FingerprintID != nil && *s.FingerprintID == credential {
				return s, nil
			}
		}
	}
	return nil, ErrUnknownCredential
}

func (m *mockRepository) UpdateStudent(context.Context, *Student) error  { return nil }
func (m *mockRepository) DeleteStudent(context.Context, string) error    { return nil }
func (m *mockRepository) Unenroll(context.Context, string, string) error { return nil }

func (m *mockRepository) Enroll(_ context.Context, studentID, scheduleID string) error {
	m.enrollments[studentID+"|"+scheduleID] = true
	return nil
}

func (m *mockRepository) IsEnrolled(_ context.Context, studentID, scheduleID string) (bool, error) {
	return m.enrollments[studentID+"|"+scheduleID], nil
}

func (m *mockRepository) ListEnrollmentsBySchedule(context.Context, string) ([]Enrollment, error) {
	return nil, nil
}

func (m *mockRepository) CreateRecord(_ context.Context, r *Record) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := r.StudentID + "|" + r.ScheduleID + "|" + r.MeetingDate
	if _, exists := m.records[key]; exists {
		return ErrAlreadyRecorded
	}
	m.records[key] = r
	return nil
}

func (m *mockRepository) GetRecordForMeeting(_ context.Context, studentID, scheduleID, meetingDate string) (*Record, error) {
	if r, ok := m.records[studentID+"|"+scheduleID+"|"+meetingDate]; ok {
		return r, nil
	}
	return nil, ErrRecordNotFound
}

func (m *mockRepository) ListRecords(context.Context, RecordFilter) ([]Record, error) {
	return nil, nil
}

// mockDirectory implements CampusDirectory with fixed rooms and schedules.
type mockDirectory struct {
	rooms     map[string]*campus.Room
	schedules []campus.Schedule
}

func (d *mockDirectory) GetRoom(_ context.Context, id string) (*campus.Room, error) {
	if r, ok := d.rooms[id]; ok {
		return r, nil
	}
	return nil, campus.ErrRoomNotFound
}

func (d *mockDirectory) GetRoomByNumber(_ context.Context, number string) (*campus.Room, error) {
	for _, r := range d.rooms {
		if r.Number == number {
			return r, nil
		}
	}
	return nil, campus.ErrRoomNotFound
}

func (d *mockDirectory) ListSchedulesByRoom(_ context.Context, roomID string, weekday time.Weekday) ([]campus.Schedule, error) {
	var out []campus.Schedule
	for _, s := range d.schedules {
		if s.RoomID == roomID && s.Weekday == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

// newTestService builds a service with one student, one Monday 09:00-10:30
// class in room 101 (15 minute grace), and the clock pinned to clockAt.
func newTestService(t *testing.T, clockAt time.Time) (*Service, *mockRepository) {
	t.Helper()

	repo := newMockRepository()
	repo.students["stu-1"] = &Student{
		ID:            "stu-1",
		StudentNumber: "S1001",
		Name:          "Dana Reyes",
		CardUID:       strPtr("04AB11CD"),
		FingerprintID: strPtr("fp-7"),
	}
	repo.enrollments["stu-1|sched-1"] = true

	dir := &mockDirectory{
		rooms: map[string]*campus.Room{
			"room-101": {ID: "room-101", Number: "101", Name: "Physics Lab"},
		},
		schedules: []campus.Schedule{
			{
				ID:           "sched-1",
				SubjectID:    "subj-1",
				RoomID:       "room-101",
				Weekday:      time.Monday,
				StartMinute:  9 * 60,
				EndMinute:    10*60 + 30,
				GraceMinutes: 15,
			},
		},
	}

	svc := NewService(repo, dir, time.UTC)
	svc.now = func() time.Time { return clockAt }
	return svc, repo
}

// 2026-08-31 is a Monday.
var mondayClass = time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC)

func TestRecordScanPresent(t *testing.T) {
	svc, _ := newTestService(t, mondayClass)

	rec, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "04AB11CD",
		RoomID:     "room-101",
		DeviceID:   "a1b2c3d4e5f60718",
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if rec.Status != StatusPresent {
		t.Errorf("status = %q, want present", rec.Status)
	}
	if rec.StudentID != "stu-1" || rec.ScheduleID != "sched-1" {
		t.Errorf("resolved to student %q schedule %q", rec.StudentID, rec.ScheduleID)
	}
	if rec.MeetingDate != "2026-08-31" {
		t.Errorf("meeting date = %q, want 2026-08-31", rec.MeetingDate)
	}
	if rec.ID == "" {
		t.Error("expected generated record ID")
	}
}

func TestRecordScanLateAfterGrace(t *testing.T) {
	// 09:16 with a 15 minute grace window starting 09:00.
	svc, _ := newTestService(t, time.Date(2026, 8, 31, 9, 16, 0, 0, time.UTC))

	rec, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceFingerprint,
		Credential: "fp-7",
		RoomNumber: "101",
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if rec.Status != StatusLate {
		t.Errorf("status = %q, want late", rec.Status)
	}
}

func TestRecordScanExactlyAtGraceBoundary(t *testing.T) {
	// 09:15 sharp is still within the grace window.
	svc, _ := newTestService(t, time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC))

	rec, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "04AB11CD",
		RoomID:     "room-101",
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if rec.Status != StatusPresent {
		t.Errorf("status = %q, want present at grace boundary", rec.Status)
	}
}

func TestRecordScanDuplicateReturnsFirstRecord(t *testing.T) {
	svc, _ := newTestService(t, mondayClass)
	ctx := context.Background()
	scan := &Scan{Source: SourceRFID, Credential: "04AB11CD", RoomID: "room-101"}

	first, err := svc.RecordScan(ctx, scan)
	if err != nil {
		t.Fatalf("first RecordScan: %v", err)
	}

	second, err := svc.RecordScan(ctx, scan)
	if !errors.Is(err, ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Error("duplicate scan should return the original record")
	}
}

func TestRecordScanUnknownCredential(t *testing.T) {
	svc, _ := newTestService(t, mondayClass)

	_, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "DEADBEEF",
		RoomID:     "room-101",
	})
	if !errors.Is(err, ErrUnknownCredential) {
		t.Errorf("expected ErrUnknownCredential, got %v", err)
	}
}

func TestRecordScanNoActiveClass(t *testing.T) {
	// Monday 14:00, no class scheduled.
	svc, _ := newTestService(t, time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	_, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "04AB11CD",
		RoomID:     "room-101",
	})
	if !errors.Is(err, ErrNoActiveClass) {
		t.Errorf("expected ErrNoActiveClass, got %v", err)
	}
}

func TestRecordScanNotEnrolled(t *testing.T) {
	svc, repo := newTestService(t, mondayClass)
	delete(repo.enrollments, "stu-1|sched-1")

	_, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "04AB11CD",
		RoomID:     "room-101",
	})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestRecordScanValidation(t *testing.T) {
	svc, _ := newTestService(t, mondayClass)
	ctx := context.Background()

	cases := []struct {
		name string
		scan *Scan
	}{
		{"bad source", &Scan{Source: "nfc", Credential: "x", RoomID: "room-101"}},
		{"empty credential", &Scan{Source: SourceRFID, Credential: "  ", RoomID: "room-101"}},
		{"no room", &Scan{Source: SourceRFID, Credential: "04AB11CD"}},
	}
	for _, tc := range cases {
		if _, err := svc.RecordScan(ctx, tc.scan); !errors.Is(err, ErrInvalidScan) {
			t.Errorf("%s: expected ErrInvalidScan, got %v", tc.name, err)
		}
	}
}

func TestRecordScanUsesProvidedTimestamp(t *testing.T) {
	// Clock says Tuesday, but the scan carries a Monday class timestamp
	// (device buffered it during a network outage).
	svc, _ := newTestService(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	rec, err := svc.RecordScan(context.Background(), &Scan{
		Source:     SourceRFID,
		Credential: "04AB11CD",
		RoomID:     "room-101",
		ScannedAt:  mondayClass,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if rec.MeetingDate != "2026-08-31" {
		t.Errorf("meeting date = %q, want the scan's own date", rec.MeetingDate)
	}
}

func TestValidateStudent(t *testing.T) {
	valid := &Student{StudentNumber: "S1001", Name: "Dana Reyes", CardUID: strPtr("04AB11CD")}
	if err := ValidateStudent(valid); err != nil {
		t.Errorf("valid student rejected: %v", err)
	}
	if err := ValidateStudent(&Student{Name: "No Number"}); !errors.Is(err, ErrInvalidStudent) {
		t.Errorf("expected ErrInvalidStudent, got %v", err)
	}
	if err := ValidateStudent(&Student{StudentNumber: "S1", Name: "X", CardUID: strPtr(" ")}); !errors.Is(err, ErrInvalidStudent) {
		t.Errorf("expected ErrInvalidStudent for blank card, got %v", err)
	}
}
