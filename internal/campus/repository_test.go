package campus

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the campus tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE rooms (
			id TEXT PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			building TEXT NOT NULL DEFAULT '',
			capacity INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE subjects (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE schedules (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			room_id TEXT NOT NULL,
			weekday INTEGER NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			grace_minutes INTEGER NOT NULL DEFAULT 15,
			term TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE,
			FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE CASCADE
		) STRICT;

		INSERT INTO rooms (id, number, name, building, capacity) VALUES
			('room-101', '101', 'Physics Lab', 'Science Block', 32),
			('room-204', '204', 'Lecture Hall B', 'Main', 120);

		INSERT INTO subjects (id, code, name) VALUES
			('subj-phys', 'PHYS-201', 'Classical Mechanics'),
			('subj-chem', 'CHEM-101', 'General Chemistry');

		INSERT INTO schedules (id, subject_id, room_id, weekday, start_minute, end_minute, grace_minutes, term) VALUES
			('sched-mon-phys', 'subj-phys', 'room-101', 1, 540, 630, 15, '2026-fall'),
			('sched-mon-chem', 'subj-chem', 'room-101', 1, 660, 750, 10, '2026-fall'),
			('sched-wed-phys', 'subj-phys', 'room-204', 3, 540, 630, 15, '2026-fall');
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestListRooms(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	rooms, err := repo.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}

	// Sorted by building then number.
	if rooms[0].Number != "204" {
		t.Errorf("first room: got %q, want %q", rooms[0].Number, "204")
	}
	if rooms[1].Number != "101" {
		t.Errorf("second room: got %q, want %q", rooms[1].Number, "101")
	}
}

func TestGetRoomByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	room, err := repo.GetRoomByNumber(context.Background(), "101")
	if err != nil {
		t.Fatalf("GetRoomByNumber: %v", err)
	}
	if room.ID != "room-101" {
		t.Errorf("room ID: got %q, want room-101", room.ID)
	}
	if room.Capacity != 32 {
		t.Errorf("capacity: got %d, want 32", room.Capacity)
	}

	if _, err := repo.GetRoomByNumber(context.Background(), "999"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateAndUpdateRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	room := &Room{ID: "room-305", Number: "305", Name: "Seminar Room", Building: "Main", Capacity: 24}
	if err := repo.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	room.Capacity = 30
	if err := repo.UpdateRoom(ctx, room); err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}

	got, err := repo.GetRoom(ctx, "room-305")
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if got.Capacity != 30 {
		t.Errorf("capacity after update: got %d, want 30", got.Capacity)
	}

	if err := repo.UpdateRoom(ctx, &Room{ID: "nope", Number: "x", Name: "x"}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestDeleteRoomWithSchedules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.DeleteRoom(ctx, "room-101"); !errors.Is(err, ErrRoomHasSchedules) {
		t.Errorf("expected ErrRoomHasSchedules, got %v", err)
	}

	// Remove the schedules, then the delete should succeed.
	if err := repo.DeleteSchedule(ctx, "sched-mon-phys"); err != nil {
		t.Fatalf("DeleteSchedule: %v", err)
	}
	if err := repo.DeleteSchedule(ctx, "sched-mon-chem"); err != nil {
		t.Fatalf("DeleteSchedule: %v", err)
	}
	if err := repo.DeleteRoom(ctx, "room-101"); err != nil {
		t.Fatalf("DeleteRoom after removing schedules: %v", err)
	}
}

func TestSubjectCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	subjects, err := repo.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(subjects))
	}
	// Sorted by code.
	if subjects[0].Code != "CHEM-101" {
		t.Errorf("first subject: got %q, want CHEM-101", subjects[0].Code)
	}

	subj := &Subject{ID: "subj-math", Code: "MATH-110", Name: "Calculus I"}
	if err := repo.CreateSubject(ctx, subj); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	subj.Name = "Calculus I (Honors)"
	if err := repo.UpdateSubject(ctx, subj); err != nil {
		t.Fatalf("UpdateSubject: %v", err)
	}

	got, err := repo.GetSubject(ctx, "subj-math")
	if err != nil {
		t.Fatalf("GetSubject: %v", err)
	}
	if got.Name != "Calculus I (Honors)" {
		t.Errorf("name after update: got %q", got.Name)
	}

	if err := repo.DeleteSubject(ctx, "subj-math"); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	if _, err := repo.GetSubject(ctx, "subj-math"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestListSchedulesByRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	schedules, err := repo.ListSchedulesByRoom(context.Background(), "room-101", time.Monday)
	if err != nil {
		t.Fatalf("ListSchedulesByRoom: %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(schedules))
	}
	// Sorted by start time.
	if schedules[0].ID != "sched-mon-phys" {
		t.Errorf("first schedule: got %q, want sched-mon-phys", schedules[0].ID)
	}
	if schedules[0].Weekday != time.Monday {
		t.Errorf("weekday: got %v, want Monday", schedules[0].Weekday)
	}

	// No classes in that room on Fridays.
	schedules, err = repo.ListSchedulesByRoom(context.Background(), "room-101", time.Friday)
	if err != nil {
		t.Fatalf("ListSchedulesByRoom: %v", err)
	}
	if len(schedules) != 0 {
		t.Errorf("expected no schedules on Friday, got %d", len(schedules))
	}
}

func TestScheduleCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	sched := &Schedule{
		ID:           "sched-fri-chem",
		SubjectID:    "subj-chem",
		RoomID:       "room-204",
		Weekday:      time.Friday,
		StartMinute:  480,
		EndMinute:    570,
		GraceMinutes: 5,
		Term:         "2026-fall",
	}
	if err := repo.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}

	sched.GraceMinutes = 10
	if err := repo.UpdateSchedule(ctx, sched); err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}

	got, err := repo.GetSchedule(ctx, "sched-fri-chem")
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if got.GraceMinutes != 10 {
		t.Errorf("grace after update: got %d, want 10", got.GraceMinutes)
	}

	if err := repo.DeleteSchedule(ctx, "sched-fri-chem"); err != nil {
		t.Fatalf("DeleteSchedule: %v", err)
	}
	if _, err := repo.GetSchedule(ctx, "sched-fri-chem"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestScheduleCovers(t *testing.T) {
	s := &Schedule{Weekday: time.Monday, StartMinute: 540, EndMinute: 630, GraceMinutes: 15}

	if !s.Covers(time.Monday, 540) {
		t.Error("start minute should be covered")
	}
	if !s.Covers(time.Monday, 629) {
		t.Error("minute before end should be covered")
	}
	if s.Covers(time.Monday, 630) {
		t.Error("end minute should not be covered")
	}
	if s.Covers(time.Tuesday, 560) {
		t.Error("wrong weekday should not be covered")
	}
	if got := s.LateAfter(); got != 555 {
		t.Errorf("LateAfter = %d, want 555", got)
	}
}

func TestValidation(t *testing.T) {
	if err := ValidateRoom(&Room{Number: "101", Name: "Lab", Capacity: 10}); err != nil {
		t.Errorf("valid room rejected: %v", err)
	}
	if err := ValidateRoom(&Room{Number: "", Name: "Lab"}); !errors.Is(err, ErrInvalidRoom) {
		t.Errorf("expected ErrInvalidRoom for empty number, got %v", err)
	}
	if err := ValidateRoom(&Room{Number: "101", Name: "Lab", Capacity: -1}); !errors.Is(err, ErrInvalidRoom) {
		t.Errorf("expected ErrInvalidRoom for negative capacity, got %v", err)
	}

	if err := ValidateSubject(&Subject{Code: "PHYS-201", Name: "Mechanics"}); err != nil {
		t.Errorf("valid subject rejected: %v", err)
	}
	if err := ValidateSubject(&Subject{Code: "phys 201", Name: "Mechanics"}); !errors.Is(err, ErrInvalidSubject) {
		t.Errorf("expected ErrInvalidSubject for bad code, got %v", err)
	}

	valid := &Schedule{SubjectID: "s", RoomID: "r", Weekday: time.Monday, StartMinute: 540, EndMinute: 630}
	if err := ValidateSchedule(valid); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	inverted := &Schedule{SubjectID: "s", RoomID: "r", Weekday: time.Monday, StartMinute: 630, EndMinute: 540}
	if err := ValidateSchedule(inverted); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("expected ErrInvalidSchedule for inverted times, got %v", err)
	}
}
