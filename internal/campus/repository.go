package campus

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for campus persistence operations.
type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, id string) error

	CreateSubject(ctx context.Context, subject *Subject) error
	ListSubjects(ctx context.Context) ([]Subject, error)
	GetSubject(ctx context.Context, id string) (*Subject, error)
	UpdateSubject(ctx context.Context, subject *Subject) error
	DeleteSubject(ctx context.Context, id string) error

	CreateSchedule(ctx context.Context, schedule *Schedule) error
	ListSchedules(ctx context.Context) ([]Schedule, error)
	ListSchedulesByRoom(ctx context.Context, roomID string, weekday time.Weekday) ([]Schedule, error)
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	UpdateSchedule(ctx context.Context, schedule *Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed campus repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateRoom inserts a new room into the database.
func (r *SQLiteRepository) CreateRoom(ctx context.Context, room *Room) error {
	const query = `INSERT INTO rooms (id, number, name, building, capacity)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		room.ID, room.Number, room.Name, room.Building, room.Capacity)
	if err != nil {
		return fmt.Errorf("inserting room %s: %w", room.ID, err)
	}
	return nil
}

// ListRooms returns all rooms ordered by building then number.
func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]Room, error) {
	const query = `SELECT id, number, name, building, capacity, created_at, updated_at
		FROM rooms ORDER BY building, number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		rm, err := scanRoomRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// GetRoom returns a single room by ID.
func (r *SQLiteRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	const query = `SELECT id, number, name, building, capacity, created_at, updated_at
		FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, query, id))
}

// GetRoomByNumber returns a single room by its campus room number.
func (r *SQLiteRepository) GetRoomByNumber(ctx context.Context, number string) (*Room, error) {
	const query = `SELECT id, number, name, building, capacity, created_at, updated_at
		FROM rooms WHERE number = ?`
	return scanRoom(r.db.QueryRowContext(ctx, query, number))
}

// UpdateRoom updates an existing room record.
func (r *SQLiteRepository) UpdateRoom(ctx context.Context, room *Room) error {
	const query = `UPDATE rooms SET number = ?, name = ?, building = ?, capacity = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		room.Number, room.Name, room.Building, room.Capacity, room.ID)
	if err != nil {
		return fmt.Errorf("updating room %s: %w", room.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// DeleteRoom removes a single room by ID.
// Returns ErrRoomHasSchedules if schedules still reference this room.
func (r *SQLiteRepository) DeleteRoom(ctx context.Context, id string) error {
	var scheduleCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedules WHERE room_id = ?", id).Scan(&scheduleCount); err != nil {
		return fmt.Errorf("counting schedules for room %s: %w", id, err)
	}
	if scheduleCount > 0 {
		return ErrRoomHasSchedules
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting room %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// CreateSubject inserts a new subject into the database.
func (r *SQLiteRepository) CreateSubject(ctx context.Context, subject *Subject) error {
	const query = `INSERT INTO subjects (id, code, name) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, subject.ID, subject.Code, subject.Name)
	if err != nil {
		return fmt.Errorf("inserting subject %s: %w", subject.ID, err)
	}
	return nil
}

// ListSubjects returns all subjects ordered by code.
func (r *SQLiteRepository) ListSubjects(ctx context.Context) ([]Subject, error) {
	const query = `SELECT id, code, name, created_at, updated_at
		FROM subjects ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var s Subject
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning subject row: %w", err)
		}
		s.CreatedAt = parseTime(createdAt)
		s.UpdatedAt = parseTime(updatedAt)
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subject rows: %w", err)
	}
	return subjects, nil
}

// GetSubject returns a single subject by ID.
func (r *SQLiteRepository) GetSubject(ctx context.Context, id string) (*Subject, error) {
	const query = `SELECT id, code, name, created_at, updated_at
		FROM subjects WHERE id = ?`
	var s Subject
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Code, &s.Name, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("scanning subject: %w", err)
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// UpdateSubject updates an existing subject record.
func (r *SQLiteRepository) UpdateSubject(ctx context.Context, subject *Subject) error {
	const query = `UPDATE subjects SET code = ?, name = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, subject.Code, subject.Name, subject.ID)
	if err != nil {
		return fmt.Errorf("updating subject %s: %w", subject.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// DeleteSubject removes a single subject by ID. Schedules referencing the
// subject are removed by the FK cascade.
func (r *SQLiteRepository) DeleteSubject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting subject %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// CreateSchedule inserts a new schedule into the database.
func (r *SQLiteRepository) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	const query = `INSERT INTO schedules (id, subject_id, room_id, weekday,
		start_minute, end_minute, grace_minutes, term)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		schedule.ID, schedule.SubjectID, schedule.RoomID, int(schedule.Weekday),
		schedule.StartMinute, schedule.EndMinute, schedule.GraceMinutes, schedule.Term)
	if err != nil {
		return fmt.Errorf("inserting schedule %s: %w", schedule.ID, err)
	}
	return nil
}

// ListSchedules returns all schedules ordered by weekday then start time.
func (r *SQLiteRepository) ListSchedules(ctx context.Context) ([]Schedule, error) {
	const query = `SELECT id, subject_id, room_id, weekday, start_minute,
		end_minute, grace_minutes, term, created_at, updated_at
		FROM schedules ORDER BY weekday, start_minute`
	return r.querySchedules(ctx, query)
}

// ListSchedulesByRoom returns schedules for a room on a given weekday,
// ordered by start time. Used to resolve which class a scan belongs to.
func (r *SQLiteRepository) ListSchedulesByRoom(ctx context.Context, roomID string, weekday time.Weekday) ([]Schedule, error) {
	const query = `SELECT id, subject_id, room_id, weekday, start_minute,
		end_minute, grace_minutes, term, created_at, updated_at
		FROM schedules WHERE room_id = ? AND weekday = ? ORDER BY start_minute`
	return r.querySchedules(ctx, query, roomID, int(weekday))
}

// GetSchedule returns a single schedule by ID.
func (r *SQLiteRepository) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	const query = `SELECT id, subject_id, room_id, weekday, start_minute,
		end_minute, grace_minutes, term, created_at, updated_at
		FROM schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, query, id))
}

// UpdateSchedule updates an existing schedule record.
func (r *SQLiteRepository) UpdateSchedule(ctx context.Context, schedule *Schedule) error {
	const query = `UPDATE schedules SET subject_id = ?, room_id = ?, weekday = ?,
		start_minute = ?, end_minute = ?, grace_minutes = ?, term = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		schedule.SubjectID, schedule.RoomID, int(schedule.Weekday),
		schedule.StartMinute, schedule.EndMinute, schedule.GraceMinutes,
		schedule.Term, schedule.ID)
	if err != nil {
		return fmt.Errorf("updating schedule %s: %w", schedule.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// DeleteSchedule removes a single schedule by ID.
func (r *SQLiteRepository) DeleteSchedule(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting schedule %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// querySchedules executes a query and returns a slice of Schedule.
func (r *SQLiteRepository) querySchedules(ctx context.Context, query string, args ...any) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		s, err := scanScheduleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		schedules = append(schedules, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule rows: %w", err)
	}
	return schedules, nil
}

// scanRoom scans a single row into a Room (for QueryRow).
func scanRoom(row *sql.Row) (*Room, error) {
	var rm Room
	var createdAt, updatedAt string

	err := row.Scan(&rm.ID, &rm.Number, &rm.Name, &rm.Building, &rm.Capacity, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// scanRoomRow scans a room from a Rows cursor.
func scanRoomRow(rows *sql.Rows) (*Room, error) {
	var rm Room
	var createdAt, updatedAt string

	err := rows.Scan(&rm.ID, &rm.Number, &rm.Name, &rm.Building, &rm.Capacity, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// scanSchedule scans a single row into a Schedule (for QueryRow).
func scanSchedule(row *sql.Row) (*Schedule, error) {
	var s Schedule
	var weekday int
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.SubjectID, &s.RoomID, &weekday,
		&s.StartMinute, &s.EndMinute, &s.GraceMinutes, &s.Term, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	s.Weekday = time.Weekday(weekday)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// scanScheduleRow scans a schedule from a Rows cursor.
func scanScheduleRow(rows *sql.Rows) (*Schedule, error) {
	var s Schedule
	var weekday int
	var createdAt, updatedAt string

	err := rows.Scan(&s.ID, &s.SubjectID, &s.RoomID, &weekday,
		&s.StartMinute, &s.EndMinute, &s.GraceMinutes, &s.Term, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.Weekday = time.Weekday(weekday)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
