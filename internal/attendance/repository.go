package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for roster and attendance persistence.
type Repository interface {
	CreateStudent(ctx context.Context, student *Student) error
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id string) (*Student, error)
	GetStudentByCredential(ctx context.Context, source Source, credential string) (*Student, error)
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id string) error

	Enroll(ctx context.Context, studentID, scheduleID string) error
	Unenroll(ctx context.Context, studentID, scheduleID string) error
	IsEnrolled(ctx context.Context, studentID, scheduleID string) (bool, error)
	ListEnrollmentsBySchedule(ctx context.Context, scheduleID string) ([]Enrollment, error)

	CreateRecord(ctx context.Context, record *Record) error
	GetRecordForMeeting(ctx context.Context, studentID, scheduleID, meetingDate string) (*Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed attendance repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateStudent inserts a new student into the roster.
func (r *SQLiteRepository) CreateStudent(ctx context.Context, student *Student) error {
	const query = `INSERT INTO students (id, student_number, name, card_uid, fingerprint_id)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		student.ID, student.StudentNumber, student.Name,
		nullStr(student.CardUID), nullStr(student.FingerprintID))
	if err != nil {
		return fmt.Errorf("inserting student %s: %w", student.ID, err)
	}
	return nil
}

// ListStudents returns all students ordered by student number.
func (r *SQLiteRepository) ListStudents(ctx context.Context) ([]Student, error) {
	const query = `SELECT id, student_number, name, card_uid, fingerprint_id, created_at, updated_at
		FROM students ORDER BY student_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		s, err := scanStudentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning student row: %w", err)
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating student rows: %w", err)
	}
	return students, nil
}

// GetStudent returns a single student by ID.
func (r *SQLiteRepository) GetStudent(ctx context.Context, id string) (*Student, error) {
	const query = `SELECT id, student_number, name, card_uid, fingerprint_id, created_at, updated_at
		FROM students WHERE id = ?`
	return scanStudent(r.db.QueryRowContext(ctx, query, id))
}

// GetStudentByCredential resolves a reader credential to a student.
// RFID scans match card_uid, fingerprint scans match fingerprint_id.
func (r *SQLiteRepository) GetStudentByCredential(ctx context.Context, source Source, credential string) (*Student, error) {
	var column string
	switch source {
	case SourceRFID:
		column = "card_uid"
	case SourceFingerprint:
		column = "fingerprint_id"
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidScan, source)
	}
	query := fmt.Sprintf(`SELECT id, student_number, name, card_uid, fingerprint_id, created_at, updated_at
		FROM students WHERE %s = ?`, column)
	student, err := scanStudent(r.db.QueryRowContext(ctx, query, credential))
	if err != nil {
		if err == ErrStudentNotFound {
			return nil, ErrUnknownCredential
		}
		return nil, err
	}
	return student, nil
}

// UpdateStudent updates an existing student record.
func (r *SQLiteRepository) UpdateStudent(ctx context.Context, student *Student) error {
	const query = `UPDATE students SET student_number = ?, name = ?, card_uid = ?, fingerprint_id = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		student.StudentNumber, student.Name,
		nullStr(student.CardUID), nullStr(student.FingerprintID), student.ID)
	if err != nil {
		return fmt.Errorf("updating student %s: %w", student.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// DeleteStudent removes a student. Enrollments and attendance records are
// removed by the FK cascade.
func (r *SQLiteRepository) DeleteStudent(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting student %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Enroll links a student to a schedule.
func (r *SQLiteRepository) Enroll(ctx context.Context, studentID, scheduleID string) error {
	const query = `INSERT INTO enrollments (student_id, schedule_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, studentID, scheduleID)
	if err != nil {
		if isConstraintErr(err) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("enrolling student %s in %s: %w", studentID, scheduleID, err)
	}
	return nil
}

// Unenroll removes a student from a schedule.
func (r *SQLiteRepository) Unenroll(ctx context.Context, studentID, scheduleID string) error {
	const query = `DELETE FROM enrollments WHERE student_id = ? AND schedule_id = ?`
	_, err := r.db.ExecContext(ctx, query, studentID, scheduleID)
	if err != nil {
		return fmt.Errorf("unenrolling student %s from %s: %w", studentID, scheduleID, err)
	}
	return nil
}

// IsEnrolled reports whether a student is enrolled in a schedule.
func (r *SQLiteRepository) IsEnrolled(ctx context.Context, studentID, scheduleID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE student_id = ? AND schedule_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, studentID, scheduleID).Scan(&count); err != nil {
		return false, fmt.Errorf("checking enrollment: %w", err)
	}
	return count > 0, nil
}

// ListEnrollmentsBySchedule returns all enrollments for a schedule.
func (r *SQLiteRepository) ListEnrollmentsBySchedule(ctx context.Context, scheduleID string) ([]Enrollment, error) {
	const query = `SELECT student_id, schedule_id, created_at
		FROM enrollments WHERE schedule_id = ? ORDER BY student_id`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("querying enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		var createdAt string
		if err := rows.Scan(&e.StudentID, &e.ScheduleID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning enrollment row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}

// CreateRecord inserts an attendance record. The unique constraint on
// (student, schedule, meeting_date) makes the first scan of the day win.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, record *Record) error {
	const query = `INSERT INTO attendance_records
		(id, student_id, schedule_id, meeting_date, status, source, device_id, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.StudentID, record.ScheduleID, record.MeetingDate,
		string(record.Status), string(record.Source), record.DeviceID,
		record.ScannedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isConstraintErr(err) {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("inserting attendance record %s: %w", record.ID, err)
	}
	return nil
}

// GetRecordForMeeting returns the record for one student at one class meeting.
func (r *SQLiteRepository) GetRecordForMeeting(ctx context.Context, studentID, scheduleID, meetingDate string) (*Record, error) {
	const query = `SELECT id, student_id, schedule_id, meeting_date, status, source, device_id, scanned_at
		FROM attendance_records
		WHERE student_id = ? AND schedule_id = ? AND meeting_date = ?`
	return scanRecord(r.db.QueryRowContext(ctx, query, studentID, scheduleID, meetingDate))
}

// ListRecords returns attendance records matching the filter, newest first.
func (r *SQLiteRepository) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `SELECT id, student_id, schedule_id, meeting_date, status, source, device_id, scanned_at
		FROM attendance_records`
	var conds []string
	var args []any
	if filter.StudentID != "" {
		conds = append(conds, "student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.ScheduleID != "" {
		conds = append(conds, "schedule_id = ?")
		args = append(args, filter.ScheduleID)
	}
	if filter.MeetingDate != "" {
		conds = append(conds, "meeting_date = ?")
		args = append(args, filter.MeetingDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY scanned_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attendance records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attendance row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attendance rows: %w", err)
	}
	return records, nil
}

// scanStudent scans a single row into a Student (for QueryRow).
func scanStudent(row *sql.Row) (*Student, error) {
	var s Student
	var cardUID, fingerprintID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.StudentNumber, &s.Name, &cardUID, &fingerprintID, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("scanning student: %w", err)
	}
	if cardUID.Valid {
		s.CardUID = &cardUID.String
	}
	if fingerprintID.Valid {
		s.FingerprintID = &fingerprintID.String
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// scanStudentRow scans a student from a Rows cursor.
func scanStudentRow(rows *sql.Rows) (*Student, error) {
	var s Student
	var cardUID, fingerprintID sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&s.ID, &s.StudentNumber, &s.Name, &cardUID, &fingerprintID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if cardUID.Valid {
		s.CardUID = &cardUID.String
	}
	if fingerprintID.Valid {
		s.FingerprintID = &fingerprintID.String
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// scanRecord scans a single row into a Record (for QueryRow).
func scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var status, source, scannedAt string

	err := row.Scan(&rec.ID, &rec.StudentID, &rec.ScheduleID, &rec.MeetingDate,
		&status, &source, &rec.DeviceID, &scannedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("scanning attendance record: %w", err)
	}
	rec.Status = Status(status)
	rec.Source = Source(source)
	rec.ScannedAt = parseTime(scannedAt)
	return &rec, nil
}

// scanRecordRow scans a record from a Rows cursor.
func scanRecordRow(rows *sql.Rows) (*Record, error) {
	var rec Record
	var status, source, scannedAt string

	err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ScheduleID, &rec.MeetingDate,
		&status, &source, &rec.DeviceID, &scannedAt)
	if err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	rec.Source = Source(source)
	rec.ScannedAt = parseTime(scannedAt)
	return &rec, nil
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isConstraintErr reports whether an error is a SQLite constraint violation.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint
}
