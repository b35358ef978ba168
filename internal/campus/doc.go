// Package campus provides the physical and academic structure of a campus.
//
// It defines the model used by Rollcall: Rooms (physical spaces where
// controllers are mounted), Subjects (courses), and Schedules (a subject
// meeting in a room at a weekly time slot). Schedules carry a grace window
// that decides whether a scan counts as present or late.
//
// The package provides a Repository interface with a SQLite implementation.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + connection pooling).
package campus
