// Package attendance implements the roster and scan-to-record pipeline.
//
// Students carry an RFID card or an enrolled fingerprint template. When a
// room controller reports a scan, the Service resolves the credential to a
// student, finds the class in session in that room, checks enrollment, and
// writes at most one attendance record per student per class meeting.
// Scans inside the schedule grace window are recorded as present, later
// scans as late.
//
// Persistence is SQLite through the Repository interface; resolution logic
// lives in Service so it can be tested against mock repositories.
package attendance
