// Package auth provides token validation and role checks for Rollcall Core.
//
// It implements a 3-tier role model (student → instructor → admin) with
// HS256 JWT access tokens. Token issuance lives in operator tooling outside
// this service; the backend only validates signatures and enforces role
// floors on dashboard routes (device health and attendance data require
// instructor or above, campus data mutations require admin).
//
// Device authentication is deliberately separate and simpler: physical
// controllers authenticate with a static shared API key checked at the HTTP
// boundary, not with per-device tokens.
package auth
