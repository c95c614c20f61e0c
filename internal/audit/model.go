// Package audit provides audit logging for admin dashboard actions:
// logins, data exports, and provider application reviews.
package audit

import (
	"time"
)

// Log represents a single audit event in the system.
type Log struct {
	ID         string
	AdminUser  string
	EntityType string
	EntityID   string
	Action     string
	Outcome    string // "success" or "failure"
	CreatedAt  time.Time

	// Optional metadata
	RequestID string
	IPAddress string
	UserAgent string
}

// Entry represents the input for creating an audit log entry.
type Entry struct {
	AdminUser  string
	EntityType string
	EntityID   string
	Action     string
	Outcome    string // "success" or "failure"

	// Optional metadata
	RequestID string
	IPAddress string
	UserAgent string
}
