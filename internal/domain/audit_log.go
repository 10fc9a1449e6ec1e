package domain

import "time"

// LogEntry is one row of the backend audit log.
type LogEntry struct {
	ID        int64
	Message   string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}
