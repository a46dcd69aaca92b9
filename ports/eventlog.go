package ports

import (
	"context"
	"time"
)

// LogEntry is the log message the event tracking service created
type LogEntry struct {
	Number    int       `json:"N"`
	Comment   string    `json:"comment"`
	TagNames  []string  `json:"tag_names"`
	Filename  string    `json:"filename,omitempty"`
	Creator   string    `json:"issuer,omitempty"`
	CreatedAt time.Time `json:"created"`
}

// EventLogWriter appends a log message to an event. filename may be empty;
// tag is applied to the created message.
type EventLogWriter interface {
	WriteLog(ctx context.Context, eventID, message, filename, tag string) (*LogEntry, error)
}
