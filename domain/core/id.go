package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// Domain-specific ID types
type (
	EventID   ID
	RequestID ID
)

func (id EventID) String() string   { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// NewRequestID returns a fresh id for correlating one outbound call
func NewRequestID() RequestID {
	return RequestID(NewID())
}

var (
	eventIDPattern      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	supereventIDPattern = regexp.MustCompile(`^(?:[TM]?S|GW)\d{6}[a-z]*$`)
)

// ParseEventID parses a GraceDB event or superevent id such as G123456 or
// S190425z.
func ParseEventID(s string) (EventID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: event ID cannot be empty", ErrInvalidEventID)
	}
	if !eventIDPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventID, s)
	}
	return EventID(s), nil
}

// IsSuperevent reports whether the id addresses a superevent rather than an
// individual event.
func (id EventID) IsSuperevent() bool {
	return supereventIDPattern.MatchString(string(id))
}
