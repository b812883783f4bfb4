package realtime

import (
	"strings"
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

// EventType discriminates events delivered on a channel subscription.
type EventType string

const (
	// EventMessage carries a newly committed forum message.
	EventMessage EventType = "message"
	// EventPresence carries a full roster snapshot. The roster is
	// always replaced wholesale, never patched.
	EventPresence EventType = "presence"
	// EventError notifies a single subscriber that its own send failed.
	EventError EventType = "error"
)

// Event is a single delivery on a channel subscription. Exactly one of
// Message, Roster or Error is set depending on Type.
type Event struct {
	Type    EventType       `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Roster  []PresenceEntry `json:"roster,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// PresencePayload is the liveness announcement a client publishes when
// it joins a channel. UserID and a display name are required; payloads
// missing either are ignored rather than propagated into the roster.
type PresencePayload struct {
	UserID     int64   `json:"userId"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	RollNumber *string `json:"rollNumber,omitempty"`
}

// Valid reports whether the payload carries the required identity fields.
func (p PresencePayload) Valid() bool {
	return p.UserID > 0 && strings.TrimSpace(p.FirstName+p.LastName) != ""
}

// PresenceEntry is one deduplicated roster entry. A user with several
// open sessions appears exactly once.
type PresenceEntry struct {
	UserID     int64     `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	RollNumber *string   `json:"rollNumber,omitempty"`
	LastSeen   time.Time `json:"lastSeen"`
}
