package realtime

import (
	"sort"
	"time"
)

// Roster tracks the currently-present users on one channel, keyed by
// user identity. Several sessions of the same user (multiple tabs)
// collapse into a single entry; the entry disappears when the last
// session untracks or when the lease expires.
//
// Roster is not safe for concurrent use; the owning channel loop
// serializes access.
type Roster struct {
	entries map[int64]*presenceState
}

type presenceState struct {
	payload  PresencePayload
	sessions int
	lastSeen time.Time
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{entries: make(map[int64]*presenceState)}
}

// Track records one more live session for the payload's user. Malformed
// payloads are ignored. Returns whether the set of present users grew.
func (r *Roster) Track(p PresencePayload, now time.Time) bool {
	if !p.Valid() {
		return false
	}

	if state, ok := r.entries[p.UserID]; ok {
		state.sessions++
		state.lastSeen = now
		return false
	}

	r.entries[p.UserID] = &presenceState{payload: p, sessions: 1, lastSeen: now}
	return true
}

// Untrack withdraws one session for the user. The roster entry is
// removed once no sessions remain. Returns whether the set of present
// users shrank. Unknown users are a no-op, so teardown is safe to run
// after a lease expiry already dropped the entry.
func (r *Roster) Untrack(userID int64, now time.Time) bool {
	state, ok := r.entries[userID]
	if !ok {
		return false
	}

	state.sessions--
	if state.sessions > 0 {
		state.lastSeen = now
		return false
	}

	delete(r.entries, userID)
	return true
}

// Touch refreshes the lease for the user's entry.
func (r *Roster) Touch(userID int64, now time.Time) bool {
	state, ok := r.entries[userID]
	if !ok {
		return false
	}
	state.lastSeen = now
	return true
}

// ExpireBefore drops every entry whose lease lapsed before deadline,
// regardless of session count, so a crashed client cannot leave a
// permanent ghost entry. Returns whether anything was removed.
func (r *Roster) ExpireBefore(deadline time.Time) bool {
	removed := false
	for userID, state := range r.entries {
		if state.lastSeen.Before(deadline) {
			delete(r.entries, userID)
			removed = true
		}
	}
	return removed
}

// Len returns the number of distinct present users.
func (r *Roster) Len() int {
	return len(r.entries)
}

// Snapshot returns the deduplicated roster ordered by user id. The
// result replaces any previously delivered snapshot wholesale.
func (r *Roster) Snapshot() []PresenceEntry {
	out := make([]PresenceEntry, 0, len(r.entries))
	for _, state := range r.entries {
		out = append(out, PresenceEntry{
			UserID:     state.payload.UserID,
			FirstName:  state.payload.FirstName,
			LastName:   state.payload.LastName,
			RollNumber: state.payload.RollNumber,
			LastSeen:   state.lastSeen,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
