package realtime

import (
	"testing"
	"time"
)

func payload(userID int64, name string) PresencePayload {
	return PresencePayload{UserID: userID, FirstName: name, LastName: "Test"}
}

func TestRoster_TrackAndUntrack(t *testing.T) {
	r := NewRoster()
	now := time.Now()

	if !r.Track(payload(1, "Ada"), now) {
		t.Error("Track() of first session = false, want true")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if !r.Untrack(1, now) {
		t.Error("Untrack() of last session = false, want true")
	}
	if r.Len() != 0 {
		t.Errorf("Len() after untrack = %d, want 0", r.Len())
	}
}

func TestRoster_MultipleSessionsCollapse(t *testing.T) {
	r := NewRoster()
	now := time.Now()

	// Same user in several tabs appears once.
	r.Track(payload(1, "Ada"), now)
	if r.Track(payload(1, "Ada"), now) {
		t.Error("Track() of second session = true, want false; set did not grow")
	}
	if r.Len() != 1 {
		t.Errorf("Len() with two sessions = %d, want 1", r.Len())
	}

	// Closing one tab keeps the entry.
	if r.Untrack(1, now) {
		t.Error("Untrack() with a session remaining = true, want false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() after partial untrack = %d, want 1", r.Len())
	}

	if !r.Untrack(1, now) {
		t.Error("Untrack() of last session = false, want true")
	}
	if r.Len() != 0 {
		t.Errorf("Len() after full untrack = %d, want 0", r.Len())
	}
}

func TestRoster_UntrackUnknownUser(t *testing.T) {
	r := NewRoster()
	if r.Untrack(42, time.Now()) {
		t.Error("Untrack() of unknown user = true, want false")
	}
}

func TestRoster_MalformedPayloadIgnored(t *testing.T) {
	r := NewRoster()
	now := time.Now()

	if r.Track(PresencePayload{UserID: 0, FirstName: "Ghost"}, now) {
		t.Error("Track() with zero user id = true, want false")
	}
	if r.Track(PresencePayload{UserID: 3, FirstName: "  ", LastName: ""}, now) {
		t.Error("Track() with blank name = true, want false")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRoster_ExpireBefore(t *testing.T) {
	r := NewRoster()
	base := time.Now()

	r.Track(payload(1, "Ada"), base.Add(-2*time.Minute))
	r.Track(payload(2, "Grace"), base)

	// A second session does not shield the entry from lease expiry;
	// a crashed client must not leave a ghost.
	r.Track(payload(1, "Ada"), base.Add(-2*time.Minute))

	if !r.ExpireBefore(base.Add(-time.Minute)) {
		t.Error("ExpireBefore() = false, want true")
	}
	if r.Len() != 1 {
		t.Errorf("Len() after expiry = %d, want 1", r.Len())
	}
	if got := r.Snapshot(); len(got) != 1 || got[0].UserID != 2 {
		t.Errorf("Snapshot() after expiry = %v, want only user 2", got)
	}

	// Teardown racing the sweep is harmless.
	if r.Untrack(1, base) {
		t.Error("Untrack() after expiry = true, want false")
	}
}

func TestRoster_TouchRefreshesLease(t *testing.T) {
	r := NewRoster()
	base := time.Now()

	r.Track(payload(1, "Ada"), base.Add(-2*time.Minute))
	if !r.Touch(1, base) {
		t.Error("Touch() of tracked user = false, want true")
	}
	if r.Touch(9, base) {
		t.Error("Touch() of unknown user = true, want false")
	}
	if r.ExpireBefore(base.Add(-time.Minute)) {
		t.Error("ExpireBefore() after touch = true, want false")
	}
}

func TestRoster_SnapshotSorted(t *testing.T) {
	r := NewRoster()
	now := time.Now()

	r.Track(payload(30, "Carol"), now)
	r.Track(payload(10, "Ada"), now)
	r.Track(payload(20, "Bob"), now)

	snapshot := r.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("Snapshot() len = %d, want 3", len(snapshot))
	}
	for i, want := range []int64{10, 20, 30} {
		if snapshot[i].UserID != want {
			t.Errorf("Snapshot()[%d].UserID = %d, want %d", i, snapshot[i].UserID, want)
		}
	}
}
