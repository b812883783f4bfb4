package realtime

import (
	"testing"
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

func msg(id int64, body string) models.Message {
	return models.Message{
		ID:        id,
		CollegeID: 1,
		UserID:    id,
		FirstName: "User",
		LastName:  "Test",
		Body:      body,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, int(id), 0, time.UTC),
	}
}

func ids(messages []models.Message) []int64 {
	out := make([]int64, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTimeline_LoadThenAppend(t *testing.T) {
	tl := NewTimeline()
	tl.Load([]models.Message{msg(1, "first"), msg(2, "second")})

	if !tl.Loaded() {
		t.Fatal("Loaded() = false after Load")
	}
	if !tl.Append(msg(3, "third")) {
		t.Error("Append() of new message = false, want true")
	}
	if got := ids(tl.Messages()); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("Messages() ids = %v, want [1 2 3]", got)
	}
}

func TestTimeline_DuplicateDropped(t *testing.T) {
	tl := NewTimeline()
	tl.Load([]models.Message{msg(1, "first"), msg(2, "second")})

	// The sender's own message arrives on the live stream after it was
	// already part of the fetched history.
	if tl.Append(msg(2, "second")) {
		t.Error("Append() of duplicate id = true, want false")
	}
	if tl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tl.Len())
	}

	tl.Append(msg(3, "third"))
	if tl.Append(msg(3, "third")) {
		t.Error("Append() of repeated live message = true, want false")
	}
	if got := ids(tl.Messages()); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("Messages() ids = %v, want [1 2 3]", got)
	}
}

func TestTimeline_CommitOrderPreserved(t *testing.T) {
	tl := NewTimeline()
	tl.Load(nil)

	// Live events append in arrival order even when timestamps would
	// sort differently; history is trusted, never re-sorted.
	a := msg(10, "later id, earlier time")
	a.CreatedAt = time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	b := msg(5, "earlier id, later time")
	b.CreatedAt = time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tl.Append(a)
	tl.Append(b)

	if got := ids(tl.Messages()); !equalIDs(got, []int64{10, 5}) {
		t.Errorf("Messages() ids = %v, want arrival order [10 5]", got)
	}
}

func TestTimeline_PendingBufferedBeforeLoad(t *testing.T) {
	tl := NewTimeline()

	// Events race ahead of the historical fetch.
	if tl.Append(msg(3, "live")) {
		t.Error("Append() before Load = true, want false")
	}
	tl.Append(msg(4, "live"))

	if tl.Len() != 0 {
		t.Errorf("Len() before Load = %d, want 0", tl.Len())
	}

	// History includes one of the buffered messages; the replayed
	// duplicate collapses.
	tl.Load([]models.Message{msg(1, "old"), msg(2, "old"), msg(3, "old")})

	if got := ids(tl.Messages()); !equalIDs(got, []int64{1, 2, 3, 4}) {
		t.Errorf("Messages() after Load = %v, want [1 2 3 4]", got)
	}
}

func TestTimeline_LoadReplacesState(t *testing.T) {
	tl := NewTimeline()
	tl.Load([]models.Message{msg(1, "stale")})
	tl.Append(msg(2, "stale"))

	tl.Load([]models.Message{msg(7, "fresh")})

	if got := ids(tl.Messages()); !equalIDs(got, []int64{7}) {
		t.Errorf("Messages() after reload = %v, want [7]", got)
	}
	if !tl.Append(msg(2, "no longer seen")) {
		t.Error("Append() after reload = false, want true; old ids must be forgotten")
	}
}

func TestTimeline_MessagesReturnsCopy(t *testing.T) {
	tl := NewTimeline()
	tl.Load([]models.Message{msg(1, "first")})

	snapshot := tl.Messages()
	snapshot[0].Body = "mutated"

	if tl.Messages()[0].Body != "first" {
		t.Error("Messages() snapshot mutation leaked into timeline")
	}
}
