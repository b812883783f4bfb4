package realtime

import "github.com/ecavus/collegia/internal/app/models"

// Timeline holds the rendered message sequence for one college: the
// historical fetch merged with live insert events, deduplicated by
// message id and never re-sorted after the initial load.
//
// Timeline is not safe for concurrent use; the owner serializes access
// so each append is a single atomic state transition.
type Timeline struct {
	messages []models.Message
	seen     map[int64]struct{}
	loaded   bool
	pending  []models.Message
}

// NewTimeline returns an empty timeline awaiting its historical load.
func NewTimeline() *Timeline {
	return &Timeline{seen: make(map[int64]struct{})}
}

// Load seeds the timeline with the historical sequence, assumed to be
// in server commit order. Live events that arrived before the history
// resolved are replayed afterwards; duplicates collapse by id.
func (t *Timeline) Load(history []models.Message) {
	t.messages = make([]models.Message, 0, len(history)+len(t.pending))
	t.seen = make(map[int64]struct{}, len(history)+len(t.pending))

	for _, msg := range history {
		t.append(msg)
	}

	t.loaded = true
	pending := t.pending
	t.pending = nil
	for _, msg := range pending {
		t.append(msg)
	}
}

// Append folds one live insert event into the sequence. A message id
// already present is dropped silently; new messages go to the end.
// Events received before Load are buffered and replayed after it.
// Returns whether the rendered sequence changed.
func (t *Timeline) Append(msg models.Message) bool {
	if !t.loaded {
		t.pending = append(t.pending, msg)
		return false
	}
	return t.append(msg)
}

func (t *Timeline) append(msg models.Message) bool {
	if _, dup := t.seen[msg.ID]; dup {
		return false
	}
	t.seen[msg.ID] = struct{}{}
	t.messages = append(t.messages, msg)
	return true
}

// Loaded reports whether the historical fetch has been applied.
func (t *Timeline) Loaded() bool {
	return t.loaded
}

// Len returns the rendered sequence length.
func (t *Timeline) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the rendered sequence in commit order.
func (t *Timeline) Messages() []models.Message {
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
