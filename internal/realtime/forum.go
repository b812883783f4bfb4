package realtime

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
)

// Gate resolves a user's college membership and decides whether the
// user may join a college's channel. No membership is the normal
// Denied outcome (apperrors.ErrNoCollegeMembership); a mismatched
// college is apperrors.ErrPermissionDenied. Transient lookup failures
// surface as other errors.
type Gate interface {
	Authorize(ctx context.Context, userID, collegeID int64) error
}

// HistoryFetcher returns the full durable message sequence for a
// college in server commit order.
type HistoryFetcher interface {
	History(ctx context.Context, collegeID int64) ([]models.Message, error)
}

// Stream is one open channel subscription: message inserts and
// presence snapshots multiplexed onto a single delivery stream.
type Stream interface {
	Events() <-chan Event
	Close()
}

// StreamOpener establishes a channel subscription for a college and
// announces the given presence payload on it.
type StreamOpener interface {
	Open(collegeID int64, presence PresencePayload) (Stream, error)
}

// MessageSender performs the authoritative message write. The written
// message reaches subscribers, including the author, only through the
// live stream.
type MessageSender interface {
	Send(ctx context.Context, userID, collegeID int64, body string) error
}

// Forum is a single user's forum session: the merged, deduplicated
// message sequence plus the live presence roster for one college.
// All state is owned by the session and mutated only under its lock,
// so every stream event applies as one atomic transition.
type Forum struct {
	gate    Gate
	history HistoryFetcher
	opener  StreamOpener
	sender  MessageSender
	logger  zerolog.Logger

	mu         sync.Mutex
	mounted    bool
	generation uint64
	userID     int64
	collegeID  int64
	timeline   *Timeline
	roster     []PresenceEntry
	stream     Stream
	cancel     context.CancelFunc
	loadErr    error
}

// NewForum creates an unmounted forum session.
func NewForum(gate Gate, history HistoryFetcher, opener StreamOpener, sender MessageSender, logger zerolog.Logger) *Forum {
	return &Forum{
		gate:    gate,
		history: history,
		opener:  opener,
		sender:  sender,
		logger:  logger,
	}
}

// Mount authorizes the user against the college, opens the channel,
// announces presence, and starts the one-time historical fetch. When
// the session is already mounted (college switch), the previous handle
// is closed first so two message streams are never live at once.
//
// Denied and Unauthenticated outcomes from the gate abort before any
// fetch or subscription happens.
func (f *Forum) Mount(ctx context.Context, userID, collegeID int64, presence PresencePayload) error {
	if err := f.gate.Authorize(ctx, userID, collegeID); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mounted {
		f.unmountLocked()
	}

	stream, err := f.opener.Open(collegeID, presence)
	if err != nil {
		return err
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	f.mounted = true
	f.generation++
	f.userID = userID
	f.collegeID = collegeID
	f.timeline = NewTimeline()
	f.roster = nil
	f.stream = stream
	f.cancel = cancel
	f.loadErr = nil

	gen := f.generation
	go f.consume(sessionCtx, gen, stream)
	go f.load(sessionCtx, gen, collegeID)

	return nil
}

// load performs the one-time historical fetch. A response that arrives
// after unmount (or after a remount) is discarded, so stale fetches
// cannot resurrect torn-down state.
func (f *Forum) load(ctx context.Context, gen uint64, collegeID int64) {
	history, err := f.history.History(ctx, collegeID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mounted || f.generation != gen || ctx.Err() != nil {
		return
	}

	if err != nil {
		f.loadErr = err
		f.logger.Error().Err(err).
			Int64("collegeID", collegeID).
			Msg("Historical message fetch failed")
		return
	}

	f.timeline.Load(history)
}

// consume folds live stream events into session state until the stream
// closes or the session is cancelled.
func (f *Forum) consume(ctx context.Context, gen uint64, stream Stream) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stream.Events():
			if !ok {
				// StreamDrop: intentionally silent. Presence entries
				// for this session expire via the server-side lease.
				return
			}
			f.apply(gen, ev)
		}
	}
}

func (f *Forum) apply(gen uint64, ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mounted || f.generation != gen {
		return
	}

	switch ev.Type {
	case EventMessage:
		if ev.Message != nil {
			f.timeline.Append(*ev.Message)
		}
	case EventPresence:
		f.roster = ev.Roster
	}
}

// Send validates the body and performs the authoritative write. An
// empty or whitespace-only body is rejected before any network call.
// The message is not inserted locally; it becomes visible through the
// live stream like every other subscriber sees it.
func (f *Forum) Send(ctx context.Context, body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return apperrors.ErrEmptyMessage
	}

	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return apperrors.NewForbiddenError("forum session is not mounted")
	}
	userID, collegeID := f.userID, f.collegeID
	f.mu.Unlock()

	return f.sender.Send(ctx, userID, collegeID, trimmed)
}

// Unmount withdraws presence, closes both streams, and cancels the
// in-flight historical fetch's effect on state. Safe to call more than
// once and after the underlying connection already dropped.
func (f *Forum) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mounted {
		f.unmountLocked()
	}
}

func (f *Forum) unmountLocked() {
	f.cancel()
	f.stream.Close()
	f.mounted = false
	f.timeline = nil
	f.roster = nil
	f.stream = nil
	f.cancel = nil
}

// Messages returns the rendered message sequence in commit order.
func (f *Forum) Messages() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timeline == nil {
		return nil
	}
	return f.timeline.Messages()
}

// ActiveUsers returns the latest presence roster snapshot.
func (f *Forum) ActiveUsers() []PresenceEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PresenceEntry, len(f.roster))
	copy(out, f.roster)
	return out
}

// Loaded reports whether the historical fetch has completed.
func (f *Forum) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeline != nil && f.timeline.Loaded()
}

// LoadErr returns the historical fetch failure, if any. The caller
// surfaces it as a visible error state; re-entering the view retries.
func (f *Forum) LoadErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadErr
}
