package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
)

type fakeGate struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (g *fakeGate) Authorize(ctx context.Context, userID, collegeID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.err
}

type fakeHistory struct {
	mu       sync.Mutex
	messages []models.Message
	err      error
	calls    int
	unblock  chan struct{}
}

func (h *fakeHistory) History(ctx context.Context, collegeID int64) ([]models.Message, error) {
	h.mu.Lock()
	h.calls++
	messages, err, unblock := h.messages, h.err, h.unblock
	h.mu.Unlock()
	if unblock != nil {
		<-unblock
	}
	return messages, err
}

func (h *fakeHistory) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type fakeStream struct {
	events chan Event
	once   sync.Once
}

func newFakeStream() *fakeStream {
	return &fakeStream{events: make(chan Event, 16)}
}

func (s *fakeStream) Events() <-chan Event { return s.events }

func (s *fakeStream) Close() {
	s.once.Do(func() { close(s.events) })
}

type fakeOpener struct {
	mu      sync.Mutex
	streams []*fakeStream
	err     error
}

func (o *fakeOpener) Open(collegeID int64, presence PresencePayload) (Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	stream := newFakeStream()
	o.streams = append(o.streams, stream)
	return stream, nil
}

func (o *fakeOpener) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streams)
}

func (o *fakeOpener) stream(i int) *fakeStream {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.streams[i]
}

type sentMessage struct {
	userID    int64
	collegeID int64
	body      string
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (s *fakeSender) Send(ctx context.Context, userID, collegeID int64, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{userID: userID, collegeID: collegeID, body: body})
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func newTestForum(gate *fakeGate, history *fakeHistory, opener *fakeOpener, sender *fakeSender) *Forum {
	return NewForum(gate, history, opener, sender, zerolog.Nop())
}

// waitFor polls cond until it holds or the deadline lapses.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestForum_MountDeniedBeforeAnyFetch(t *testing.T) {
	gate := &fakeGate{err: apperrors.ErrNoCollegeMembership}
	history := &fakeHistory{}
	opener := &fakeOpener{}
	forum := newTestForum(gate, history, opener, &fakeSender{})

	err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada"))
	if !errors.Is(err, apperrors.ErrNoCollegeMembership) {
		t.Fatalf("Mount() error = %v, want ErrNoCollegeMembership", err)
	}
	if opener.callCount() != 0 {
		t.Error("Mount() opened a stream despite denial")
	}
	if history.callCount() != 0 {
		t.Error("Mount() fetched history despite denial")
	}
}

func TestForum_MountMergesHistoryAndLiveEvents(t *testing.T) {
	history := &fakeHistory{messages: []models.Message{msg(1, "old"), msg(2, "old")}}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, history, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()

	waitFor(t, forum.Loaded, "historical load")

	live := msg(3, "live")
	opener.stream(0).events <- Event{Type: EventMessage, Message: &live}
	waitFor(t, func() bool { return len(forum.Messages()) == 3 }, "live message")

	if got := ids(forum.Messages()); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("Messages() ids = %v, want [1 2 3]", got)
	}
}

func TestForum_OwnEchoAppearsOnce(t *testing.T) {
	history := &fakeHistory{messages: []models.Message{msg(1, "old")}}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, history, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()
	waitFor(t, forum.Loaded, "historical load")

	// The author's own message comes back on the stream and, under
	// duplicated delivery, may come back twice.
	echo := msg(2, "mine")
	opener.stream(0).events <- Event{Type: EventMessage, Message: &echo}
	opener.stream(0).events <- Event{Type: EventMessage, Message: &echo}
	waitFor(t, func() bool { return len(forum.Messages()) >= 2 }, "echo")

	time.Sleep(20 * time.Millisecond)
	if got := len(forum.Messages()); got != 2 {
		t.Errorf("Messages() len = %d, want 2", got)
	}
}

func TestForum_PresenceReplacedWholesale(t *testing.T) {
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, &fakeHistory{}, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()

	opener.stream(0).events <- Event{Type: EventPresence, Roster: []PresenceEntry{
		{UserID: 1, FirstName: "Ada"},
		{UserID: 2, FirstName: "Grace"},
	}}
	waitFor(t, func() bool { return len(forum.ActiveUsers()) == 2 }, "first roster")

	opener.stream(0).events <- Event{Type: EventPresence, Roster: []PresenceEntry{
		{UserID: 2, FirstName: "Grace"},
	}}
	waitFor(t, func() bool { return len(forum.ActiveUsers()) == 1 }, "replaced roster")

	if roster := forum.ActiveUsers(); roster[0].UserID != 2 {
		t.Errorf("ActiveUsers()[0].UserID = %d, want 2", roster[0].UserID)
	}
}

func TestForum_SendEmptyBodyRejectedLocally(t *testing.T) {
	sender := &fakeSender{}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, &fakeHistory{}, opener, sender)

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()

	for _, body := range []string{"", "   ", "\n\t "} {
		if err := forum.Send(context.Background(), body); !errors.Is(err, apperrors.ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", body, err)
		}
	}
	if sender.sentCount() != 0 {
		t.Errorf("sender called %d times for empty bodies, want 0", sender.sentCount())
	}
}

func TestForum_SendTrimsBody(t *testing.T) {
	sender := &fakeSender{}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, &fakeHistory{}, opener, sender)

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()

	if err := forum.Send(context.Background(), "  hello  "); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sender.sentCount() != 1 {
		t.Fatalf("sender called %d times, want 1", sender.sentCount())
	}
	if got := sender.sent[0]; got.body != "hello" || got.userID != 1 || got.collegeID != 7 {
		t.Errorf("sender got %+v, want {1 7 hello}", got)
	}
	if len(forum.Messages()) != 0 {
		t.Error("Send() inserted the message locally; it must arrive via the stream")
	}
}

func TestForum_SendUnmounted(t *testing.T) {
	sender := &fakeSender{}
	forum := newTestForum(&fakeGate{}, &fakeHistory{}, &fakeOpener{}, sender)

	err := forum.Send(context.Background(), "hello")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Send() on unmounted session error = %v, want ErrPermissionDenied", err)
	}
	if sender.sentCount() != 0 {
		t.Error("sender called for unmounted session")
	}
}

func TestForum_RemountDiscardsStaleHistory(t *testing.T) {
	unblock := make(chan struct{})
	history := &fakeHistory{messages: []models.Message{msg(1, "stale")}, unblock: unblock}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, history, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	waitFor(t, func() bool { return history.callCount() == 1 }, "first fetch to start")

	// Switch colleges while the first fetch is still in flight.
	history.mu.Lock()
	history.messages = []models.Message{msg(9, "fresh")}
	history.unblock = nil
	history.mu.Unlock()

	if err := forum.Mount(context.Background(), 1, 8, payload(1, "Ada")); err != nil {
		t.Fatalf("second Mount() error = %v", err)
	}
	defer forum.Unmount()
	waitFor(t, forum.Loaded, "fresh load")

	// Now let the stale response land.
	close(unblock)
	time.Sleep(20 * time.Millisecond)

	if got := ids(forum.Messages()); !equalIDs(got, []int64{9}) {
		t.Errorf("Messages() after stale fetch landed = %v, want [9]", got)
	}
}

func TestForum_LoadErrSurfaced(t *testing.T) {
	loadFailure := errors.New("history unavailable")
	history := &fakeHistory{err: loadFailure}
	forum := newTestForum(&fakeGate{}, history, &fakeOpener{}, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()

	waitFor(t, func() bool { return forum.LoadErr() != nil }, "load error")
	if !errors.Is(forum.LoadErr(), loadFailure) {
		t.Errorf("LoadErr() = %v, want %v", forum.LoadErr(), loadFailure)
	}
	if forum.Loaded() {
		t.Error("Loaded() = true despite failed fetch")
	}
}

func TestForum_UnmountIdempotentAndFinal(t *testing.T) {
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, &fakeHistory{}, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	waitFor(t, forum.Loaded, "historical load")

	stream := opener.stream(0)
	forum.Unmount()
	forum.Unmount()

	if _, open := <-stream.events; open {
		t.Error("stream still open after Unmount()")
	}
	if forum.Messages() != nil {
		t.Error("Messages() non-nil after Unmount()")
	}
}

func TestForum_StreamDropLeavesStateIntact(t *testing.T) {
	history := &fakeHistory{messages: []models.Message{msg(1, "old")}}
	opener := &fakeOpener{}
	forum := newTestForum(&fakeGate{}, history, opener, &fakeSender{})

	if err := forum.Mount(context.Background(), 1, 7, payload(1, "Ada")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer forum.Unmount()
	waitFor(t, forum.Loaded, "historical load")

	// A dropped connection keeps the rendered sequence; presence expiry
	// is the server's job, not the session's.
	opener.stream(0).Close()
	time.Sleep(20 * time.Millisecond)

	if got := ids(forum.Messages()); !equalIDs(got, []int64{1}) {
		t.Errorf("Messages() after stream drop = %v, want [1]", got)
	}
}
