package realtime

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/metrics"
)

// subscriptionBuffer is the per-subscriber event queue size. A consumer
// that falls this far behind is evicted rather than blocking the channel.
const subscriptionBuffer = 64

// Hub maintains one channel per college. A channel unites the college's
// message stream and presence stream; subscribers receive both through
// a single Subscription.
type Hub struct {
	mu       sync.RWMutex
	channels map[int64]*channel

	lease      time.Duration
	sweepEvery time.Duration
	logger     zerolog.Logger
}

// NewHub creates a hub. lease is how long a presence entry survives
// without a heartbeat; sweepEvery is how often expired entries are
// collected.
func NewHub(lease, sweepEvery time.Duration, logger zerolog.Logger) *Hub {
	return &Hub{
		channels:   make(map[int64]*channel),
		lease:      lease,
		sweepEvery: sweepEvery,
		logger:     logger,
	}
}

// channelFor lazily creates the channel for a college.
func (h *Hub) channelFor(collegeID int64) *channel {
	h.mu.RLock()
	ch := h.channels[collegeID]
	h.mu.RUnlock()
	if ch != nil {
		return ch
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ch = h.channels[collegeID]; ch != nil {
		return ch
	}

	ch = newChannel(collegeID, h.lease, h.sweepEvery, h.logger)
	h.channels[collegeID] = ch
	go ch.run()
	return ch
}

// Subscribe registers a new subscriber on the college's channel and
// announces its presence. The returned Subscription delivers message
// and presence events until closed.
func (h *Hub) Subscribe(collegeID int64, presence PresencePayload) *Subscription {
	ch := h.channelFor(collegeID)
	sub := &Subscription{
		ch:       ch,
		presence: presence,
		events:   make(chan Event, subscriptionBuffer),
	}
	ch.register <- sub
	return sub
}

// Open implements the stream opener consumed by Forum sessions.
func (h *Hub) Open(collegeID int64, presence PresencePayload) (Stream, error) {
	return h.Subscribe(collegeID, presence), nil
}

// Publish broadcasts a committed message to the college's subscribers.
// Publish order follows the caller's commit order; consumers still
// deduplicate by id since delivery is not exactly-once.
func (h *Hub) Publish(collegeID int64, msg models.Message) {
	h.mu.RLock()
	ch := h.channels[collegeID]
	h.mu.RUnlock()
	if ch == nil {
		// Nobody subscribed; the message is already durable.
		return
	}
	ch.publish <- msg
}

// Touch refreshes the presence lease for a user on the college's channel.
func (h *Hub) Touch(collegeID, userID int64) {
	h.mu.RLock()
	ch := h.channels[collegeID]
	h.mu.RUnlock()
	if ch == nil {
		return
	}
	ch.touch <- userID
}

// Online returns the number of distinct present users on the channel.
func (h *Hub) Online(collegeID int64) int {
	h.mu.RLock()
	ch := h.channels[collegeID]
	h.mu.RUnlock()
	if ch == nil {
		return 0
	}
	return int(atomic.LoadInt32(&ch.online))
}

// Subscription is one subscriber's handle on a college channel. Close
// is idempotent and safe to call after the underlying connection is
// gone.
type Subscription struct {
	ch       *channel
	presence PresencePayload
	events   chan Event
	once     sync.Once
}

// Events returns the delivery stream. The channel is closed when the
// subscription is torn down or the subscriber is evicted as too slow.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close withdraws presence and unsubscribes both streams.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.ch.unregister <- s
	})
}

// channel is the per-college fan-out loop. A single goroutine owns the
// subscriber set and the roster, so no locking is needed inside.
type channel struct {
	collegeID int64

	register   chan *Subscription
	unregister chan *Subscription
	publish    chan models.Message
	touch      chan int64

	subscribers map[*Subscription]bool
	roster      *Roster
	online      int32

	lease      time.Duration
	sweepEvery time.Duration
	logger     zerolog.Logger
}

func newChannel(collegeID int64, lease, sweepEvery time.Duration, logger zerolog.Logger) *channel {
	return &channel{
		collegeID:   collegeID,
		register:    make(chan *Subscription),
		unregister:  make(chan *Subscription),
		publish:     make(chan models.Message, subscriptionBuffer),
		touch:       make(chan int64, subscriptionBuffer),
		subscribers: make(map[*Subscription]bool),
		roster:      NewRoster(),
		lease:       lease,
		sweepEvery:  sweepEvery,
		logger:      logger,
	}
}

func (c *channel) run() {
	sweep := time.NewTicker(c.sweepEvery)
	defer sweep.Stop()

	for {
		select {
		case sub := <-c.register:
			c.subscribers[sub] = true
			c.roster.Track(sub.presence, time.Now())
			metrics.WsConnections.Inc()
			c.logger.Info().
				Int64("collegeID", c.collegeID).
				Int64("userID", sub.presence.UserID).
				Msg("Channel subscriber registered")
			// Every membership change triggers a full roster sync,
			// which also hands the new subscriber its initial roster.
			c.broadcastPresence()

		case sub := <-c.unregister:
			if _, ok := c.subscribers[sub]; !ok {
				// Already evicted; untrack is a no-op below too.
				continue
			}
			c.drop(sub)
			c.logger.Info().
				Int64("collegeID", c.collegeID).
				Int64("userID", sub.presence.UserID).
				Msg("Channel subscriber unregistered")
			c.broadcastPresence()

		case msg := <-c.publish:
			c.broadcast(Event{Type: EventMessage, Message: &msg})

		case userID := <-c.touch:
			c.roster.Touch(userID, time.Now())

		case <-sweep.C:
			if c.roster.ExpireBefore(time.Now().Add(-c.lease)) {
				c.logger.Debug().
					Int64("collegeID", c.collegeID).
					Msg("Expired stale presence entries")
				c.broadcastPresence()
			}
		}
	}
}

// drop removes a subscriber and withdraws its presence session.
func (c *channel) drop(sub *Subscription) {
	delete(c.subscribers, sub)
	close(sub.events)
	c.roster.Untrack(sub.presence.UserID, time.Now())
	metrics.WsConnections.Dec()
}

// broadcast delivers an event to every subscriber, evicting consumers
// whose queue is full.
func (c *channel) broadcast(ev Event) {
	var evicted []*Subscription
	for sub := range c.subscribers {
		select {
		case sub.events <- ev:
		default:
			evicted = append(evicted, sub)
		}
	}

	for _, sub := range evicted {
		c.logger.Warn().
			Int64("collegeID", c.collegeID).
			Int64("userID", sub.presence.UserID).
			Msg("Evicting slow channel subscriber")
		c.drop(sub)
	}
	if len(evicted) > 0 {
		c.broadcastPresence()
	}
}

// broadcastPresence rebuilds the roster snapshot and replaces every
// subscriber's view of it.
func (c *channel) broadcastPresence() {
	snapshot := c.roster.Snapshot()
	atomic.StoreInt32(&c.online, int32(len(snapshot)))
	metrics.PresenceUsers.WithLabelValues(strconv.FormatInt(c.collegeID, 10)).Set(float64(len(snapshot)))
	c.broadcast(Event{Type: EventPresence, Roster: snapshot})
}
