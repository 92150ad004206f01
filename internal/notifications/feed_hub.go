// Package notifications provides real-time delivery of new posts to
// WebSocket subscribers and relays them between server instances.
package notifications

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"lotusnews/internal/models"
	"lotusnews/internal/observability"

	"github.com/google/uuid"
)

const (
	// DefaultFeedBuffer is the per-subscriber queue length.
	DefaultFeedBuffer = 64
	// DefaultMaxFeedSubscribers caps concurrent subscriptions.
	DefaultMaxFeedSubscribers = 10000
)

var (
	ErrHubClosed          = errors.New("feed hub is shut down")
	ErrTooManySubscribers = errors.New("feed subscriber limit reached")
)

// FeedHub fans newly created posts out to every live subscriber. Publishing
// never blocks: a subscriber that falls behind loses its oldest queued posts.
type FeedHub struct {
	id         string
	bufferSize int
	maxSubs    int
	logger     *observability.WSLogger

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewFeedHub creates a hub. Non-positive arguments select the defaults.
func NewFeedHub(bufferSize, maxSubscribers int) *FeedHub {
	if bufferSize <= 0 {
		bufferSize = DefaultFeedBuffer
	}
	if maxSubscribers <= 0 {
		maxSubscribers = DefaultMaxFeedSubscribers
	}
	return &FeedHub{
		id:         uuid.NewString(),
		bufferSize: bufferSize,
		maxSubs:    maxSubscribers,
		logger:     observability.NewWSLogger("feed hub"),
		subs:       make(map[*Subscription]struct{}),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *FeedHub) Name() string { return "feed hub" }

// ID identifies this hub instance in cross-instance relay messages.
func (h *FeedHub) ID() string { return h.id }

// Subscribe registers a new subscriber. Posts published after this call are
// delivered to it in publish order until it is closed.
func (h *FeedHub) Subscribe() (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if len(h.subs) >= h.maxSubs {
		return nil, ErrTooManySubscribers
	}

	sub := &Subscription{hub: h, ch: make(chan models.Post, h.bufferSize)}
	h.subs[sub] = struct{}{}
	observability.FeedSubscribers.Inc()
	return sub, nil
}

// Publish hands post to every current subscriber and returns how many
// received it. With no subscribers the post is discarded.
func (h *FeedHub) Publish(post models.Post) int {
	return h.publish(post, "local")
}

func (h *FeedHub) publish(post models.Post, source string) int {
	observability.FeedPublished.WithLabelValues(source).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.subs) == 0 {
		observability.FeedDrops.WithLabelValues("no_subscribers").Inc()
		return 0
	}
	delivered := 0
	for sub := range h.subs {
		if sub.offer(post) {
			delivered++
		}
	}
	return delivered
}

// SubscriberCount returns the number of open subscriptions.
func (h *FeedHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *FeedHub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		observability.FeedSubscribers.Dec()
	}
}

// StartWiring re-publishes posts created on other instances, as announced
// through n, to the local subscribers. It returns once the Redis
// subscription is established; delivery stops when ctx is cancelled.
func (h *FeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, func(env FeedEnvelope) {
		if env.Origin == h.id {
			return
		}
		h.publish(env.Post, "relay")
	})
}

// Shutdown closes every subscription and rejects new ones.
func (h *FeedHub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	h.logger.LogLifecycle(ctx, "shutdown", map[string]any{"subscribers": len(subs)})
	return nil
}

// Subscription is one subscriber's bounded queue of posts.
type Subscription struct {
	hub     *FeedHub
	dropped atomic.Uint64

	mu     sync.Mutex
	ch     chan models.Post
	closed bool
}

// C returns the delivery channel. It is closed when the subscription closes.
func (s *Subscription) C() <-chan models.Post {
	return s.ch
}

// Dropped returns how many posts were discarded because the queue was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// offer enqueues post, evicting the oldest queued post when full. Only
// offer sends on s.ch and it holds s.mu, so the second send cannot block.
func (s *Subscription) offer(post models.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		observability.FeedDrops.WithLabelValues("closed").Inc()
		return false
	}

	select {
	case s.ch <- post:
		return true
	default:
	}

	select {
	case <-s.ch:
		s.dropped.Add(1)
		observability.FeedDrops.WithLabelValues("overflow").Inc()
	default:
	}
	s.ch <- post
	return true
}

// Close unsubscribes and closes the delivery channel. It is safe to call
// more than once and from several goroutines.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	s.hub.remove(s)
}
