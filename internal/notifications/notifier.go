package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel new posts are relayed on.
const FeedChannel = "feed:posts"

const relayPublishTimeout = 2 * time.Second

// FeedEnvelope is the relay message: the post and the hub that created it.
type FeedEnvelope struct {
	Origin string      `json:"origin"`
	Post   models.Post `json:"post"`
}

// Notifier provides helpers to publish feed events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishPost announces post to every instance subscribed to FeedChannel.
func (n *Notifier) PublishPost(ctx context.Context, origin string, post models.Post) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(FeedEnvelope{Origin: origin, Post: post})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to FeedChannel and calls onMessage for each
// well-formed envelope. It returns after Redis confirms the subscription.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(FeedEnvelope)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env FeedEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					middleware.Logger.Warn("invalid feed relay payload", "channel", msg.Channel, "error", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in feed subscriber",
								"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
						}
					}()
					onMessage(env)
				}()
			}
		}
	}()

	return nil
}

// DefaultRelayQueueSize bounds the posts waiting to be announced to Redis.
const DefaultRelayQueueSize = 256

// Relay publishes posts to the local hub and announces them to the other
// instances. It satisfies the same Publish contract as FeedHub.
//
// Announcements go through one sender goroutine draining a FIFO queue, so
// remote instances see posts in the order they were published here.
type Relay struct {
	hub      *FeedHub
	notifier *Notifier
	queue    chan models.Post
	done     chan struct{}
	started  atomic.Bool
	dropped  atomic.Uint64
}

// NewRelay returns a publisher fanning out locally through hub and remotely
// through notifier. Announcements are only sent once Start is called.
func NewRelay(hub *FeedHub, notifier *Notifier, queueSize int) *Relay {
	if queueSize <= 0 {
		queueSize = DefaultRelayQueueSize
	}
	return &Relay{
		hub:      hub,
		notifier: notifier,
		queue:    make(chan models.Post, queueSize),
		done:     make(chan struct{}),
	}
}

// Start launches the sender. It stops when ctx is cancelled; posts still
// queued at that point are not announced. Calling Start again is a no-op.
func (r *Relay) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.run(ctx)
}

// Wait blocks until the sender started by Start has returned.
func (r *Relay) Wait() {
	if r.started.Load() {
		<-r.done
	}
}

// Dropped reports how many announcements were discarded because the queue
// was full.
func (r *Relay) Dropped() uint64 {
	return r.dropped.Load()
}

// Publish delivers post locally and queues the Redis announcement. A full
// queue drops the announcement; the caller never waits on the network.
func (r *Relay) Publish(post models.Post) int {
	delivered := r.hub.Publish(post)
	select {
	case r.queue <- post:
	default:
		r.dropped.Add(1)
		observability.FeedDrops.WithLabelValues("relay_overflow").Inc()
		middleware.Logger.Warn("feed relay queue full, announcement dropped", "post_id", post.ID.String())
	}
	return delivered
}

func (r *Relay) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case post := <-r.queue:
			pubCtx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
			err := r.notifier.PublishPost(pubCtx, r.hub.ID(), post)
			cancel()
			if err != nil && ctx.Err() == nil {
				middleware.Logger.Warn("feed relay publish failed", "post_id", post.ID.String(), "error", err)
			}
		}
	}
}
