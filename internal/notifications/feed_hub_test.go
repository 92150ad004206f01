package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"lotusnews/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost(title string) models.Post {
	return models.Post{ID: uuid.New(), UserID: uuid.New(), Title: title, CreatedAt: time.Now().UTC()}
}

func drain(sub *Subscription) []string {
	var titles []string
	for {
		select {
		case p, ok := <-sub.C():
			if !ok {
				return titles
			}
			titles = append(titles, p.Title)
		default:
			return titles
		}
	}
}

func TestFeedHub_FanOutInOrder(t *testing.T) {
	hub := NewFeedHub(8, 10)
	a, err := hub.Subscribe()
	require.NoError(t, err)
	b, err := hub.Subscribe()
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		assert.Equal(t, 2, hub.Publish(testPost(title)))
	}

	assert.Equal(t, []string{"one", "two", "three"}, drain(a))
	assert.Equal(t, []string{"one", "two", "three"}, drain(b))
}

func TestFeedHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewFeedHub(0, 0)
	assert.Equal(t, 0, hub.Publish(testPost("nobody listening")))

	sub, err := hub.Subscribe()
	require.NoError(t, err)
	assert.Empty(t, drain(sub), "posts published before subscribing are not replayed")
}

func TestFeedHub_SlowSubscriberDropsOldest(t *testing.T) {
	hub := NewFeedHub(2, 10)
	slow, err := hub.Subscribe()
	require.NoError(t, err)
	fast, err := hub.Subscribe()
	require.NoError(t, err)

	got := make([]string, 0, 5)
	for _, title := range []string{"p1", "p2", "p3", "p4", "p5"} {
		hub.Publish(testPost(title))
		got = append(got, drain(fast)...)
	}

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, got)
	assert.Equal(t, []string{"p4", "p5"}, drain(slow))
	assert.Equal(t, uint64(3), slow.Dropped())
	assert.Zero(t, fast.Dropped())
}

func TestFeedHub_SubscriberLimit(t *testing.T) {
	hub := NewFeedHub(1, 2)
	first, err := hub.Subscribe()
	require.NoError(t, err)
	_, err = hub.Subscribe()
	require.NoError(t, err)

	_, err = hub.Subscribe()
	assert.ErrorIs(t, err, ErrTooManySubscribers)

	first.Close()
	_, err = hub.Subscribe()
	assert.NoError(t, err)
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewFeedHub(4, 10)
	sub, err := hub.Subscribe()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Close()
		}()
	}
	wg.Wait()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount())
	assert.Equal(t, 0, hub.Publish(testPost("after close")))
}

func TestFeedHub_Shutdown(t *testing.T) {
	hub := NewFeedHub(4, 10)
	sub, err := hub.Subscribe()
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	require.NoError(t, hub.Shutdown(context.Background()))

	_, ok := <-sub.C()
	assert.False(t, ok)
	_, err = hub.Subscribe()
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestFeedHub_ConcurrentPublishAndChurn(t *testing.T) {
	hub := NewFeedHub(4, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				hub.Publish(testPost("x"))
			}
		}()
	}
	for i := 0; i < 50; i++ {
		sub, err := hub.Subscribe()
		require.NoError(t, err)
		drain(sub)
		sub.Close()
	}
	cancel()
	wg.Wait()
	assert.Equal(t, 0, hub.SubscriberCount())
}
