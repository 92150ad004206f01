package repository

import (
	"context"
	"testing"
	"time"

	"lotusnews/internal/cache"
	"lotusnews/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedFeed creates posts with deliberate ties on created_at and on score.
func seedFeed(t *testing.T, store *Store) []*models.Post {
	t.Helper()
	ctx := context.Background()
	var posts []*models.Post
	for i := 0; i < 9; i++ {
		// Three posts share each timestamp.
		p := newPost(baseTime.Add(time.Duration(i/3) * time.Minute))
		require.NoError(t, store.Posts.Create(ctx, p))
		posts = append(posts, p)
	}
	// Scores 2,2,1 on the first three and 1 on the last one; the rest stay 0.
	votes := map[int]int{0: 2, 1: 2, 2: 1, 8: 1}
	for idx, n := range votes {
		for v := 0; v < n; v++ {
			_, err := store.Votes.ApplyVote(ctx, uuid.New(), posts[idx].ID, models.Upvote)
			require.NoError(t, err)
		}
	}
	return posts
}

func walk(t *testing.T, store *Store, order models.SortOrder, limit int) [][]models.Post {
	t.Helper()
	var pages [][]models.Post
	var cursor *models.Cursor
	for i := 0; i < 20; i++ {
		page, err := store.Posts.ListPage(context.Background(), order, cursor, limit)
		require.NoError(t, err)
		pages = append(pages, page)
		if len(page) < limit {
			return pages
		}
		cursor = models.CursorFor(order, &page[len(page)-1])
	}
	t.Fatal("pagination did not terminate")
	return nil
}

func assertOrdered(t *testing.T, order models.SortOrder, posts []models.Post) {
	t.Helper()
	for i := 1; i < len(posts); i++ {
		prev := models.CursorFor(order, &posts[i-1])
		cur := models.CursorFor(order, &posts[i])
		assert.True(t, models.SortsBefore(order, prev, cur), "rows %d and %d out of order", i-1, i)
	}
}

func TestPostRepository_KeysetPagination(t *testing.T) {
	for _, order := range []models.SortOrder{models.SortNew, models.SortTop} {
		t.Run(string(order), func(t *testing.T) {
			storeBackends(t, func(t *testing.T, store *Store) {
				seedFeed(t, store)

				full, err := store.Posts.ListPage(context.Background(), order, nil, 100)
				require.NoError(t, err)
				require.Len(t, full, 9)
				assertOrdered(t, order, full)

				var walked []models.Post
				pages := walk(t, store, order, 2)
				for _, p := range pages {
					walked = append(walked, p...)
				}
				require.Len(t, walked, 9)
				seen := map[uuid.UUID]bool{}
				for i := range walked {
					assert.Equal(t, full[i].ID, walked[i].ID)
					assert.False(t, seen[walked[i].ID], "duplicate post across pages")
					seen[walked[i].ID] = true
				}
				assert.Len(t, pages, 5)
				assert.Len(t, pages[4], 1)
			})
		})
	}
}

func TestPostRepository_TopOrdersByScoreThenRecency(t *testing.T) {
	storeBackends(t, func(t *testing.T, store *Store) {
		posts := seedFeed(t, store)

		page, err := store.Posts.ListPage(context.Background(), models.SortTop, nil, 3)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, 2, page[0].Score)
		assert.Equal(t, 2, page[1].Score)
		// posts[8] is the newest post with score 1, so it beats posts[2].
		assert.Equal(t, posts[8].ID, page[2].ID)
	})
}

func TestPostRepository_StableUnderHeadInserts(t *testing.T) {
	storeBackends(t, func(t *testing.T, store *Store) {
		ctx := context.Background()
		seedFeed(t, store)

		first, err := store.Posts.ListPage(ctx, models.SortNew, nil, 4)
		require.NoError(t, err)
		cursor := models.CursorFor(models.SortNew, &first[3])

		require.NoError(t, store.Posts.Create(ctx, newPost(baseTime.Add(time.Hour))))

		rest, err := store.Posts.ListPage(ctx, models.SortNew, cursor, 100)
		require.NoError(t, err)
		assert.Len(t, rest, 5)
		for _, p := range rest {
			for _, f := range first {
				assert.NotEqual(t, f.ID, p.ID)
			}
		}
	})
}

func TestPostRepository_UpdateAndGet(t *testing.T) {
	storeBackends(t, func(t *testing.T, store *Store) {
		ctx := context.Background()
		post := newPost(baseTime)
		require.NoError(t, store.Posts.Create(ctx, post))

		url := "https://example.com/x"
		post.Title = "edited title"
		post.URL = &url
		post.Body = nil
		post.UpdatedAt = baseTime.Add(time.Minute)
		require.NoError(t, store.Posts.Update(ctx, post))

		got, err := store.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited title", got.Title)
		require.NotNil(t, got.URL)
		assert.Equal(t, url, *got.URL)
		assert.Nil(t, got.Body)
		assert.True(t, got.CreatedAt.Equal(baseTime))

		missing := newPost(baseTime)
		assert.ErrorIs(t, store.Posts.Update(ctx, missing), ErrNotFound)
		_, err = store.Posts.GetByID(ctx, missing.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepository_CacheInvalidatedByVote(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	store := NewStore(setupSQLite(t))
	ctx := context.Background()
	post := newPost(baseTime)
	require.NoError(t, store.Posts.Create(ctx, post))

	_, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	_, err = store.Votes.ApplyVote(ctx, uuid.New(), post.ID, models.Upvote)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
}
