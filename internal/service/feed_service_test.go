package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lotusnews/internal/models"
	"lotusnews/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	repository.PostRepository
	listPageFn func(context.Context, models.SortOrder, *models.Cursor, int) ([]models.Post, error)
}

func (s *postRepoStub) ListPage(ctx context.Context, order models.SortOrder, after *models.Cursor, limit int) ([]models.Post, error) {
	return s.listPageFn(ctx, order, after, limit)
}

func TestListPosts_Validation(t *testing.T) {
	svc := NewFeedService(repository.NewMemoryStore().Store().Posts)
	ctx := context.Background()
	score := 3

	tests := []struct {
		name string
		in   ListPostsInput
	}{
		{"zero limit", ListPostsInput{Order: models.SortNew, Limit: 0}},
		{"negative limit", ListPostsInput{Order: models.SortNew, Limit: -5}},
		{"unknown order", ListPostsInput{Order: "best", Limit: 10}},
		{"top cursor on new", ListPostsInput{Order: models.SortNew, Limit: 10,
			Cursor: &models.Cursor{Score: &score, CreatedAt: fixedNow, ID: uuid.New()}}},
		{"new cursor on top", ListPostsInput{Order: models.SortTop, Limit: 10,
			Cursor: &models.Cursor{CreatedAt: fixedNow, ID: uuid.New()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListPosts(ctx, tt.in)
			assertAppError(t, err, models.CodeInvalidArgument)
		})
	}
}

func TestListPosts_NewPagination(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	svc := NewFeedService(store.Posts)
	ctx := context.Background()

	t1 := seedPost(t, store, 3*time.Hour)
	t2 := seedPost(t, store, 2*time.Hour)
	t3 := seedPost(t, store, time.Hour)

	page, err := svc.ListPosts(ctx, ListPostsInput{Order: models.SortNew, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, t3.ID, page.Posts[0].ID)
	assert.Equal(t, t2.ID, page.Posts[1].ID)
	require.NotNil(t, page.NextCursor)

	page, err = svc.ListPosts(ctx, ListPostsInput{Order: models.SortNew, Cursor: page.NextCursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, t1.ID, page.Posts[0].ID)
	assert.Nil(t, page.NextCursor)
}

func TestListPosts_CapsLimitAndNeverReturnsNil(t *testing.T) {
	var gotLimit int
	stub := &postRepoStub{listPageFn: func(_ context.Context, _ models.SortOrder, _ *models.Cursor, limit int) ([]models.Post, error) {
		gotLimit = limit
		return nil, nil
	}}

	page, err := NewFeedService(stub).ListPosts(context.Background(), ListPostsInput{Order: models.SortTop, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, gotLimit)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextCursor)
}

func TestListPosts_StorageFailure(t *testing.T) {
	stub := &postRepoStub{listPageFn: func(context.Context, models.SortOrder, *models.Cursor, int) ([]models.Post, error) {
		return nil, errors.New("timeout")
	}}
	_, err := NewFeedService(stub).ListPosts(context.Background(), ListPostsInput{Order: models.SortNew, Limit: 10})
	assertAppError(t, err, models.CodeUnavailable)
}

func TestListPosts_TopCursorCarriesScore(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	svc := NewFeedService(store.Posts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedPost(t, store, time.Duration(i)*time.Minute)
	}
	page, err := svc.ListPosts(ctx, ListPostsInput{Order: models.SortTop, Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)
	require.NotNil(t, page.NextCursor.Score)
	assert.NoError(t, page.NextCursor.Validate(models.SortTop))
}

func TestListPosts_RanksDecayWithAge(t *testing.T) {
	fresh := models.Post{ID: uuid.New(), Score: 10, CreatedAt: fixedNow.Add(-30 * time.Minute)}
	older := models.Post{ID: uuid.New(), Score: 10, CreatedAt: fixedNow.Add(-4 * time.Hour)}
	stub := &postRepoStub{listPageFn: func(context.Context, models.SortOrder, *models.Cursor, int) ([]models.Post, error) {
		return []models.Post{fresh, older}, nil
	}}
	svc := NewFeedService(stub)
	svc.now = func() time.Time { return fixedNow }

	page, err := svc.ListPosts(context.Background(), ListPostsInput{Order: models.SortTop, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Ranks, 2)
	// Posts younger than an hour are ranked as if an hour old.
	assert.InDelta(t, 10.0, page.Ranks[0], 1e-9)
	assert.InDelta(t, 1.25, page.Ranks[1], 1e-9)
}
