package service

import (
	"context"
	"testing"

	"lotusnews/internal/models"
	"lotusnews/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_PublishesToFeed(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	pub := new(publisherMock)
	pub.On("Publish", mock.AnythingOfType("models.Post")).Return(1)
	svc := NewPostService(store.Posts, pub)
	svc.now = clock

	author := uuid.New()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: author,
		Title:  "A perfectly fine title",
		URL:    strPtr("https://example.com/article"),
	})
	require.NoError(t, err)
	assert.Equal(t, author, post.UserID)
	assert.Equal(t, fixedNow, post.CreatedAt)
	assert.Zero(t, post.Score)

	pub.AssertCalled(t, "Publish", *post)

	stored, err := svc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, stored.Title)
}

func TestCreatePost_ValidationFailuresAreNotPublished(t *testing.T) {
	pub := new(publisherMock)
	svc := NewPostService(repository.NewMemoryStore().Store().Posts, pub)

	inputs := []CreatePostInput{
		{Title: "no", Body: strPtr("short title")},
		{Title: "no content at all"},
		{Title: "blank body", Body: strPtr("  ")},
		{Title: "bad scheme", URL: strPtr("javascript:alert(1)")},
		{Title: "damn good title", Body: strPtr("text")},
	}
	for _, in := range inputs {
		_, err := svc.CreatePost(context.Background(), in)
		assertAppError(t, err, models.CodeInvalidArgument)
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestCreatePost_NilPublisher(t *testing.T) {
	svc := NewPostService(repository.NewMemoryStore().Store().Posts, nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "quiet post", Body: strPtr("hi")})
	assert.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	svc := NewPostService(store.Posts, nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{UserID: uuid.New(), Title: "original", Body: strPtr("text")})
	require.NoError(t, err)

	t.Run("other user", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: uuid.New(), PostID: post.ID, Title: "hijacked", Body: strPtr("x")})
		assertAppError(t, err, models.CodeForbidden)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: post.UserID, PostID: uuid.New(), Title: "whatever", Body: strPtr("x")})
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("needs url or body", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: post.UserID, PostID: post.ID, Title: "still valid"})
		assertAppError(t, err, models.CodeInvalidArgument)
	})

	t.Run("creation-only checks are skipped", func(t *testing.T) {
		updated, err := svc.UpdatePost(ctx, UpdatePostInput{
			UserID: post.UserID,
			PostID: post.ID,
			Title:  "what the hell",
			URL:    strPtr("ftp://example.com/file"),
		})
		require.NoError(t, err)
		assert.Equal(t, "what the hell", updated.Title)

		stored, err := svc.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "ftp://example.com/file", *stored.URL)
		assert.Equal(t, post.CreatedAt, stored.CreatedAt)
	})
}
