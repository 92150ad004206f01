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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// voteRepoMock is a testify mock for repository.VoteRepository.
type voteRepoMock struct {
	mock.Mock
}

func (m *voteRepoMock) ApplyVote(ctx context.Context, userID, postID uuid.UUID, value int16) (*repository.VoteOutcome, error) {
	args := m.Called(ctx, userID, postID, value)
	out, _ := args.Get(0).(*repository.VoteOutcome)
	return out, args.Error(1)
}

// publisherMock records published posts.
type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(post models.Post) int {
	args := m.Called(post)
	return args.Int(0)
}

// assertAppError asserts that err is an AppError carrying code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func strPtr(s string) *string { return &s }

// seedPost stores a post created at the given offset from fixedNow.
func seedPost(t *testing.T, store *repository.Store, age time.Duration) *models.Post {
	t.Helper()
	created := fixedNow.Add(-age)
	post := &models.Post{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "seeded post",
		Body:      strPtr("body"),
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, store.Posts.Create(context.Background(), post))
	return post
}
