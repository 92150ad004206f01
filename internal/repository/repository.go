// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"lotusnews/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = gorm.ErrDuplicatedKey
)

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// Update writes the editable fields (title, short description, url, body).
	Update(ctx context.Context, post *models.Post) error
	// ListPage returns up to limit posts in order, strictly after the cursor
	// when one is given.
	ListPage(ctx context.Context, order models.SortOrder, after *models.Cursor, limit int) ([]models.Post, error)
}

// VoteOutcome is the post as it stands after a vote, plus what the vote did.
type VoteOutcome struct {
	Post       models.Post
	Transition models.VoteTransition
}

// VoteRepository applies votes. The vote row write and the score recompute
// happen atomically, and concurrent votes on one post are serialized.
type VoteRepository interface {
	ApplyVote(ctx context.Context, userID, postID uuid.UUID, value int16) (*VoteOutcome, error)
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// ListByPost returns every comment of a post ordered by (created_at, id).
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error)
}

// Store bundles one implementation of every repository.
type Store struct {
	Posts    PostRepository
	Votes    VoteRepository
	Comments CommentRepository
	Users    UserRepository
}

// NewStore returns the GORM-backed repositories for db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Posts:    NewPostRepository(db),
		Votes:    NewVoteRepository(db),
		Comments: NewCommentRepository(db),
		Users:    NewUserRepository(db),
	}
}

const (
	maxTxAttempts = 3
	txRetryDelay  = 10 * time.Millisecond
)

// isRetryable reports whether err is a PostgreSQL serialization failure or
// deadlock, after which the whole transaction may be run again.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// withRetry runs fn until it succeeds, fails with a non-retryable error, or
// runs out of attempts.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryDelay):
		}
	}
	return err
}
