package service

import (
	"context"
	"time"

	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/repository"
	"lotusnews/internal/validation"

	"github.com/google/uuid"
)

// FeedPublisher receives every newly created post. Implementations must not
// block.
type FeedPublisher interface {
	Publish(post models.Post) int
}

type PostService struct {
	postRepo  repository.PostRepository
	publisher FeedPublisher
	now       func() time.Time
}

type CreatePostInput struct {
	UserID           uuid.UUID
	Title            string
	ShortDescription string
	URL              *string
	Body             *string
}

type UpdatePostInput struct {
	UserID           uuid.UUID
	PostID           uuid.UUID
	Title            string
	ShortDescription string
	URL              *string
	Body             *string
}

// NewPostService wires the post operations. publisher may be nil, in which
// case new posts are not broadcast.
func NewPostService(postRepo repository.PostRepository, publisher FeedPublisher) *PostService {
	return &PostService{postRepo: postRepo, publisher: publisher, now: time.Now}
}

// WithClock replaces the time source used for creation timestamps.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// CreatePost validates and stores a post, then announces it on the live feed.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidateNewPost(in.Title, in.URL, in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	post := &models.Post{
		ID:               uuid.New(),
		UserID:           in.UserID,
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		URL:              in.URL,
		Body:             in.Body,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, storageError(err, "Post", post.ID)
	}

	if s.publisher != nil {
		delivered := s.publisher.Publish(*post)
		middleware.Logger.DebugContext(ctx, "post published to feed",
			"post_id", post.ID.String(), "subscribers", delivered)
	}
	return post, nil
}

// GetPost returns a single post.
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Post", id)
	}
	return post, nil
}

// UpdatePost edits the author's own post. Only the title length and the
// url-or-body rule are checked here; the creation-time profanity and URL
// scheme checks are not repeated.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateLinkOrBody(in.URL, in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, storageError(err, "Post", in.PostID)
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	post.Title = in.Title
	post.ShortDescription = in.ShortDescription
	post.URL = in.URL
	post.Body = in.Body
	post.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, storageError(err, "Post", in.PostID)
	}
	return post, nil
}
