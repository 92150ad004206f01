package service

import (
	"context"
	"time"

	"lotusnews/internal/comments"
	"lotusnews/internal/models"
	"lotusnews/internal/repository"
	"lotusnews/internal/validation"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	now         func() time.Time
}

type CreateCommentInput struct {
	UserID   uuid.UUID
	PostID   uuid.UUID
	ParentID *uuid.UUID
	Body     string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, now: time.Now}
}

// WithClock replaces the time source used for creation timestamps.
func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

// CreateComment adds a reply to a post, or to a comment of the same post
// when ParentID is set. Listed bad words in the body are masked.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentBody(in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, storageError(err, "Post", in.PostID)
	}
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, models.NewValidationError("Parent comment does not exist")
			}
			return nil, storageError(err, "Comment", *in.ParentID)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		PostID:    in.PostID,
		UserID:    in.UserID,
		ParentID:  in.ParentID,
		Body:      validation.Censor(in.Body),
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storageError(err, "Comment", comment.ID)
	}
	return comment, nil
}

// GetForest returns the comments of a post as reply trees. A post without
// comments yields an empty forest.
func (s *CommentService) GetForest(ctx context.Context, postID uuid.UUID) ([]*models.CommentNode, error) {
	list, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, storageError(err, "Post", postID)
	}
	return comments.BuildForest(list), nil
}
