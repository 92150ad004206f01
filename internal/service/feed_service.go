package service

import (
	"context"
	"time"

	"lotusnews/internal/models"
	"lotusnews/internal/observability"
	"lotusnews/internal/ranking"
	"lotusnews/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// MaxPageSize bounds the limit accepted by ListPosts.
const MaxPageSize = 100

type ListPostsInput struct {
	Order  models.SortOrder
	Cursor *models.Cursor
	Limit  int
}

type FeedService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo, now: time.Now}
}

// ListPosts returns one page of the listing. NextCursor is set only when the
// page is full; a full last page is followed by one empty page. Each post
// comes with its ranking.ListRank value.
//
// Pages of the new ordering are stable under concurrent inserts. Pages of the
// top ordering are not stable when scores change between requests.
func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) (*models.Page, error) {
	if in.Limit <= 0 {
		return nil, models.NewValidationError("limit must be a positive integer")
	}
	if in.Limit > MaxPageSize {
		in.Limit = MaxPageSize
	}
	if in.Order != models.SortNew && in.Order != models.SortTop {
		return nil, models.NewValidationError("sort must be one of: new, top")
	}
	if in.Cursor != nil {
		if err := in.Cursor.Validate(in.Order); err != nil {
			return nil, models.NewValidationError("cursor does not match the requested sort")
		}
	}

	span, ctx := observability.NewSpan(ctx, "feed.list",
		attribute.String("feed.order", string(in.Order)),
		attribute.Int("feed.limit", in.Limit),
		attribute.Bool("feed.has_cursor", in.Cursor != nil),
	)
	defer span.End()

	posts, err := s.postRepo.ListPage(ctx, in.Order, in.Cursor, in.Limit)
	if err != nil {
		span.SetError(err)
		return nil, storageError(err, "Post", nil)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	now := s.now()
	ranks := make([]float64, len(posts))
	for i := range posts {
		ranks[i] = ranking.ListRank(posts[i].Score, posts[i].CreatedAt, now)
	}

	page := &models.Page{Posts: posts, Ranks: ranks}
	if len(posts) == in.Limit {
		page.NextCursor = models.CursorFor(in.Order, &posts[len(posts)-1])
	}
	span.AddAttributes(attribute.Int("feed.returned", len(posts)))
	return page, nil
}
