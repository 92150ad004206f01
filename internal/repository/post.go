package repository

import (
	"context"

	"lotusnews/internal/cache"
	"lotusnews/internal/models"
	"lotusnews/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, logger: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"post_id": post.ID.String()})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		defer observability.TrackQuery("get", "posts")()
		return r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":             post.Title,
			"short_description": post.ShortDescription,
			"url":               post.URL,
			"body":              post.Body,
			"updated_at":        post.UpdatedAt,
		})
	if res.Error != nil {
		r.logger.LogError(ctx, res.Error, "update")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	cache.InvalidatePost(ctx, post.ID)
	r.logger.LogUpdate(ctx, map[string]any{"post_id": post.ID.String()})
	return nil
}

func (r *postRepository) ListPage(ctx context.Context, order models.SortOrder, after *models.Cursor, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("list_"+string(order), "posts")()

	q := r.db.WithContext(ctx).Model(&models.Post{})
	switch order {
	case models.SortTop:
		if after != nil {
			// Expanded form of (score, created_at, id) < (?, ?, ?) so the
			// descending composite index can serve it on every dialect.
			q = q.Where(
				"score < ? OR (score = ? AND (created_at < ? OR (created_at = ? AND id < ?)))",
				*after.Score, *after.Score, after.CreatedAt, after.CreatedAt, after.ID,
			)
		}
		q = q.Order("score DESC, created_at DESC, id DESC")
	default:
		if after != nil {
			q = q.Where(
				"created_at < ? OR (created_at = ? AND id < ?)",
				after.CreatedAt, after.CreatedAt, after.ID,
			)
		}
		q = q.Order("created_at DESC, id DESC")
	}

	posts := make([]models.Post, 0, limit)
	if err := q.Limit(limit).Find(&posts).Error; err != nil {
		r.logger.LogError(ctx, err, "list")
		return nil, err
	}
	return posts, nil
}
