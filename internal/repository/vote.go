package repository

import (
	"context"
	"errors"

	"lotusnews/internal/cache"
	"lotusnews/internal/models"
	"lotusnews/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type voteRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db, logger: observability.NewRepoLogger("votes")}
}

// ApplyVote locks the post row, moves the (user, post) vote to its next state
// and rewrites posts.score as the sum of the live votes, all in one
// transaction. Serialization failures are retried.
func (r *voteRepository) ApplyVote(ctx context.Context, userID, postID uuid.UUID, value int16) (*VoteOutcome, error) {
	defer observability.TrackQuery("apply_vote", "votes")()

	var outcome *VoteOutcome
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			outcome, err = applyVote(tx, userID, postID, value)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.LogError(ctx, err, "apply_vote")
		}
		return nil, err
	}

	cache.InvalidatePost(ctx, postID)
	r.logger.LogUpdate(ctx, map[string]any{
		"post_id":    postID.String(),
		"transition": string(outcome.Transition),
		"score":      outcome.Post.Score,
	})
	return outcome, nil
}

func applyVote(tx *gorm.DB, userID, postID uuid.UUID, value int16) (*VoteOutcome, error) {
	var post models.Post
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).
		Take(&post).Error; err != nil {
		return nil, err
	}

	var current *int16
	var existing models.Vote
	err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&existing).Error
	switch {
	case err == nil:
		current = &existing.Value
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	next, transition := models.NextVoteState(current, value)
	switch transition {
	case models.VoteCreated:
		err = tx.Create(&models.Vote{UserID: userID, PostID: postID, Value: *next}).Error
	case models.VoteRetracted:
		err = tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Vote{}).Error
	case models.VoteFlipped:
		err = tx.Model(&models.Vote{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			UpdateColumn("value", *next).Error
	}
	if err != nil {
		return nil, err
	}

	var score int64
	if err := tx.Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("post_id = ?", postID).
		Scan(&score).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("score", score).Error; err != nil {
		return nil, err
	}

	post.Score = int(score)
	return &VoteOutcome{Post: post, Transition: transition}, nil
}
