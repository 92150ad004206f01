package service

import (
	"context"
	"time"

	"lotusnews/internal/models"
	"lotusnews/internal/observability"
	"lotusnews/internal/ranking"
	"lotusnews/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// VoteResult is the state of a post right after a vote was applied.
type VoteResult struct {
	PostID     uuid.UUID             `json:"post_id"`
	Score      int                   `json:"score"`
	Hot        float64               `json:"hot"`
	Transition models.VoteTransition `json:"transition"`
}

type VoteService struct {
	voteRepo repository.VoteRepository
	now      func() time.Time
}

func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, now: time.Now}
}

// CastVote records value (+1 or -1) from voterID on postID. Repeating the
// current vote retracts it; the opposite value flips it. The returned score
// is the sum of all live votes on the post.
func (s *VoteService) CastVote(ctx context.Context, voterID, postID uuid.UUID, value int) (*VoteResult, error) {
	if !models.ValidVoteValue(value) {
		return nil, models.NewValidationError("Vote value must be 1 or -1")
	}

	span, ctx := observability.NewSpan(ctx, "vote.cast",
		attribute.String("post.id", postID.String()),
		attribute.Int("vote.value", value),
	)
	defer span.End()

	out, err := s.voteRepo.ApplyVote(ctx, voterID, postID, int16(value))
	if err != nil {
		span.SetError(err)
		return nil, storageError(err, "Post", postID)
	}
	observability.VotesCast.WithLabelValues(string(out.Transition)).Inc()
	span.AddAttributes(
		attribute.String("vote.transition", string(out.Transition)),
		attribute.Int("post.score", out.Post.Score),
	)

	return &VoteResult{
		PostID:     out.Post.ID,
		Score:      out.Post.Score,
		Hot:        ranking.DisplayHot(out.Post.Score, out.Post.CreatedAt, s.now()),
		Transition: out.Transition,
	}, nil
}
