package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is the live vote of one user on one post. A missing row means no vote.
type Vote struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"post_id"`
	Value     int16     `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Allowed vote values.
const (
	Upvote   int16 = 1
	Downvote int16 = -1
)

// VoteTransition names the state change a cast vote caused.
type VoteTransition string

const (
	VoteCreated   VoteTransition = "created"
	VoteFlipped   VoteTransition = "flipped"
	VoteRetracted VoteTransition = "retracted"
)

// ValidVoteValue reports whether v is +1 or -1.
func ValidVoteValue(v int) bool {
	return v == int(Upvote) || v == int(Downvote)
}

// NextVoteState applies value to the existing vote (nil when absent) and
// returns the value that should be stored (nil to delete) plus the transition.
func NextVoteState(existing *int16, value int16) (*int16, VoteTransition) {
	switch {
	case existing == nil:
		return &value, VoteCreated
	case *existing == value:
		return nil, VoteRetracted
	default:
		return &value, VoteFlipped
	}
}
