package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an immutable reply on a post. ParentID is nil for top-level
// comments and otherwise references a comment of the same post.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time  `gorm:"not null;index:idx_comments_post_created,priority:2" json:"created_at"`
}

// CommentNode is a comment with its replies in creation order.
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
}
