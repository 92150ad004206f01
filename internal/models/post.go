// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a link or text submission. Score is derived from votes and is only
// written by the vote aggregation path.
type Post struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_posts_new,priority:2,sort:desc;index:idx_posts_top,priority:3,sort:desc" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string    `gorm:"size:300;not null" json:"title"`
	ShortDescription string    `gorm:"type:text" json:"short_description"`
	URL              *string   `gorm:"type:text" json:"url,omitempty"`
	Body             *string   `gorm:"type:text" json:"body,omitempty"`
	Score            int       `gorm:"not null;default:0;index:idx_posts_top,priority:1,sort:desc" json:"score"`
	CreatedAt        time.Time `gorm:"not null;index:idx_posts_new,priority:1,sort:desc;index:idx_posts_top,priority:2,sort:desc" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasURL reports whether the post links somewhere.
func (p *Post) HasURL() bool {
	return p.URL != nil && *p.URL != ""
}
