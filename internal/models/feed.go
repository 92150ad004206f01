package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SortOrder selects the ordering of a post listing.
type SortOrder string

const (
	// SortNew orders by (created_at DESC, id DESC).
	SortNew SortOrder = "new"
	// SortTop orders by (score DESC, created_at DESC, id DESC).
	SortTop SortOrder = "top"
)

// ErrInvalidCursor is returned when a cursor cannot be decoded or does not
// match the requested ordering.
var ErrInvalidCursor = errors.New("invalid cursor")

// ParseSortOrder parses a sort query value. Empty means SortNew.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortNew:
		return SortNew, nil
	case SortTop:
		return SortTop, nil
	default:
		return "", errors.New("sort must be one of: new, top")
	}
}

// Cursor identifies the last row handed out on a page. It is only ever used
// as an exclusive bound. Score is set for SortTop cursors only.
type Cursor struct {
	Score     *int      `json:"s,omitempty"`
	CreatedAt time.Time `json:"t"`
	ID        uuid.UUID `json:"i"`
}

// CursorFor returns the key tuple of post under order.
func CursorFor(order SortOrder, post *Post) *Cursor {
	c := &Cursor{CreatedAt: post.CreatedAt.UTC(), ID: post.ID}
	if order == SortTop {
		score := post.Score
		c.Score = &score
	}
	return c
}

// Validate checks that the cursor carries exactly the keys of order.
func (c *Cursor) Validate(order SortOrder) error {
	if c.ID == uuid.Nil || c.CreatedAt.IsZero() {
		return ErrInvalidCursor
	}
	if (order == SortTop) != (c.Score != nil) {
		return ErrInvalidCursor
	}
	return nil
}

// Encode renders the cursor as an opaque URL-safe token.
func (c *Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Encode.
func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}

// SortsBefore reports whether a comes strictly before b in order. Ties on
// every earlier key are broken by id, so distinct posts never compare equal.
func SortsBefore(order SortOrder, a, b *Cursor) bool {
	if order == SortTop && *a.Score != *b.Score {
		return *a.Score > *b.Score
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// Page is one slice of a listing. Ranks[i] is the time-decayed list rank of
// Posts[i] at the moment the page was read.
type Page struct {
	Posts      []Post    `json:"posts"`
	Ranks      []float64 `json:"-"`
	NextCursor *Cursor   `json:"-"`
}
