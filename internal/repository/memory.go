package repository

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"lotusnews/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps every entity in process memory. It implements all
// repository interfaces and backs tests and local runs without a database.
// Every vote is applied under the write lock, so votes never interleave.
type MemoryStore struct {
	mu       sync.RWMutex
	posts    map[uuid.UUID]models.Post
	votes    map[uuid.UUID]map[uuid.UUID]int16 // post -> user -> value
	comments map[uuid.UUID]models.Comment
	users    map[uuid.UUID]models.User
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[uuid.UUID]models.Post),
		votes:    make(map[uuid.UUID]map[uuid.UUID]int16),
		comments: make(map[uuid.UUID]models.Comment),
		users:    make(map[uuid.UUID]models.User),
	}
}

// Store exposes m through the repository interfaces.
func (m *MemoryStore) Store() *Store {
	return &Store{
		Posts:    memoryPosts{m},
		Votes:    memoryVotes{m},
		Comments: memoryComments{m},
		Users:    memoryUsers{m},
	}
}

type memoryPosts struct{ m *MemoryStore }

func (p memoryPosts) Create(_ context.Context, post *models.Post) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if _, ok := p.m.posts[post.ID]; ok {
		return ErrDuplicate
	}
	p.m.posts[post.ID] = *post
	return nil
}

func (p memoryPosts) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	p.m.mu.RLock()
	defer p.m.mu.RUnlock()
	post, ok := p.m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

func (p memoryPosts) Update(_ context.Context, post *models.Post) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	stored, ok := p.m.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = post.Title
	stored.ShortDescription = post.ShortDescription
	stored.URL = post.URL
	stored.Body = post.Body
	stored.UpdatedAt = post.UpdatedAt
	p.m.posts[post.ID] = stored
	return nil
}

func (p memoryPosts) ListPage(_ context.Context, order models.SortOrder, after *models.Cursor, limit int) ([]models.Post, error) {
	p.m.mu.RLock()
	all := make([]models.Post, 0, len(p.m.posts))
	for _, post := range p.m.posts {
		all = append(all, post)
	}
	p.m.mu.RUnlock()

	keys := make(map[uuid.UUID]*models.Cursor, len(all))
	for i := range all {
		keys[all[i].ID] = models.CursorFor(order, &all[i])
	}
	sort.Slice(all, func(i, j int) bool {
		return models.SortsBefore(order, keys[all[i].ID], keys[all[j].ID])
	})

	page := make([]models.Post, 0, limit)
	for _, post := range all {
		if len(page) == limit {
			break
		}
		if after != nil && !models.SortsBefore(order, after, keys[post.ID]) {
			continue
		}
		page = append(page, post)
	}
	return page, nil
}

type memoryVotes struct{ m *MemoryStore }

func (v memoryVotes) ApplyVote(_ context.Context, userID, postID uuid.UUID, value int16) (*VoteOutcome, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	post, ok := v.m.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}

	byUser := v.m.votes[postID]
	if byUser == nil {
		byUser = make(map[uuid.UUID]int16)
		v.m.votes[postID] = byUser
	}

	var current *int16
	if existing, ok := byUser[userID]; ok {
		current = &existing
	}
	next, transition := models.NextVoteState(current, value)
	if next == nil {
		delete(byUser, userID)
	} else {
		byUser[userID] = *next
	}

	score := 0
	for _, val := range byUser {
		score += int(val)
	}
	post.Score = score
	v.m.posts[postID] = post

	return &VoteOutcome{Post: post, Transition: transition}, nil
}

type memoryComments struct{ m *MemoryStore }

func (c memoryComments) Create(_ context.Context, comment *models.Comment) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if _, ok := c.m.comments[comment.ID]; ok {
		return ErrDuplicate
	}
	c.m.comments[comment.ID] = *comment
	return nil
}

func (c memoryComments) GetByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()
	comment, ok := c.m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &comment, nil
}

func (c memoryComments) ListByPost(_ context.Context, postID uuid.UUID) ([]models.Comment, error) {
	c.m.mu.RLock()
	out := []models.Comment{}
	for _, comment := range c.m.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	c.m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

type memoryUsers struct{ m *MemoryStore }

func (u memoryUsers) Create(_ context.Context, user *models.User) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, existing := range u.m.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	u.m.users[user.ID] = *user
	return nil
}

func (u memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()
	user, ok := u.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (u memoryUsers) GetByEmailOrUsername(_ context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()
	for _, user := range u.m.users {
		if strings.EqualFold(user.Email, login) || user.Username == login {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
