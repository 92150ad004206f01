package server

import (
	"strconv"

	"lotusnews/internal/models"
	"lotusnews/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	URL              *string `json:"url"`
	Body             *string `json:"body"`
}

// rankedPost is a listed post with its time-decayed rank.
type rankedPost struct {
	models.Post
	Rank float64 `json:"rank"`
}

// feedResponse is one page of a listing. NextCursor is null on the last page.
type feedResponse struct {
	Posts      []rankedPost `json:"posts"`
	NextCursor *string      `json:"next_cursor"`
}

// GetPosts handles GET /api/posts?sort=new|top&cursor=...&limit=...
func (s *Server) GetPosts(c *fiber.Ctx) error {
	order, err := models.ParseSortOrder(c.Query("sort"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	limit := s.config.DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("limit must be a positive integer"))
		}
	}

	var cursor *models.Cursor
	if raw := c.Query("cursor"); raw != "" {
		if cursor, err = models.DecodeCursor(raw); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid cursor"))
		}
	}

	page, err := s.feedService.ListPosts(c.UserContext(), service.ListPostsInput{
		Order:  order,
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		return respond(c, err)
	}

	resp := feedResponse{Posts: make([]rankedPost, len(page.Posts))}
	for i, p := range page.Posts {
		resp.Posts[i] = rankedPost{Post: p, Rank: page.Ranks[i]}
	}
	if page.NextCursor != nil {
		token := page.NextCursor.Encode()
		resp.NextCursor = &token
	}
	return c.JSON(resp)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:           userID(c),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		URL:              req.URL,
		Body:             req.Body,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:           userID(c),
		PostID:           id,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		URL:              req.URL,
		Body:             req.Body,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// VotePost handles POST /api/posts/:id/vote
func (s *Server) VotePost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Value int `json:"value"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.voteService.CastVote(c.UserContext(), userID(c), id, req.Value)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(result)
}
