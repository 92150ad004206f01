package server

import (
	"lotusnews/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	forest, err := s.commentService.GetForest(c.UserContext(), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(forest)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Body     string     `json:"body"`
		ParentID *uuid.UUID `json:"parent_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   userID(c),
		PostID:   postID,
		ParentID: req.ParentID,
		Body:     req.Body,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
