package server

import (
	"modboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateReviewInput is the request body for recording a manual review
// decision.
type CreateReviewInput struct {
	PostID   string `json:"post_id"`
	Decision string `json:"decision"`
	Note     string `json:"note"`
	Reviewer string `json:"reviewer"`
}

// CreateReview records a manual moderation override for a post. The post
// must exist in the assembled collection.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var input CreateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("invalid request body"))
	}
	ctx := c.UserContext()

	post, err := s.data.GetPostDetail(ctx, input.PostID)
	if err != nil {
		return fail(c, err)
	}

	decision := &models.ReviewDecision{
		PostID:   post.ID,
		Decision: models.Decision(input.Decision),
		Note:     input.Note,
		Reviewer: input.Reviewer,
	}
	if err := s.reviews.Save(ctx, decision); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(decision)
}

// ListReviews returns recorded review decisions, newest first.
func (s *Server) ListReviews(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	decisions, err := s.reviews.List(c.UserContext(), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(decisions)
}

// GetPostReview returns the latest manual decision for a post, or 404 when
// the post has never been reviewed.
func (s *Server) GetPostReview(c *fiber.Ctx) error {
	postID := c.Params("id")

	decision, err := s.reviews.LatestForPost(c.UserContext(), postID)
	if err != nil {
		return fail(c, err)
	}
	if decision == nil {
		return fail(c, models.NewNotFoundError("review", postID))
	}
	return c.JSON(decision)
}
