package server

import (
	"time"

	"modboard/internal/cache"
	"modboard/internal/dataservice"
	"modboard/internal/models"
	"modboard/internal/normalize"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns one filtered page of posts.
// Query parameters: page, pageSize, search, type.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, pageSize := parsePaging(c)
	filters := dataservice.Filters{
		Search: c.Query("search"),
		Type:   c.Query("type"),
	}
	ctx := c.UserContext()

	var result dataservice.Page
	key := cache.PageKey(page, pageSize, filters.Search, filters.Type)
	err := s.cache.Aside(ctx, key, &result, cache.PageTTL, func() error {
		fresh, err := s.data.GetPostsPage(ctx, page, pageSize, filters)
		if err != nil {
			return err
		}
		result = *fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GetPost returns one post by id or note id, with any manual review decision
// joined in.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID := c.Params("id")
	ctx := c.UserContext()

	var post *models.Post
	key := cache.DetailKey(postID)
	err := s.cache.Aside(ctx, key, &post, cache.DetailTTL, func() error {
		fresh, err := s.data.GetPostDetail(ctx, postID)
		if err != nil {
			return err
		}
		post = fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	decision, err := s.reviews.LatestForPost(ctx, post.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"post":    post,
		"review":  decision,
		"display": displayFields(post),
	})
}

// displayFields renders the counters and timestamp the way the review UI
// shows them.
func displayFields(post *models.Post) fiber.Map {
	return fiber.Map{
		"relative_time":   normalize.RelativeTime(post.Time, time.Now()),
		"liked_count":     normalize.FormatCount(post.LikedCount),
		"comment_count":   normalize.FormatCount(post.CommentCount),
		"collected_count": normalize.FormatCount(post.CollectedCount),
		"share_count":     normalize.FormatCount(post.ShareCount),
	}
}

// SearchPosts returns posts matching the q parameter in title, content,
// nickname or tags.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fail(c, models.NewValidationError("query parameter q is required"))
	}
	limit := c.QueryInt("limit", 10)
	ctx := c.UserContext()

	var posts []*models.Post
	key := cache.SearchKey(query, limit)
	err := s.cache.Aside(ctx, key, &posts, cache.SearchTTL, func() error {
		fresh, err := s.data.SearchPosts(ctx, query, limit)
		if err != nil {
			return err
		}
		posts = fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts returns posts by one user.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID := c.Params("id")
	limit := c.QueryInt("limit", 20)
	ctx := c.UserContext()

	var posts []*models.Post
	key := cache.UserPostsKey(userID, limit)
	err := s.cache.Aside(ctx, key, &posts, cache.PageTTL, func() error {
		fresh, err := s.data.GetUserPosts(ctx, userID, limit)
		if err != nil {
			return err
		}
		posts = fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetPopularTags returns the most frequent tags across the collection.
func (s *Server) GetPopularTags(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	ctx := c.UserContext()

	var tags []models.TagCount
	key := cache.TagsKey(limit)
	err := s.cache.Aside(ctx, key, &tags, cache.TagsTTL, func() error {
		fresh, err := s.data.GetPopularTags(ctx, limit)
		if err != nil {
			return err
		}
		tags = fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}
