package server

import (
	"modboard/internal/cache"
	"modboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetStatistics returns collection-wide statistics.
func (s *Server) GetStatistics(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var statistics *models.Statistics
	err := s.cache.Aside(ctx, cache.StatsKey(), &statistics, cache.StatsTTL, func() error {
		fresh, err := s.data.GetStatistics(ctx)
		if err != nil {
			return err
		}
		statistics = fresh
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(statistics)
}

// ClearCache drops the assembled dataset, the probe cache and the Redis
// response cache. The next read reloads everything from the source files.
func (s *Server) ClearCache(c *fiber.Ctx) error {
	s.data.ClearCache()
	if s.probeCache != nil {
		s.probeCache.Clear()
	}
	s.cache.Flush(c.UserContext())

	return c.JSON(fiber.Map{
		"message": "cache cleared",
	})
}
