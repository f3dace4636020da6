// Package stats computes collection-wide statistics in a single pass.
package stats

import (
	"math"

	"modboard/internal/models"
	"modboard/internal/normalize"
)

// Aggregate summarizes the post collection. Safety buckets are mutually
// exclusive in the order safe, blocked, review. Posts with a zero timestamp
// do not contribute to the time range.
func Aggregate(posts []*models.Post) *models.Statistics {
	s := &models.Statistics{
		TotalPosts:       len(posts),
		SourcesBreakdown: make(map[models.Source]int),
	}

	users := make(map[string]struct{})
	totalInteractions := 0
	var earliest, latest int64

	for _, post := range posts {
		if post.UserID != "" {
			users[post.UserID] = struct{}{}
		}

		switch {
		case post.Moderation.IsSafe:
			s.SafeContent++
		case post.Moderation.IsBlocked:
			s.BlockedContent++
		case post.Moderation.NeedsReview:
			s.ReviewContent++
		}

		if post.HasImages() {
			s.WithImages++
		}
		if len(post.Comments) > 0 {
			s.WithComments++
		}

		totalInteractions += post.LikedCount + post.CommentCount + post.CollectedCount
		s.SourcesBreakdown[post.Source]++

		if post.Time > 0 {
			if earliest == 0 || post.Time < earliest {
				earliest = post.Time
			}
			if post.Time > latest {
				latest = post.Time
			}
		}
	}

	s.TotalUsers = len(users)
	if len(posts) > 0 {
		s.AvgInteractions = int(math.Round(float64(totalInteractions) / float64(len(posts))))
	}

	if earliest > 0 {
		t := normalize.EpochToTime(earliest)
		s.TimeRange.Earliest = &t
	}
	if latest > 0 {
		t := normalize.EpochToTime(latest)
		s.TimeRange.Latest = &t
	}
	return s
}
