package stats

import (
	"testing"
	"time"

	"modboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(mut func(*models.Post)) *models.Post {
	p := &models.Post{
		Source:     models.SourcePart1,
		Moderation: models.DefaultModeration(),
		Images:     []string{},
	}
	mut(p)
	return p
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	s := Aggregate(nil)
	assert.Zero(t, s.TotalPosts)
	assert.Zero(t, s.AvgInteractions)
	assert.Nil(t, s.TimeRange.Earliest)
	assert.Nil(t, s.TimeRange.Latest)
	assert.Empty(t, s.SourcesBreakdown)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	posts := []*models.Post{
		post(func(p *models.Post) {
			p.UserID = "u1"
			p.Time = 1700000000
			p.LikedCount = 10
			p.CommentCount = 5
			p.Images = []string{"/data/Part1/images/a/0.jpg"}
			p.ImageCount = 1
		}),
		post(func(p *models.Post) {
			p.UserID = "u2"
			p.Time = 1700003600
			p.CollectedCount = 3
			p.Comments = []models.Comment{{Content: "hi"}}
		}),
		post(func(p *models.Post) {
			p.UserID = "u1"
			p.Source = models.SourcePart2
		}),
		post(func(p *models.Post) {
			p.Source = models.SourcePart2
			p.Moderation = models.ModerationRecord{IsBlocked: true}
		}),
		post(func(p *models.Post) {
			p.Source = models.SourcePartNormal
			p.Moderation = models.ModerationRecord{NeedsReview: true}
		}),
	}

	s := Aggregate(posts)

	assert.Equal(t, 5, s.TotalPosts)
	assert.Equal(t, 2, s.TotalUsers, "distinct non-empty user ids")
	assert.Equal(t, 3, s.SafeContent)
	assert.Equal(t, 1, s.BlockedContent)
	assert.Equal(t, 1, s.ReviewContent)
	assert.Equal(t, 1, s.WithImages)
	assert.Equal(t, 1, s.WithComments)
	assert.Equal(t, 4, s.AvgInteractions, "(10+5+3)/5 rounded")

	assert.Equal(t, map[models.Source]int{
		models.SourcePart1:      2,
		models.SourcePart2:      2,
		models.SourcePartNormal: 1,
	}, s.SourcesBreakdown)

	require.NotNil(t, s.TimeRange.Earliest)
	require.NotNil(t, s.TimeRange.Latest)
	assert.Equal(t, time.Unix(1700000000, 0), *s.TimeRange.Earliest)
	assert.Equal(t, time.Unix(1700003600, 0), *s.TimeRange.Latest)
}

func TestAggregate_MillisecondTimestamps(t *testing.T) {
	t.Parallel()

	s := Aggregate([]*models.Post{
		post(func(p *models.Post) { p.Time = 1700000000000 }),
	})
	require.NotNil(t, s.TimeRange.Earliest)
	assert.Equal(t, time.UnixMilli(1700000000000), *s.TimeRange.Earliest)
}

func TestAggregate_ZeroTimesExcluded(t *testing.T) {
	t.Parallel()

	s := Aggregate([]*models.Post{
		post(func(p *models.Post) {}),
		post(func(p *models.Post) {}),
	})
	assert.Nil(t, s.TimeRange.Earliest)
	assert.Nil(t, s.TimeRange.Latest)
}
