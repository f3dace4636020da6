package assemble

import (
	"testing"

	"modboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RejectsEmptyRecords(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Build(nil, models.SourcePart1, 0, nil))
	assert.Nil(t, Build(map[string]any{}, models.SourcePart1, 0, nil))
	assert.Nil(t, Build(map[string]any{"title": "  ", "desc": ""}, models.SourcePart1, 0, nil))
	assert.NotNil(t, Build(map[string]any{"title": "t"}, models.SourcePart1, 0, nil))
	assert.NotNil(t, Build(map[string]any{"content": "c"}, models.SourcePart1, 0, nil))
}

func TestBuild_FieldVariants(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"note_id":         "n99",
		"title":           "hello",
		"desc":            "body text",
		"user_id":         "u1",
		"nickname":        "casey",
		"liked_count":     "1234",
		"collect_count":   float64(7),
		"comments_count":  "3",
		"shares":          2.0,
		"time":            "1700000000",
		"ip_location":     "Osaka",
		"tag_list":        `["food","travel"]`,
		"source_keyword":  "ramen",
		"note_url":        "https://example.com/n99",
		"all_comments": []any{
			map[string]any{"comment_id": "c1", "text": "nice", "create_time": float64(1700000100)},
			map[string]any{"id": "c2", "content": "   "},
			"not a map",
		},
	}

	draft := Build(raw, models.SourcePart2, 4, nil)
	require.NotNil(t, draft)
	post := draft.Finalize(nil)

	assert.Equal(t, "n99", post.ID, "note_id serves as id when id is absent")
	assert.Equal(t, "n99", post.NoteID)
	assert.Equal(t, models.SourcePart2, post.Source)
	assert.Equal(t, 4, post.OriginalIndex)
	assert.Equal(t, "hello", post.Title)
	assert.Equal(t, "body text", post.Content)
	assert.Equal(t, "normal", post.Type)
	assert.Equal(t, 1234, post.LikedCount)
	assert.Equal(t, 7, post.CollectedCount)
	assert.Equal(t, 3, post.CommentCount)
	assert.Equal(t, 2, post.ShareCount)
	assert.Equal(t, int64(1700000000), post.Time)
	assert.Equal(t, "Osaka", post.Location)
	assert.Equal(t, []string{"food", "travel"}, post.Tags)
	assert.Equal(t, "ramen", post.SourceKeyword)

	require.Len(t, post.Comments, 1, "bodyless and malformed comments are dropped")
	c := post.Comments[0]
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "nice", c.Content)
	assert.Equal(t, "anonymous", c.Nickname)
	assert.Equal(t, "0", c.ParentID)
	assert.Equal(t, int64(1700000100), c.Time)
}

func TestBuild_SynthesizesID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source models.Source
		index  int
		want   string
	}{
		{models.SourcePart1, 0, "part1_0"},
		{models.SourcePart2, 12, "part2_12"},
		{models.SourcePartNormal, 3, "normal_3"},
	}
	for _, tc := range tests {
		draft := Build(map[string]any{"title": "t"}, tc.source, tc.index, nil)
		require.NotNil(t, draft)
		assert.Equal(t, tc.want, draft.ID())
	}
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	draft := Build(map[string]any{"title": "t"}, models.SourcePart1, 0, nil)
	require.NotNil(t, draft)
	post := draft.Finalize(nil)

	assert.Equal(t, "anonymous", post.Nickname)
	assert.Equal(t, "normal", post.Type)
	assert.Zero(t, post.Time, "missing timestamps stay zero so statistics can exclude them")
	assert.Empty(t, post.Tags)
	assert.Empty(t, post.Comments)
	assert.NotEmpty(t, post.Avatar, "missing avatar falls back to a deterministic default")
	assert.True(t, post.Moderation.IsSafe, "no verdict means the default safe record")
}

func TestBuild_ModerationLookup(t *testing.T) {
	t.Parallel()

	verdicts := map[string]any{
		"42": map[string]any{"decision": "block"},
	}

	draft := Build(map[string]any{"id": "part1_42", "title": "t"}, models.SourcePart1, 0, verdicts)
	require.NotNil(t, draft)
	post := draft.Finalize(nil)

	assert.True(t, post.Moderation.IsBlocked)
	assert.False(t, post.Moderation.IsSafe)
}

func TestFinalize(t *testing.T) {
	t.Parallel()

	draft := Build(map[string]any{"title": "t", "image_list": "cover.png"}, models.SourcePart1, 0, nil)
	require.NotNil(t, draft)
	assert.Equal(t, "cover.png", draft.LegacyImage())

	t.Run("with images", func(t *testing.T) {
		t.Parallel()
		post := draft.Finalize([]string{"/data/Part1/images/part1_0/0.jpg", "/data/Part1/images/part1_0/1.jpg"})
		assert.Equal(t, 2, post.ImageCount)
		assert.Equal(t, "/data/Part1/images/part1_0/0.jpg", post.Image)
		assert.True(t, post.HasImages())
	})

	t.Run("without images", func(t *testing.T) {
		t.Parallel()
		post := draft.Finalize(nil)
		assert.Zero(t, post.ImageCount)
		assert.Empty(t, post.Image)
		assert.NotNil(t, post.Images)
		assert.False(t, post.HasImages())
	})
}
