package moderation

import (
	"encoding/json"
	"testing"

	"modboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripIDPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"part1_42", "42"},
		{"part2_abc", "abc"},
		{"normal_7", "7"},
		{"6421aa", "6421aa"},
		{"partnormal_3", "partnormal_3"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StripIDPrefix(tc.in))
	}
}

func TestMatch_Precedence(t *testing.T) {
	t.Parallel()

	strippedVerdict := map[string]any{"decision": "block"}
	verbatimVerdict := map[string]any{"decision": "review"}

	table := map[string]any{
		"42":       strippedVerdict,
		"part1_42": verbatimVerdict,
	}

	got, ok := Match(table, PostRef{ID: "part1_42", Source: models.SourcePart1, OriginalIndex: 5})
	require.True(t, ok)
	assert.Equal(t, strippedVerdict, got, "prefix-stripped key must win over verbatim id")
}

func TestMatch_FallbackOrder(t *testing.T) {
	t.Parallel()

	t.Run("verbatim id", func(t *testing.T) {
		t.Parallel()
		table := map[string]any{"part1_42": "v"}
		got, ok := Match(table, PostRef{ID: "part1_42", Source: models.SourcePart1, OriginalIndex: 0})
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("source and index", func(t *testing.T) {
		t.Parallel()
		table := map[string]any{"Part2_3": "v"}
		got, ok := Match(table, PostRef{ID: "part2_xyz", Source: models.SourcePart2, OriginalIndex: 3})
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("bare index", func(t *testing.T) {
		t.Parallel()
		table := map[string]any{"3": "v"}
		got, ok := Match(table, PostRef{ID: "whatever", Source: models.SourcePart1, OriginalIndex: 3})
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, ok := Match(map[string]any{"x": "v"}, PostRef{ID: "y", Source: models.SourcePart1, OriginalIndex: 9})
		assert.False(t, ok)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		_, ok := Match(nil, PostRef{ID: "y"})
		assert.False(t, ok)
	})
}

// assertTriState checks the record invariant: blocked or review imply unsafe,
// safe implies neither.
func assertTriState(t *testing.T, rec models.ModerationRecord) {
	t.Helper()
	if rec.IsBlocked {
		assert.False(t, rec.IsSafe)
	}
	if rec.NeedsReview {
		assert.False(t, rec.IsSafe)
	}
	if rec.IsSafe {
		assert.False(t, rec.IsBlocked)
		assert.False(t, rec.NeedsReview)
	}
	assert.False(t, rec.IsBlocked && rec.NeedsReview)
}

func TestParse_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     string
		wantBlocked bool
		wantReview  bool
	}{
		{
			name:        "flat final_decision",
			payload:     `{"final_decision":"block","reasons":["violence"],"confidence":0.9}`,
			wantBlocked: true,
		},
		{
			name:       "nested analysis",
			payload:    `{"analysis":{"decision":"review","issues":["slang"]}}`,
			wantReview: true,
		},
		{
			name:        "overall.analysis",
			payload:     `{"overall":{"analysis":{"final_decision":"BLOCKED"}}}`,
			wantBlocked: true,
		},
		{
			name:        "is_safe false",
			payload:     `{"is_safe":false}`,
			wantBlocked: true,
		},
		{
			name:       "needs_review true",
			payload:    `{"needs_review":true}`,
			wantReview: true,
		},
		{
			name:    "unknown decision defaults safe",
			payload: `{"decision":"banana"}`,
		},
		{
			name:    "empty object",
			payload: `{}`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var raw any
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &raw))

			rec := Parse(raw)
			assertTriState(t, rec)
			assert.Equal(t, tc.wantBlocked, rec.IsBlocked)
			assert.Equal(t, tc.wantReview, rec.NeedsReview)
			assert.Equal(t, !tc.wantBlocked && !tc.wantReview, rec.IsSafe)
		})
	}
}

func TestParse_NeverPanicsAndHoldsInvariant(t *testing.T) {
	t.Parallel()

	inputs := []any{
		nil,
		"a string",
		42.0,
		[]any{"not", "a", "map"},
		map[string]any{"analysis": "not a map"},
		map[string]any{"overall": map[string]any{"analysis": []any{}}},
		map[string]any{"reasons": 17, "confidence": "high"},
		map[string]any{"decision": 3.14},
	}

	for _, in := range inputs {
		rec := Parse(in)
		assertTriState(t, rec)
		assert.NotNil(t, rec.Reasons)
	}
}

func TestParse_FieldExtraction(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"analysis": map[string]any{
			"final_decision":  "review",
			"reasons":         []any{"a", "b"},
			"confidence":      0.66,
			"violent_content": true,
		},
		"text":  map[string]any{"is_safe": false, "issues": []any{"tone"}},
		"image": map[string]any{"has_violation": true},
		"comments": map[string]any{
			"is_safe":       false,
			"blocked_count": "2",
		},
	}

	rec := Parse(raw)
	assertTriState(t, rec)
	assert.True(t, rec.NeedsReview)
	assert.Equal(t, []string{"a", "b"}, rec.Reasons)
	assert.InDelta(t, 0.66, rec.Confidence, 1e-9)
	assert.Equal(t, models.DecisionReview, rec.Results.Overall.Decision)
	assert.True(t, rec.Results.Overall.HasViolentContent)

	assert.False(t, rec.Results.Text.IsSafe)
	assert.Equal(t, []string{"tone"}, rec.Results.Text.Reasons)
	assert.False(t, rec.Results.Image.IsSafe, "has_violation must force unsafe")
	assert.False(t, rec.Results.Comments.IsSafe)
	assert.Equal(t, 2, rec.Results.Comments.BlockedCount)
}

func TestParse_DefaultsForMissingSubVerdicts(t *testing.T) {
	t.Parallel()

	rec := Parse(map[string]any{"decision": "safe"})
	assert.True(t, rec.Results.Text.IsSafe)
	assert.Empty(t, rec.Results.Text.Reasons)
	assert.True(t, rec.Results.Image.IsSafe)
	assert.True(t, rec.Results.Comments.IsSafe)
	assert.Zero(t, rec.Results.Comments.BlockedCount)
	assert.InDelta(t, 0.8, rec.Confidence, 1e-9)
}

func TestDefaultModeration(t *testing.T) {
	t.Parallel()

	rec := models.DefaultModeration()
	assertTriState(t, rec)
	assert.True(t, rec.IsSafe)
	assert.InDelta(t, 0.95, rec.Confidence, 1e-9)
}
