package seed

import (
	"context"
	"testing"

	"modboard/internal/dataservice"
	"modboard/internal/images"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_ProducesLoadableDataset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, New(42, nil).Write(dir, 6))

	resolver := images.NewResolver(images.NewFileProber(dir), images.NewProbeCache(), images.ResolverConfig{}, nil)
	svc := dataservice.NewService(dataservice.NewFileFetcher(dir), resolver, dataservice.Config{}, nil)

	posts, err := svc.GetAllPosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 18, "three partitions of six posts each")

	withImages := 0
	withVerdict := 0
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		if p.HasImages() {
			withImages++
		}
		if !p.Moderation.IsSafe {
			withVerdict++
		}
	}
	assert.Positive(t, withImages, "seeded image stubs must resolve")

	statistics, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18, statistics.TotalPosts)
	assert.NotNil(t, statistics.TimeRange.Earliest)
}

func TestWrite_Deterministic(t *testing.T) {
	t.Parallel()

	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, New(7, nil).Write(a, 3))
	require.NoError(t, New(7, nil).Write(b, 3))

	svcFor := func(dir string) *dataservice.Service {
		resolver := images.NewResolver(images.NewFileProber(dir), images.NewProbeCache(), images.ResolverConfig{}, nil)
		return dataservice.NewService(dataservice.NewFileFetcher(dir), resolver, dataservice.Config{}, nil)
	}

	postsA, err := svcFor(a).GetAllPosts(context.Background())
	require.NoError(t, err)
	postsB, err := svcFor(b).GetAllPosts(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(postsA), len(postsB))
	for i := range postsA {
		assert.Equal(t, postsA[i].ID, postsB[i].ID)
		assert.Equal(t, postsA[i].Title, postsB[i].Title)
	}
}
