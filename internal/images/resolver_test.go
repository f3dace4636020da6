package images

import (
	"context"
	"sync"
	"testing"
	"time"

	"modboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	mu     sync.Mutex
	calls  int
	exists func(path string) bool
}

func (s *stubProber) Exists(_ context.Context, path string) bool {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.exists(path)
}

func (s *stubProber) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestResolve_StopsAfterConsecutiveMisses(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(path string) bool {
		switch path {
		case "/data/Part1/images/p1/0.jpg",
			"/data/Part1/images/p1/1.jpg",
			"/data/Part1/images/p1/2.jpg":
			return true
		}
		return false
	}}

	r := NewResolver(prober, NewProbeCache(), ResolverConfig{}, nil)
	got, err := r.Resolve(context.Background(), "p1", models.SourcePart1)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/Part1/images/p1/0.jpg",
		"/data/Part1/images/p1/1.jpg",
		"/data/Part1/images/p1/2.jpg",
	}, got)
	assert.LessOrEqual(t, prober.callCount(), 6, "scan must stop shortly after three consecutive misses")
}

func TestResolve_EmptyDirectoryProbesMinimally(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(string) bool { return false }}
	r := NewResolver(prober, NewProbeCache(), ResolverConfig{}, nil)

	got, err := r.Resolve(context.Background(), "p2", models.SourcePart2)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 4, prober.callCount(), "misses at 0..3 end the scan at the first window check")
}

func TestResolve_HonorsMaxImages(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(string) bool { return true }}
	r := NewResolver(prober, NewProbeCache(), ResolverConfig{MaxImages: 5}, nil)

	got, err := r.Resolve(context.Background(), "p3", models.SourcePart1)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 5, prober.callCount())
}

func TestResolve_CacheSkipsRepeatProbes(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(string) bool { return false }}
	cache := NewProbeCache()
	r := NewResolver(prober, cache, ResolverConfig{}, nil)

	_, err := r.Resolve(context.Background(), "p4", models.SourcePart1)
	require.NoError(t, err)
	first := prober.callCount()

	_, err = r.Resolve(context.Background(), "p4", models.SourcePart1)
	require.NoError(t, err)
	assert.Equal(t, first, prober.callCount(), "second pass must be served from the cache")

	cache.Clear()
	_, err = r.Resolve(context.Background(), "p4", models.SourcePart1)
	require.NoError(t, err)
	assert.Equal(t, 2*first, prober.callCount())
}

func TestResolve_EmptyPostID(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(string) bool { return true }}
	r := NewResolver(prober, NewProbeCache(), ResolverConfig{}, nil)

	got, err := r.Resolve(context.Background(), "", models.SourcePart1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, prober.callCount())
}

type blockingProber struct{}

func (blockingProber) Exists(ctx context.Context, _ string) bool {
	<-ctx.Done()
	return false
}

func TestResolve_ProbeTimeoutCountsAsMiss(t *testing.T) {
	t.Parallel()

	r := NewResolver(blockingProber{}, NewProbeCache(), ResolverConfig{ProbeTimeout: 5 * time.Millisecond}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := r.Resolve(context.Background(), "p5", models.SourcePart1)
		assert.NoError(t, err)
		assert.Empty(t, got)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not give up on a hung prober")
	}
}

func TestResolve_ContextCancellation(t *testing.T) {
	t.Parallel()

	prober := &stubProber{exists: func(string) bool { return true }}
	r := NewResolver(prober, NewProbeCache(), ResolverConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "p6", models.SourcePart1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidatePaths(t *testing.T) {
	t.Parallel()

	t.Run("no legacy image field", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, CandidatePaths(LegacyRef{ID: "x"}))
	})

	t.Run("preferred source first, deduplicated", func(t *testing.T) {
		t.Parallel()
		ref := LegacyRef{
			ID:            "part2_9",
			Source:        models.SourcePart2,
			OriginalIndex: 9,
			Image:         "photo.jpg",
		}
		paths := CandidatePaths(ref)
		require.NotEmpty(t, paths)
		assert.Equal(t, "/data/Part2/images/photo.jpg", paths[0])

		seen := make(map[string]int)
		for _, p := range paths {
			seen[p]++
		}
		for p, n := range seen {
			assert.Equal(t, 1, n, "duplicate candidate %s", p)
		}
		assert.Contains(t, paths, "/data/Part2/images/part2_9.jpg")
		assert.Contains(t, paths, "/data/Part2/images/Part2_9.png")
		assert.Contains(t, paths, "/data/PartNormal/photo.jpg")
	})
}
