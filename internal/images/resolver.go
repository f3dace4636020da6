package images

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"modboard/internal/models"
	"modboard/internal/observability"
)

const (
	defaultMaxImages    = 20
	defaultProbeTimeout = 3 * time.Second

	// missWindow is the number of consecutive missing indices that stops
	// the sequential scan.
	missWindow = 3
)

// Prober answers whether a single image path exists. Implementations must
// honor ctx cancellation and treat a timeout as absence.
type Prober interface {
	Exists(ctx context.Context, path string) bool
}

// ResolverConfig tunes a Resolver. Zero values fall back to defaults.
type ResolverConfig struct {
	MaxImages    int
	ProbeTimeout time.Duration
}

// Resolver discovers a post's images by probing /data/{source}/images/{id}/{i}.jpg
// for increasing i, stopping after missWindow consecutive misses past the
// initial window or at MaxImages.
type Resolver struct {
	prober       Prober
	cache        *ProbeCache
	maxImages    int
	probeTimeout time.Duration
	logger       *slog.Logger
}

// NewResolver builds a Resolver around the given prober and shared probe
// cache.
func NewResolver(prober Prober, cache *ProbeCache, cfg ResolverConfig, logger *slog.Logger) *Resolver {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = defaultMaxImages
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		prober:       prober,
		cache:        cache,
		maxImages:    cfg.MaxImages,
		probeTimeout: cfg.ProbeTimeout,
		logger:       logger,
	}
}

// Resolve returns the ordered list of image paths that exist for the post.
// An empty post id yields an empty list, not an error. Context cancellation
// returns what was found so far along with ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, postID string, source models.Source) ([]string, error) {
	if postID == "" {
		r.logger.WarnContext(ctx, "missing post id, skipping image lookup")
		return []string{}, nil
	}

	base := fmt.Sprintf("/data/%s/images/%s", source, postID)
	found := make([]string, 0, 4)

	for i := 0; i < r.maxImages; i++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		path := fmt.Sprintf("%s/%d.jpg", base, i)
		if r.probe(ctx, path) {
			found = append(found, path)
			continue
		}
		if i >= missWindow && r.windowAllMissing(base, i) {
			break
		}
	}

	r.logger.DebugContext(ctx, "resolved post images",
		slog.String("post_id", postID),
		slog.String("source", string(source)),
		slog.Int("count", len(found)))
	return found, nil
}

// FirstExisting returns the first candidate path that exists, probing
// through the shared cache. Used for posts whose sequential directory holds
// nothing but whose record carries a legacy single-image field.
func (r *Resolver) FirstExisting(ctx context.Context, candidates []string) (string, error) {
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if r.probe(ctx, path) {
			return path, nil
		}
	}
	return "", nil
}

// probe answers from the cache when possible, otherwise runs the prober under
// the per-probe timeout and records the result.
func (r *Resolver) probe(ctx context.Context, path string) bool {
	if exists, ok := r.cache.Get(path); ok {
		observability.ImageProbeCacheHits.Inc()
		return exists
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	exists := r.prober.Exists(probeCtx, path)
	cancel()

	r.cache.Set(path, exists)
	if exists {
		observability.ImageProbes.WithLabelValues("hit").Inc()
	} else {
		observability.ImageProbes.WithLabelValues("miss").Inc()
	}
	return exists
}

// windowAllMissing reports whether indices i-2..i all resolved as missing.
// Unknown cache entries count as missing.
func (r *Resolver) windowAllMissing(base string, i int) bool {
	for j := i - 2; j <= i; j++ {
		if exists, ok := r.cache.Get(fmt.Sprintf("%s/%d.jpg", base, j)); ok && exists {
			return false
		}
	}
	return true
}
