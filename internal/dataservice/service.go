// Package dataservice loads the partition files, assembles them into
// canonical posts and serves every read query the API exposes. The dataset
// is loaded lazily on first use and memoized until the cache is cleared.
package dataservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"modboard/internal/assemble"
	"modboard/internal/images"
	"modboard/internal/models"
	"modboard/internal/observability"
	"modboard/internal/stats"
)

const (
	defaultBatchSize   = 10
	defaultPageSize    = 20
	defaultSearchLimit = 10
	defaultUserLimit   = 20
	defaultTagLimit    = 20
)

// Config tunes a Service. Zero values fall back to defaults.
type Config struct {
	// BatchSize is the number of posts whose images are resolved
	// concurrently during a load cycle.
	BatchSize int
}

// Filters narrows a posts page.
type Filters struct {
	// Search matches case-insensitively against title, content and nickname.
	Search string
	// Type is one of safe, blocked, review, image, text. Empty and "all"
	// apply no filter.
	Type string
}

// Pagination describes one page of results.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is one page of posts plus its pagination envelope.
type Page struct {
	Data       []*models.Post `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Service is the façade over the whole data pipeline.
type Service struct {
	fetcher   Fetcher
	resolver  *images.Resolver
	files     *FileCache
	batchSize int
	logger    *slog.Logger

	mu         sync.Mutex
	loaded     bool
	posts      []*models.Post
	statistics *models.Statistics

	imageMu    sync.Mutex
	imageLists map[string][]string
}

// NewService wires a Service from its collaborators.
func NewService(fetcher Fetcher, resolver *images.Resolver, cfg Config, logger *slog.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:    fetcher,
		resolver:   resolver,
		files:      NewFileCache(),
		batchSize:  cfg.BatchSize,
		logger:     logger,
		imageLists: make(map[string][]string),
	}
}

// GetAllPosts returns the full assembled collection, loading it on first use.
func (s *Service) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.posts, nil
}

// GetStatistics returns collection-wide statistics, loading on first use.
func (s *Service) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.statistics, nil
}

// GetPostsPage returns one filtered page of posts.
func (s *Service) GetPostsPage(ctx context.Context, page, pageSize int, f Filters) (*Page, error) {
	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	filtered := applyFilters(all, f)

	totalItems := len(filtered)
	totalPages := (totalItems + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return &Page{
		Data: filtered[start:end],
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}, nil
}

// SearchPosts returns up to limit posts matching the query in title, content,
// nickname or tags.
func (s *Service) SearchPosts(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	keyword := strings.ToLower(strings.TrimSpace(query))
	if keyword == "" {
		return []*models.Post{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Post, 0, limit)
	for _, post := range all {
		if matchesKeyword(post, keyword, true) {
			out = append(out, post)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// GetUserPosts returns up to limit posts by the given user.
func (s *Service) GetUserPosts(ctx context.Context, userID string, limit int) ([]*models.Post, error) {
	if userID == "" {
		return []*models.Post{}, nil
	}
	if limit <= 0 {
		limit = defaultUserLimit
	}

	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Post, 0, limit)
	for _, post := range all {
		if post.UserID == userID {
			out = append(out, post)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// GetPopularTags returns the limit most frequent tags, most frequent first.
// Ties break alphabetically so the order is stable across loads.
func (s *Service) GetPopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	if limit <= 0 {
		limit = defaultTagLimit
	}

	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, post := range all {
		for _, tag := range post.Tags {
			if tag != "" {
				counts[tag]++
			}
		}
	}

	tags := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

// GetPostDetail returns the post whose id or note id equals postID.
func (s *Service) GetPostDetail(ctx context.Context, postID string) (*models.Post, error) {
	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range all {
		if post.ID == postID || post.NoteID == postID {
			return post, nil
		}
	}
	return nil, models.NewNotFoundError("post", postID)
}

// ClearCache drops the assembled dataset, the decoded file cache and the
// per-post image lists. The next read reloads from the source files.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.loaded = false
	s.posts = nil
	s.statistics = nil
	s.mu.Unlock()

	s.files.Clear()

	s.imageMu.Lock()
	s.imageLists = make(map[string][]string)
	s.imageMu.Unlock()
}

// ensureLoadedLocked runs the full load cycle if the dataset is not in
// memory. Callers hold s.mu, which also serializes concurrent first loads.
func (s *Service) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	start := time.Now()
	posts, statistics, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.posts = posts
	s.statistics = statistics
	s.loaded = true
	observability.DataLoadDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("posts", len(posts)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

type partition struct {
	source   models.Source
	posts    []any
	verdicts map[string]any
}

func (s *Service) load(ctx context.Context) ([]*models.Post, *models.Statistics, error) {
	partitions := make([]partition, len(models.AllSources))

	var wg sync.WaitGroup
	for i, source := range models.AllSources {
		wg.Add(1)
		go func(i int, source models.Source) {
			defer wg.Done()
			partitions[i] = s.loadPartition(ctx, source)
		}(i, source)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	rawTotal := 0
	verdicts := make(map[string]any)
	for _, p := range partitions {
		rawTotal += len(p.posts)
		for k, v := range p.verdicts {
			verdicts[k] = v
		}
	}
	if rawTotal == 0 {
		return nil, nil, models.NewNoDataError()
	}

	drafts := make([]*assemble.Draft, 0, rawTotal)
	for _, p := range partitions {
		for index, raw := range p.posts {
			record, ok := raw.(map[string]any)
			if !ok {
				observability.PostsRejected.Inc()
				continue
			}
			draft := assemble.Build(record, p.source, index, verdicts)
			if draft == nil {
				observability.PostsRejected.Inc()
				continue
			}
			observability.PostsAssembled.Inc()
			drafts = append(drafts, draft)
		}
	}

	s.logger.InfoContext(ctx, "posts assembled",
		slog.Int("raw", rawTotal),
		slog.Int("kept", len(drafts)))

	lists, err := s.enrichImages(ctx, drafts)
	if err != nil {
		return nil, nil, err
	}

	posts := make([]*models.Post, len(drafts))
	for i, draft := range drafts {
		posts[i] = draft.Finalize(lists[i])
	}
	return posts, stats.Aggregate(posts), nil
}

// loadPartition fetches one partition's posts and verdicts. Any failure
// degrades to an empty partition; absence is not even worth a metric.
func (s *Service) loadPartition(ctx context.Context, source models.Source) partition {
	p := partition{source: source}
	dir := source.Dir()
	prefix := source.FilePrefix()

	rawPosts, err := s.files.LoadJSON(ctx, s.fetcher, fmt.Sprintf("/data/%s/%s_posts.json", dir, prefix))
	if err != nil {
		observability.PartitionLoadFailures.WithLabelValues(string(source)).Inc()
		s.logger.WarnContext(ctx, "partition posts load failed",
			slog.String("source", string(source)), slog.Any("error", err))
	}
	if arr, ok := rawPosts.([]any); ok {
		p.posts = arr
	}

	rawVerdicts, err := s.files.LoadJSON(ctx, s.fetcher, fmt.Sprintf("/data/%s/%s_llm_responses.json", dir, prefix))
	if err != nil {
		observability.PartitionLoadFailures.WithLabelValues(string(source)).Inc()
		s.logger.WarnContext(ctx, "partition verdicts load failed",
			slog.String("source", string(source)), slog.Any("error", err))
	}
	if table, ok := rawVerdicts.(map[string]any); ok {
		p.verdicts = table
	}
	return p
}

// enrichImages resolves image lists for all drafts in concurrent batches.
// A failed batch falls back to resolving its drafts one by one; a post whose
// resolution still fails ends up with no images rather than failing the load.
func (s *Service) enrichImages(ctx context.Context, drafts []*assemble.Draft) ([][]string, error) {
	lists := make([][]string, len(drafts))

	for begin := 0; begin < len(drafts); begin += s.batchSize {
		end := begin + s.batchSize
		if end > len(drafts) {
			end = len(drafts)
		}

		batchErrs := make([]error, end-begin)
		var wg sync.WaitGroup
		for i := begin; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				lists[i], batchErrs[i-begin] = s.imagesFor(ctx, drafts[i])
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, batchErr := range batchErrs {
			if batchErr == nil {
				continue
			}
			draft := drafts[begin+i]
			list, err := s.imagesFor(ctx, draft)
			if err != nil {
				s.logger.WarnContext(ctx, "image resolution failed",
					slog.String("post_id", draft.ID()), slog.Any("error", err))
				list = []string{}
			}
			lists[begin+i] = list
		}
	}
	return lists, nil
}

// imagesFor returns the draft's image list, keyed by post id so two posts
// never share a cached list.
func (s *Service) imagesFor(ctx context.Context, draft *assemble.Draft) ([]string, error) {
	s.imageMu.Lock()
	cached, ok := s.imageLists[draft.ID()]
	s.imageMu.Unlock()
	if ok {
		return cached, nil
	}

	list, err := s.resolver.Resolve(ctx, draft.ID(), draft.Source())
	if err != nil {
		return nil, err
	}

	// Records from before the per-post directory layout carry a single
	// image filename; try the legacy flat directories before giving up.
	if len(list) == 0 && draft.LegacyImage() != "" {
		candidates := images.CandidatePaths(images.LegacyRef{
			Image:         draft.LegacyImage(),
			ID:            draft.ID(),
			Source:        draft.Source(),
			OriginalIndex: draft.Index(),
		})
		path, err := s.resolver.FirstExisting(ctx, candidates)
		if err != nil {
			return nil, err
		}
		if path != "" {
			list = []string{path}
		}
	}

	s.imageMu.Lock()
	s.imageLists[draft.ID()] = list
	s.imageMu.Unlock()
	return list, nil
}

func applyFilters(posts []*models.Post, f Filters) []*models.Post {
	keyword := strings.ToLower(strings.TrimSpace(f.Search))
	typ := strings.ToLower(strings.TrimSpace(f.Type))
	if keyword == "" && (typ == "" || typ == "all") {
		return posts
	}

	out := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if keyword != "" && !matchesKeyword(post, keyword, false) {
			continue
		}
		if !matchesType(post, typ) {
			continue
		}
		out = append(out, post)
	}
	return out
}

func matchesKeyword(post *models.Post, keyword string, includeTags bool) bool {
	if strings.Contains(strings.ToLower(post.Title), keyword) ||
		strings.Contains(strings.ToLower(post.Content), keyword) ||
		strings.Contains(strings.ToLower(post.Nickname), keyword) {
		return true
	}
	if includeTags {
		for _, tag := range post.Tags {
			if strings.Contains(strings.ToLower(tag), keyword) {
				return true
			}
		}
	}
	return false
}

func matchesType(post *models.Post, typ string) bool {
	switch typ {
	case "safe":
		return post.Moderation.IsSafe
	case "blocked":
		return post.Moderation.IsBlocked
	case "review":
		return post.Moderation.NeedsReview
	case "image":
		return post.HasImages()
	case "text":
		return !post.HasImages()
	default:
		return true
	}
}
