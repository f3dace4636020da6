package models

import "time"

// TimeRange spans the earliest and latest publish times observed across the
// collection. Nil bounds mean no post carried a usable timestamp.
type TimeRange struct {
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

// Statistics summarizes the full post collection. It is recomputed wholesale
// on every load cycle, never maintained incrementally.
type Statistics struct {
	TotalPosts       int            `json:"total_posts"`
	TotalUsers       int            `json:"total_users"`
	SafeContent      int            `json:"safe_content"`
	BlockedContent   int            `json:"blocked_content"`
	ReviewContent    int            `json:"review_content"`
	WithImages       int            `json:"with_images"`
	WithComments     int            `json:"with_comments"`
	AvgInteractions  int            `json:"avg_interactions"`
	SourcesBreakdown map[Source]int `json:"sources_breakdown"`
	TimeRange        TimeRange      `json:"time_range"`
}
