// Package models contains data structures for the application's domain models.
package models

// Source identifies which data partition a post originated from. Each
// partition ships as an independent pair of JSON files with its own id space.
type Source string

const (
	SourcePart1      Source = "Part1"
	SourcePart2      Source = "Part2"
	SourcePartNormal Source = "PartNormal"
)

// AllSources lists the partitions in load order.
var AllSources = []Source{SourcePart1, SourcePart2, SourcePartNormal}

// ParseSource returns the Source matching s, if any.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourcePart1, SourcePart2, SourcePartNormal:
		return Source(s), true
	}
	return "", false
}

// IDPrefix returns the prefix used when synthesizing post ids for records
// that carry no id of their own ("part1_0", "normal_12", ...).
func (s Source) IDPrefix() string {
	switch s {
	case SourcePart1:
		return "part1"
	case SourcePart2:
		return "part2"
	case SourcePartNormal:
		return "normal"
	}
	return "unknown"
}

// Dir returns the data directory name for the partition
// ("part1_data", "part2_data", "partnormal_data").
func (s Source) Dir() string {
	switch s {
	case SourcePart1:
		return "part1_data"
	case SourcePart2:
		return "part2_data"
	case SourcePartNormal:
		return "partnormal_data"
	}
	return "unknown_data"
}

// FilePrefix returns the file name prefix for the partition's JSON files
// ("part1_posts.json" / "part1_llm_responses.json" and so on).
func (s Source) FilePrefix() string {
	switch s {
	case SourcePart1:
		return "part1"
	case SourcePart2:
		return "part2"
	case SourcePartNormal:
		return "partnormal"
	}
	return "unknown"
}
