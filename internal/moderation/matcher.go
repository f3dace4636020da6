// Package moderation matches raw posts against the separately-keyed verdict
// table and parses the varying verdict payload shapes into the canonical
// moderation record.
package moderation

import (
	"fmt"
	"strconv"
	"strings"

	"modboard/internal/models"
)

// PostRef identifies a post for verdict lookup.
type PostRef struct {
	ID            string
	Source        models.Source
	OriginalIndex int
}

// idPrefixes are the synthesized-id prefixes stripped before the primary
// lookup. Verdict tables are usually keyed by bare note id.
var idPrefixes = []string{"part1_", "part2_", "normal_"}

// StripIDPrefix removes a synthesized partition prefix from a post id,
// if present.
func StripIDPrefix(id string) string {
	for _, p := range idPrefixes {
		if rest, ok := strings.CutPrefix(id, p); ok {
			return rest
		}
	}
	return id
}

// Match looks up a post's verdict in the flat table. Lookup order, first hit
// wins: bare note id (prefix stripped), verbatim id, "{Source}_{index}",
// bare index. Returns (nil, false) when no key matches; the caller then
// substitutes the default safe record.
func Match(table map[string]any, ref PostRef) (any, bool) {
	if len(table) == 0 {
		return nil, false
	}

	if v, ok := table[StripIDPrefix(ref.ID)]; ok {
		return v, true
	}
	if v, ok := table[ref.ID]; ok {
		return v, true
	}
	if v, ok := table[fmt.Sprintf("%s_%d", ref.Source, ref.OriginalIndex)]; ok {
		return v, true
	}
	if v, ok := table[strconv.Itoa(ref.OriginalIndex)]; ok {
		return v, true
	}
	return nil, false
}
