package images

import (
	"path"
	"strconv"
	"strings"

	"modboard/internal/models"
)

var candidateExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// sourceRoots maps each partition to its legacy flat image directory. The
// PartNormal partition historically stored images directly under its data
// root rather than an images/ subdirectory.
var sourceRoots = map[models.Source]string{
	models.SourcePart1:      "/data/Part1/images/",
	models.SourcePart2:      "/data/Part2/images/",
	models.SourcePartNormal: "/data/PartNormal/",
}

// LegacyRef identifies a post for legacy flat-directory image lookup.
type LegacyRef struct {
	Image         string
	ID            string
	Source        models.Source
	OriginalIndex int
}

// CandidatePaths enumerates every plausible location of a post's legacy
// single image field, deduplicated, with the post's own partition tried
// first. Used as a fallback when the sequential per-post directory holds
// nothing.
func CandidatePaths(ref LegacyRef) []string {
	if ref.Image == "" {
		return []string{}
	}

	baseName := strings.TrimSuffix(ref.Image, path.Ext(ref.Image))

	ordered := make([]models.Source, 0, len(models.AllSources))
	if _, ok := sourceRoots[ref.Source]; ok {
		ordered = append(ordered, ref.Source)
	}
	for _, s := range models.AllSources {
		if s != ref.Source {
			ordered = append(ordered, s)
		}
	}

	seen := make(map[string]struct{})
	paths := make([]string, 0, 16)
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, src := range ordered {
		root := sourceRoots[src]
		add(root + ref.Image)
		for _, ext := range candidateExtensions {
			add(root + baseName + ext)
			if ref.ID != "" {
				add(root + ref.ID + ext)
			}
			add(root + strconv.Itoa(ref.OriginalIndex) + ext)
			add(root + string(ref.Source) + "_" + strconv.Itoa(ref.OriginalIndex) + ext)
		}
	}
	return paths
}
