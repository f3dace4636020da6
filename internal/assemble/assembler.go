// Package assemble converts raw partition records into canonical posts. The
// source files come from several scraper generations that disagree on field
// names, so every lookup goes through a candidate-field table instead of a
// single key.
package assemble

import (
	"fmt"
	"strings"

	"modboard/internal/models"
	"modboard/internal/moderation"
	"modboard/internal/normalize"
)

// Candidate field names per canonical post field, in priority order.
var (
	idFields        = []string{"note_id", "id"}
	noteIDFields    = []string{"note_id", "id"}
	contentFields   = []string{"desc", "content", "text", "description"}
	likedFields     = []string{"liked_count", "like_count", "likes"}
	collectedFields = []string{"collected_count", "collect_count"}
	commentCtFields = []string{"comment_count", "comments_count"}
	shareFields     = []string{"share_count", "shares"}
	locationFields  = []string{"ip_location", "location"}
	tagFields       = []string{"tag_list", "tags"}
	legacyImgFields = []string{"image_list", "image"}

	commentBodyFields = []string{"content", "text"}
	commentIDFields   = []string{"id", "comment_id"}
)

const defaultNickname = "anonymous"

// Draft is a post assembled from its raw record and verdict but not yet
// bound to its discovered images. Image resolution is asynchronous and
// happens elsewhere; Finalize attaches the result.
type Draft struct {
	post        models.Post
	legacyImage string
}

// Build assembles a draft from one raw partition record. It returns nil when
// the record has neither title nor content, which drops it from the dataset.
// A record with no verdict in the table gets the default safe moderation.
func Build(raw map[string]any, source models.Source, index int, verdicts map[string]any) *Draft {
	if raw == nil {
		return nil
	}

	title := strings.TrimSpace(normalize.FirstString(raw, "title"))
	content := strings.TrimSpace(normalize.FirstString(raw, contentFields...))
	if title == "" && content == "" {
		return nil
	}

	id := normalize.FirstString(raw, idFields...)
	if id == "" {
		id = fmt.Sprintf("%s_%d", source.IDPrefix(), index)
	}

	userID := normalize.FirstString(raw, "user_id")
	nickname := normalize.FirstString(raw, "nickname")
	if nickname == "" {
		nickname = defaultNickname
	}

	postType := normalize.FirstString(raw, "type")
	if postType == "" {
		postType = "normal"
	}

	post := models.Post{
		ID:             id,
		NoteID:         normalize.FirstString(raw, noteIDFields...),
		Source:         source,
		OriginalIndex:  index,
		Title:          title,
		Content:        content,
		Type:           postType,
		UserID:         userID,
		Nickname:       nickname,
		Avatar:         normalize.AvatarURL(normalize.FirstString(raw, "avatar"), firstNonEmpty(userID, nickname)),
		LikedCount:     normalize.SafeParseInt(normalize.FirstRaw(raw, likedFields...), 0),
		CollectedCount: normalize.SafeParseInt(normalize.FirstRaw(raw, collectedFields...), 0),
		CommentCount:   normalize.SafeParseInt(normalize.FirstRaw(raw, commentCtFields...), 0),
		ShareCount:     normalize.SafeParseInt(normalize.FirstRaw(raw, shareFields...), 0),
		Time:           normalize.Epoch(normalize.FirstRaw(raw, "time")),
		Location:       normalize.FirstString(raw, locationFields...),
		Tags:           normalize.Tags(normalize.FirstRaw(raw, tagFields...)),
		SourceKeyword:  normalize.FirstString(raw, "source_keyword"),
		Comments:       buildComments(normalize.FirstRaw(raw, "all_comments", "comments")),
		NoteURL:        normalize.FirstString(raw, "note_url"),
		VideoURL:       normalize.FirstString(raw, "video_url"),
	}

	ref := moderation.PostRef{ID: post.ID, Source: source, OriginalIndex: index}
	if verdict, ok := moderation.Match(verdicts, ref); ok {
		post.Moderation = moderation.Parse(verdict)
	} else {
		post.Moderation = models.DefaultModeration()
	}

	return &Draft{
		post:        post,
		legacyImage: normalize.FirstString(raw, legacyImgFields...),
	}
}

// ID returns the draft's post id, used as the image lookup key.
func (d *Draft) ID() string { return d.post.ID }

// Source returns the draft's partition.
func (d *Draft) Source() models.Source { return d.post.Source }

// Index returns the record's position within its partition file.
func (d *Draft) Index() int { return d.post.OriginalIndex }

// LegacyImage returns the raw single-image field, if the record carried one.
func (d *Draft) LegacyImage() string { return d.legacyImage }

// Finalize binds the resolved image paths and returns the finished post.
func (d *Draft) Finalize(imagePaths []string) *models.Post {
	post := d.post
	post.Images = imagePaths
	if post.Images == nil {
		post.Images = []string{}
	}
	post.ImageCount = len(post.Images)
	if post.ImageCount > 0 {
		post.Image = post.Images[0]
	}
	return &post
}

// buildComments normalizes the raw comment list, dropping entries with no
// body.
func buildComments(raw any) []models.Comment {
	items, ok := raw.([]any)
	if !ok {
		return []models.Comment{}
	}

	out := make([]models.Comment, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content := strings.TrimSpace(normalize.FirstString(rec, commentBodyFields...))
		if content == "" {
			continue
		}

		nickname := normalize.FirstString(rec, "nickname")
		if nickname == "" {
			nickname = defaultNickname
		}
		parentID := normalize.FirstString(rec, "parent_comment_id")
		if parentID == "" {
			parentID = "0"
		}

		out = append(out, models.Comment{
			ID:         normalize.FirstString(rec, commentIDFields...),
			Content:    content,
			UserID:     normalize.FirstString(rec, "user_id"),
			Nickname:   nickname,
			Avatar:     normalize.FirstString(rec, "avatar"),
			Time:       normalize.Epoch(normalize.FirstRaw(rec, "create_time", "time")),
			LikedCount: normalize.SafeParseInt(rec["liked_count"], 0),
			ParentID:   parentID,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
