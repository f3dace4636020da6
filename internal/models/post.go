package models

// Post is the canonical representation of one social post after the raw
// partition record has been merged with its moderation verdict and resolved
// image set. Instances are immutable once finalized by the assembler.
type Post struct {
	ID            string `json:"id"`
	NoteID        string `json:"note_id"`
	Source        Source `json:"source"`
	OriginalIndex int    `json:"original_index"`

	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`

	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`

	// Image is the first resolved image path, empty when the post has none.
	Image      string   `json:"image,omitempty"`
	Images     []string `json:"images"`
	ImageCount int      `json:"image_count"`

	LikedCount     int `json:"liked_count"`
	CollectedCount int `json:"collected_count"`
	CommentCount   int `json:"comment_count"`
	ShareCount     int `json:"share_count"`

	// Time is the publish time as a raw epoch value, seconds or milliseconds
	// depending on the upstream encoding. Zero when the record carried none.
	Time int64 `json:"time"`

	Location      string   `json:"location,omitempty"`
	Tags          []string `json:"tags"`
	SourceKeyword string   `json:"source_keyword,omitempty"`

	Comments []Comment `json:"comments"`

	NoteURL  string `json:"note_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`

	Moderation ModerationRecord `json:"moderation"`
}

// HasImages reports whether any image was resolved for the post.
func (p *Post) HasImages() bool {
	return p.Image != ""
}

// Comment is one comment attached to a canonical post. Comments with empty
// content are dropped during assembly.
type Comment struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	UserID     string `json:"user_id"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	Time       int64  `json:"time"`
	LikedCount int    `json:"liked_count"`
	ParentID   string `json:"parent_id"`
}

// TagCount pairs a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
