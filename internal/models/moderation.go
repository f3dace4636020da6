package models

import "strings"

// Decision is the canonical moderation outcome for a post.
type Decision string

const (
	DecisionSafe   Decision = "safe"
	DecisionReview Decision = "review"
	DecisionBlock  Decision = "block"
)

// ParseDecision maps a raw decision string (case-insensitive, including the
// synonyms "blocked" and "needs_review") to a canonical Decision.
// Unrecognized values default to safe.
func ParseDecision(raw string) Decision {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "block", "blocked":
		return DecisionBlock
	case "review", "needs_review":
		return DecisionReview
	default:
		return DecisionSafe
	}
}

// Flags expands the decision into the boolean triple carried by a
// ModerationRecord. Exactly one of the review/block flags may be set and
// either implies not-safe.
func (d Decision) Flags() (isSafe, needsReview, isBlocked bool) {
	switch d {
	case DecisionBlock:
		return false, false, true
	case DecisionReview:
		return false, true, false
	default:
		return true, false, false
	}
}

// ContentVerdict is the per-channel (text or image) moderation result.
type ContentVerdict struct {
	IsSafe     bool     `json:"is_safe"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
}

// CommentsVerdict is the moderation result for a post's comment section.
type CommentsVerdict struct {
	IsSafe       bool     `json:"is_safe"`
	Reasons      []string `json:"reasons"`
	Confidence   float64  `json:"confidence"`
	BlockedCount int      `json:"blocked_count"`
}

// OverallVerdict summarizes the top-level analysis of a verdict payload.
type OverallVerdict struct {
	Decision                Decision `json:"decision"`
	HasViolentContent       bool     `json:"has_violent_content"`
	HasInappropriateContent bool     `json:"has_inappropriate_content"`
	HasEmotionalContent     bool     `json:"has_emotional_content"`
	HasExcessiveSlang       bool     `json:"has_excessive_slang"`
}

// VerdictResults groups the per-channel verdicts of a moderation record.
type VerdictResults struct {
	Overall  OverallVerdict  `json:"overall"`
	Text     ContentVerdict  `json:"text"`
	Image    ContentVerdict  `json:"image"`
	Comments CommentsVerdict `json:"comments"`
}

// ModerationRecord is the canonical moderation state attached to every post.
// Invariant: isBlocked or needsReview each imply !isSafe, and isSafe implies
// neither is set.
type ModerationRecord struct {
	IsSafe          bool           `json:"is_safe"`
	NeedsReview     bool           `json:"needs_review"`
	IsBlocked       bool           `json:"is_blocked"`
	Reasons         []string       `json:"reasons"`
	Confidence      float64        `json:"confidence"`
	CommentsBlocked bool           `json:"comments_blocked"`
	Results         VerdictResults `json:"results"`
}

// DefaultModeration returns the all-safe record substituted when a post has
// no verdict in the moderation table.
func DefaultModeration() ModerationRecord {
	return ModerationRecord{
		IsSafe:     true,
		Confidence: 0.95,
		Reasons:    []string{},
		Results: VerdictResults{
			Overall:  OverallVerdict{Decision: DecisionSafe},
			Text:     ContentVerdict{IsSafe: true, Reasons: []string{}},
			Image:    ContentVerdict{IsSafe: true, Reasons: []string{}},
			Comments: CommentsVerdict{IsSafe: true, Reasons: []string{}},
		},
	}
}
