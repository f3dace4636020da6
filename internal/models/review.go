package models

import "time"

// ReviewDecision records a manual moderation override entered by a reviewer.
// Overrides never mutate the canonical collection; they are joined into post
// detail responses at read time.
type ReviewDecision struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	PostID   string   `gorm:"not null;index" json:"post_id"`
	Decision Decision `gorm:"not null" json:"decision"`
	Note     string   `json:"note,omitempty"`
	Reviewer string   `json:"reviewer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
