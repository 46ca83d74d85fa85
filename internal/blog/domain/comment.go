package domain

import "time"

// Comment is a comment on a post, or a reply when ParentID is set.
// Content is encrypted at rest; the struct carries plaintext in memory.
type Comment struct {
	ID        string
	PostID    string
	CreatorID string
	ParentID  *string // nil for top-level comments
	Content   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
