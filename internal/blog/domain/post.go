package domain

import "time"

// Post is a single published entry. Message, SelectedFile and each Tag are
// held encrypted at rest and transparently decrypted by the service layer;
// the struct always carries plaintext in memory.
type Post struct {
	ID           string
	CreatorID    string
	Message      string
	SelectedFile string
	Tags         []string

	// Likes holds the ids of accounts that liked this post.
	Likes []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikedBy reports whether accountID already likes the post.
func (p Post) LikedBy(accountID string) bool {
	for _, id := range p.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}

// PageRequest describes pagination and sorting for post listings.
type PageRequest struct {
	Page      int    // 1-based
	Limit     int
	SortField string // "createdAt" or "updatedAt"
	SortDesc  bool
}

// Pagination is the listing envelope returned alongside a page of posts.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalPosts  int `json:"totalPosts"`
}
