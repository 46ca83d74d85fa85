package store

import (
	"context"
	"errors"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// The contract deliberately exposes only per-record atomic updates (set a
// field, increment a counter, compare-and-clear) and no cross-record
// transactions; services are written against that model, the way a document
// database would behave.
type Store interface {
	Accounts() Accounts
	Posts() Posts
	Comments() Comments

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// GetAccountByID returns an account by id, favourites included.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername is used during sign-in and reset requests.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by the app via
	// ULID). Returns ErrAlreadyExists when the username is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// IncrementFailedAttempts atomically bumps the failed-attempt counter
	// and returns the new value. Two concurrent failed sign-ins must never
	// lose an update, so this is a single in-database increment, not a
	// read-modify-write.
	IncrementFailedAttempts(ctx context.Context, accountID string) (int, error)

	// LockAccount sets the lock expiry instant.
	LockAccount(ctx context.Context, accountID string, until time.Time) error

	// ClearLockout zeroes the counter and clears the lock timestamp. Called
	// only on successful authentication.
	ClearLockout(ctx context.Context, accountID string) error

	// SetResetToken stores a freshly generated reset token, overwriting any
	// previous pending token. expiresAt is nil in legacy unbounded mode.
	SetResetToken(ctx context.Context, accountID, token string, expiresAt *time.Time) error

	// ConsumeResetToken atomically clears the stored token and raises the
	// reset-pending flag, but only when the supplied token matches exactly
	// and, if an expiry was recorded, has not passed. Reports whether the
	// record was updated; a mismatch mutates nothing.
	ConsumeResetToken(ctx context.Context, accountID, token string, now time.Time) (bool, error)

	// CompletePasswordReset sets the new hash and clears the reset token and
	// pending flag in one update, guarded on the pending flag still being
	// raised. Reports whether the record was updated.
	CompletePasswordReset(ctx context.Context, accountID, newHash string) (bool, error)

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error

	// AddFavourite / RemoveFavourite toggle a post in the account's
	// favourites list. Adding an existing favourite is a no-op.
	AddFavourite(ctx context.Context, accountID, postID string) error
	RemoveFavourite(ctx context.Context, accountID, postID string) error
}

type Posts interface {
	// CreatePost inserts a new post with already-encrypted field values.
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns a post by id, likes included.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns one page of posts plus the total post count.
	ListPosts(ctx context.Context, page domain.PageRequest) ([]domain.Post, int, error)

	// UpdatePostContent replaces the encrypted content fields and bumps
	// updated_at.
	UpdatePostContent(ctx context.Context, postID, message, selectedFile string, tags []string) error

	// DeletePost removes the post; likes and comments cascade per schema.
	DeletePost(ctx context.Context, postID string) error

	// AddLike / RemoveLike toggle an account in the post's likes list.
	// Adding an existing like is a no-op.
	AddLike(ctx context.Context, postID, accountID string) error
	RemoveLike(ctx context.Context, postID, accountID string) error
}

type Comments interface {
	// CreateComment inserts a comment or reply with encrypted content.
	CreateComment(ctx context.Context, c domain.Comment) error

	// GetCommentByID returns a comment by id.
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListCommentsByPost returns all comments of a post, oldest first.
	ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error)

	// UpdateCommentContent replaces the encrypted content and bumps
	// updated_at.
	UpdateCommentContent(ctx context.Context, commentID, content string) error

	// DeleteComment removes the comment and its replies.
	DeleteComment(ctx context.Context, commentID string) error
}
