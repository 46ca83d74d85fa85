package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
)

var (
	ErrPostNotFound = errors.New("post_not_found")
	ErrNotOwner     = errors.New("not_owner")
	ErrSameContent  = errors.New("same_content")
)

// Default pagination parameters for post listings.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PostService owns post CRUD and the like toggle. Free-text fields are
// encrypted before they reach the store and decrypted on the way out, so
// the store only ever sees ciphertext.
type PostService struct {
	Store  store.Store
	Cipher *cryptox.FieldCipher
}

func (s *PostService) encrypt(message, selectedFile string, tags []string) (string, string, []string, error) {
	encMessage, err := s.Cipher.EncryptString(message)
	if err != nil {
		return "", "", nil, fmt.Errorf("encrypt message: %w", err)
	}
	encFile, err := s.Cipher.EncryptString(selectedFile)
	if err != nil {
		return "", "", nil, fmt.Errorf("encrypt selected file: %w", err)
	}
	encTags, err := s.Cipher.EncryptSlice(tags)
	if err != nil {
		return "", "", nil, fmt.Errorf("encrypt tags: %w", err)
	}
	return encMessage, encFile, encTags, nil
}

func (s *PostService) decrypt(p *domain.Post) error {
	message, err := s.Cipher.DecryptString(p.Message)
	if err != nil {
		return fmt.Errorf("decrypt message of post %s: %w", p.ID, err)
	}
	file, err := s.Cipher.DecryptString(p.SelectedFile)
	if err != nil {
		return fmt.Errorf("decrypt selected file of post %s: %w", p.ID, err)
	}
	tags, err := s.Cipher.DecryptSlice(p.Tags)
	if err != nil {
		return fmt.Errorf("decrypt tags of post %s: %w", p.ID, err)
	}

	p.Message = message
	p.SelectedFile = file
	p.Tags = tags
	return nil
}

// Create persists a new post for the creator and returns it in plaintext
// form.
func (s *PostService) Create(ctx context.Context, creatorID, message, selectedFile string, tags []string) (domain.Post, error) {
	encMessage, encFile, encTags, err := s.encrypt(message, selectedFile, tags)
	if err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:           idx.New().String(),
		CreatorID:    creatorID,
		Message:      encMessage,
		SelectedFile: encFile,
		Tags:         encTags,
		Likes:        []string{},
	}
	if err := s.Store.Posts().CreatePost(ctx, post); err != nil {
		return domain.Post{}, err
	}

	post.Message = message
	post.SelectedFile = selectedFile
	post.Tags = tags
	return post, nil
}

// Get returns one post in plaintext form.
func (s *PostService) Get(ctx context.Context, postID string) (domain.Post, error) {
	post, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	if err := s.decrypt(&post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// List returns one page of posts, newest first by default, with the
// pagination envelope.
func (s *PostService) List(ctx context.Context, page domain.PageRequest) ([]domain.Post, domain.Pagination, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}

	posts, total, err := s.Store.Posts().ListPosts(ctx, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	for i := range posts {
		if err := s.decrypt(&posts[i]); err != nil {
			return nil, domain.Pagination{}, err
		}
	}

	pagination := domain.Pagination{
		CurrentPage: page.Page,
		TotalPages:  (total + page.Limit - 1) / page.Limit,
		TotalPosts:  total,
	}
	return posts, pagination, nil
}

// Update replaces a post's content. Only the creator may update, and
// submitting content identical to what is already stored is rejected.
func (s *PostService) Update(ctx context.Context, accountID, postID, message, selectedFile string, tags []string) (domain.Post, error) {
	existing, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if existing.CreatorID != accountID {
		return domain.Post{}, ErrNotOwner
	}
	if existing.Message == message &&
		existing.SelectedFile == selectedFile &&
		slices.Equal(existing.Tags, tags) {
		return domain.Post{}, ErrSameContent
	}

	encMessage, encFile, encTags, err := s.encrypt(message, selectedFile, tags)
	if err != nil {
		return domain.Post{}, err
	}
	if err := s.Store.Posts().UpdatePostContent(ctx, postID, encMessage, encFile, encTags); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}

	return s.Get(ctx, postID)
}

// Delete removes a post. Only the creator may delete.
func (s *PostService) Delete(ctx context.Context, accountID, postID string) error {
	post, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.CreatorID != accountID {
		return ErrNotOwner
	}

	if err := s.Store.Posts().DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// Like toggles the account's like on the post and mirrors the change into
// the account's favourites. The two updates touch separate records and are
// not transactional; each is individually atomic.
func (s *PostService) Like(ctx context.Context, accountID, postID string) (domain.Post, error) {
	post, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}

	if post.LikedBy(accountID) {
		err = s.Store.Posts().RemoveLike(ctx, postID, accountID)
	} else {
		err = s.Store.Posts().AddLike(ctx, postID, accountID)
	}
	if err != nil {
		return domain.Post{}, err
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.Post{}, err
	}
	if slices.Contains(account.Favourites, postID) {
		err = s.Store.Accounts().RemoveFavourite(ctx, accountID, postID)
	} else {
		err = s.Store.Accounts().AddFavourite(ctx, accountID, postID)
	}
	if err != nil {
		return domain.Post{}, err
	}

	return s.Get(ctx, postID)
}
