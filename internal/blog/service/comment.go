package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
)

var ErrCommentNotFound = errors.New("comment_not_found")

// CommentService owns comments and replies. Content is encrypted before
// persisting, the same way posts are.
type CommentService struct {
	Store  store.Store
	Cipher *cryptox.FieldCipher
}

func (s *CommentService) decrypt(c *domain.Comment) error {
	content, err := s.Cipher.DecryptString(c.Content)
	if err != nil {
		return fmt.Errorf("decrypt content of comment %s: %w", c.ID, err)
	}
	c.Content = content
	return nil
}

// Create adds a top-level comment to a post.
func (s *CommentService) Create(ctx context.Context, postID, creatorID, content string) (domain.Comment, error) {
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	encContent, err := s.Cipher.EncryptString(content)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("encrypt content: %w", err)
	}

	comment := domain.Comment{
		ID:        idx.New().String(),
		PostID:    postID,
		CreatorID: creatorID,
		Content:   encContent,
	}
	if err := s.Store.Comments().CreateComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	comment.Content = content
	return comment, nil
}

// Reply adds a reply under an existing comment, inheriting its post.
func (s *CommentService) Reply(ctx context.Context, parentCommentID, creatorID, content string) (domain.Comment, error) {
	parent, err := s.Store.Comments().GetCommentByID(ctx, parentCommentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}

	encContent, err := s.Cipher.EncryptString(content)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("encrypt content: %w", err)
	}

	comment := domain.Comment{
		ID:        idx.New().String(),
		PostID:    parent.PostID,
		CreatorID: creatorID,
		ParentID:  &parent.ID,
		Content:   encContent,
	}
	if err := s.Store.Comments().CreateComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	comment.Content = content
	return comment, nil
}

// ListByPost returns all comments of a post in plaintext, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.Store.Comments().ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if err := s.decrypt(&comments[i]); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// Update replaces a comment's content. Only the creator may update, and
// identical content is rejected.
func (s *CommentService) Update(ctx context.Context, accountID, commentID, content string) (domain.Comment, error) {
	comment, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}
	if comment.CreatorID != accountID {
		return domain.Comment{}, ErrNotOwner
	}
	if err := s.decrypt(&comment); err != nil {
		return domain.Comment{}, err
	}
	if comment.Content == content {
		return domain.Comment{}, ErrSameContent
	}

	encContent, err := s.Cipher.EncryptString(content)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("encrypt content: %w", err)
	}
	if err := s.Store.Comments().UpdateCommentContent(ctx, commentID, encContent); err != nil {
		return domain.Comment{}, err
	}

	comment.Content = content
	return comment, nil
}

// Delete removes a comment and its replies. Only the creator may delete.
func (s *CommentService) Delete(ctx context.Context, accountID, commentID string) error {
	comment, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.CreatorID != accountID {
		return ErrNotOwner
	}

	return s.Store.Comments().DeleteComment(ctx, commentID)
}
