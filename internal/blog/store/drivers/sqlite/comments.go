package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
)

type commentsRepo struct {
	db *sql.DB
}

const commentColumns = `id, post_id, creator_id, parent_id, content, created_at, updated_at`

func scanComment(scan func(dest ...any) error) (domain.Comment, error) {
	var (
		c      domain.Comment
		parent sql.NullString
	)

	err := scan(&c.ID, &c.PostID, &c.CreatorID, &parent, &c.Content,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, err
	}

	c.ParentID = mapNullStringPtr(parent)
	return c, nil
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, creator_id, parent_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.CreatorID, mapOptionalString(c.ParentID), c.Content, now, now,
	)
	return err
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanComment(row.Scan)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ?
		 ORDER BY created_at, id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) UpdateCommentContent(ctx context.Context, commentID, content string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC(), commentID,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, commentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
