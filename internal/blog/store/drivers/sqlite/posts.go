package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type postsRepo struct {
	db *sql.DB
}

const postColumns = `id, creator_id, message, selected_file, tags, created_at, updated_at`

func scanPost(scan func(dest ...any) error) (domain.Post, error) {
	var (
		p    domain.Post
		tags string
	)

	err := scan(&p.ID, &p.CreatorID, &p.Message, &p.SelectedFile, &tags,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, err
	}

	p.Tags = splitFields(tags)
	return p, nil
}

func (r *postsRepo) loadLikes(ctx context.Context, p *domain.Post) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id FROM post_likes WHERE post_id = ? ORDER BY created_at`,
		p.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Likes = []string{}
	for rows.Next() {
		var accountID string
		if err := rows.Scan(&accountID); err != nil {
			return err
		}
		p.Likes = append(p.Likes, accountID)
	}
	return rows.Err()
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, creator_id, message, selected_file, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CreatorID, p.Message, p.SelectedFile, joinFields(p.Tags), now, now,
	)
	return err
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)

	p, err := scanPost(row.Scan)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	if err := r.loadLikes(ctx, &p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// sortColumn whitelists the sortable columns; anything unknown falls back
// to created_at.
func sortColumn(field string) string {
	switch field {
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

func (r *postsRepo) ListPosts(ctx context.Context, page domain.PageRequest) ([]domain.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "ASC"
	if page.SortDesc {
		order = "DESC"
	}
	offset := (page.Page - 1) * page.Limit

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts
		 ORDER BY `+sortColumn(page.SortField)+` `+order+`, id `+order+`
		 LIMIT ? OFFSET ?`,
		page.Limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range posts {
		if err := r.loadLikes(ctx, &posts[i]); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

func (r *postsRepo) UpdatePostContent(ctx context.Context, postID, message, selectedFile string, tags []string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET message = ?, selected_file = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		message, selectedFile, joinFields(tags), time.Now().UTC(), postID,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *postsRepo) DeletePost(ctx context.Context, postID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, postID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *postsRepo) AddLike(ctx context.Context, postID, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_likes (post_id, account_id, created_at)
		 VALUES (?, ?, ?)`,
		postID, accountID, time.Now().UTC(),
	)
	return err
}

func (r *postsRepo) RemoveLike(ctx context.Context, postID, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND account_id = ?`,
		postID, accountID,
	)
	return err
}
