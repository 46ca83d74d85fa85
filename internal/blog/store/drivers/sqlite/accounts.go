package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type accountsRepo struct {
	db *sql.DB
}

const accountColumns = `id, username, email, password_hash, failed_attempts,
	locked_until, reset_token, reset_token_expires_at, reset_pending,
	created_at, updated_at`

func (r *accountsRepo) scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a            domain.Account
		lockedUntil  sql.NullTime
		resetToken   sql.NullString
		resetExpires sql.NullTime
	)

	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FailedAttempts,
		&lockedUntil, &resetToken, &resetExpires, &a.ResetPending,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.LockedUntil = mapNullTimePtr(lockedUntil)
	a.ResetToken = mapNullStringPtr(resetToken)
	a.ResetTokenExpiresAt = mapNullTimePtr(resetExpires)
	return a, nil
}

func (r *accountsRepo) loadFavourites(ctx context.Context, a *domain.Account) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id FROM account_favourites WHERE account_id = ? ORDER BY created_at`,
		a.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	a.Favourites = []string{}
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return err
		}
		a.Favourites = append(a.Favourites, postID)
	}
	return rows.Err()
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	a, err := r.scanAccount(row)
	if err != nil {
		return domain.Account{}, err
	}
	if err := r.loadFavourites(ctx, &a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)

	a, err := r.scanAccount(row)
	if err != nil {
		return domain.Account{}, err
	}
	if err := r.loadFavourites(ctx, &a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.PasswordHash, now, now,
	)
	return mapConstraint(err)
}

// IncrementFailedAttempts is a single in-database increment so two
// concurrent failed sign-ins cannot race on a read-modify-write.
func (r *accountsRepo) IncrementFailedAttempts(ctx context.Context, accountID string) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE accounts
		 SET failed_attempts = failed_attempts + 1, updated_at = ?
		 WHERE id = ?
		 RETURNING failed_attempts`,
		time.Now().UTC(), accountID,
	)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *accountsRepo) LockAccount(ctx context.Context, accountID string, until time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET locked_until = ?, updated_at = ? WHERE id = ?`,
		until.UTC(), time.Now().UTC(), accountID,
	)
	return err
}

func (r *accountsRepo) ClearLockout(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET failed_attempts = 0, locked_until = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), accountID,
	)
	return err
}

func (r *accountsRepo) SetResetToken(ctx context.Context, accountID, token string, expiresAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET reset_token = ?, reset_token_expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		token, mapOptionalTime(expiresAt), time.Now().UTC(), accountID,
	)
	return err
}

// ConsumeResetToken clears the token and raises the pending flag in one
// guarded update. A token mismatch (or lapsed expiry) matches zero rows and
// leaves the record untouched.
func (r *accountsRepo) ConsumeResetToken(ctx context.Context, accountID, token string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET reset_token = NULL, reset_token_expires_at = NULL, reset_pending = 1, updated_at = ?
		 WHERE id = ? AND reset_token = ?
		   AND (reset_token_expires_at IS NULL OR reset_token_expires_at > ?)`,
		now.UTC(), accountID, token, now.UTC(),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CompletePasswordReset applies the hash, flag and token changes together,
// guarded on the pending flag so a second consume attempt matches nothing.
func (r *accountsRepo) CompletePasswordReset(ctx context.Context, accountID, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET password_hash = ?, reset_pending = 0, reset_token = NULL,
		     reset_token_expires_at = NULL, updated_at = ?
		 WHERE id = ? AND reset_pending = 1`,
		newHash, time.Now().UTC(), accountID,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), accountID,
	)
	return err
}

func (r *accountsRepo) AddFavourite(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO account_favourites (account_id, post_id, created_at)
		 VALUES (?, ?, ?)`,
		accountID, postID, time.Now().UTC(),
	)
	return err
}

func (r *accountsRepo) RemoveFavourite(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM account_favourites WHERE account_id = ? AND post_id = ?`,
		accountID, postID,
	)
	return err
}
