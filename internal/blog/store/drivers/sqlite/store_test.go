package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// newFileStore backs the database with a real file and a single pooled
// connection so concurrent calls share state without tripping SQLITE_BUSY.
func newFileStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	st.db.SetMaxOpenConns(1)
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedAccount(t *testing.T, st *Store, username string) domain.Account {
	t.Helper()

	a := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	}
	require.NoError(t, st.Accounts().CreateAccount(context.Background(), a))
	return a
}

func TestCreateAccountUniqueUsername(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	seedAccount(t, st, "alice")

	dup := domain.Account{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "dup@example.com",
		PasswordHash: "hash",
	}
	err := st.Accounts().CreateAccount(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetAccountNotFound(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	_, err := st.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Accounts().GetAccountByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementFailedAttempts(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	for want := 1; want <= 3; want++ {
		got, err := st.Accounts().IncrementFailedAttempts(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := st.Accounts().IncrementFailedAttempts(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementFailedAttemptsConcurrent(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Accounts().IncrementFailedAttempts(ctx, account.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, workers, got.FailedAttempts, "no increment may be lost")
}

func TestLockAndClearLockout(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	until := time.Now().Add(30 * time.Minute).UTC()
	require.NoError(t, st.Accounts().LockAccount(ctx, account.ID, until))
	_, err := st.Accounts().IncrementFailedAttempts(ctx, account.ID)
	require.NoError(t, err)

	got, err := st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LockedUntil)
	require.WithinDuration(t, until, *got.LockedUntil, time.Second)
	require.Equal(t, 1, got.FailedAttempts)

	require.NoError(t, st.Accounts().ClearLockout(ctx, account.ID))
	got, err = st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.Nil(t, got.LockedUntil)
	require.Zero(t, got.FailedAttempts)
}

func TestConsumeResetToken(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("exact match consumes", func(t *testing.T) {
		account := seedAccount(t, st, "alice")
		require.NoError(t, st.Accounts().SetResetToken(ctx, account.ID, "token-a", nil))

		ok, err := st.Accounts().ConsumeResetToken(ctx, account.ID, "token-a", now)
		require.NoError(t, err)
		require.True(t, ok)

		got, err := st.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.Nil(t, got.ResetToken)
		require.True(t, got.ResetPending)
	})

	t.Run("mismatch mutates nothing", func(t *testing.T) {
		account := seedAccount(t, st, "bob")
		require.NoError(t, st.Accounts().SetResetToken(ctx, account.ID, "token-b", nil))

		ok, err := st.Accounts().ConsumeResetToken(ctx, account.ID, "wrong", now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := st.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ResetToken)
		require.Equal(t, "token-b", *got.ResetToken)
		require.False(t, got.ResetPending)
	})

	t.Run("expired token does not consume", func(t *testing.T) {
		account := seedAccount(t, st, "carol")
		past := now.Add(-time.Minute)
		require.NoError(t, st.Accounts().SetResetToken(ctx, account.ID, "token-c", &past))

		ok, err := st.Accounts().ConsumeResetToken(ctx, account.ID, "token-c", now)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("future expiry still consumes", func(t *testing.T) {
		account := seedAccount(t, st, "dave")
		future := now.Add(time.Hour)
		require.NoError(t, st.Accounts().SetResetToken(ctx, account.ID, "token-d", &future))

		ok, err := st.Accounts().ConsumeResetToken(ctx, account.ID, "token-d", now)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestCompletePasswordReset(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	t.Run("refused without pending flag", func(t *testing.T) {
		ok, err := st.Accounts().CompletePasswordReset(ctx, account.ID, "new-hash")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("applies once while pending", func(t *testing.T) {
		require.NoError(t, st.Accounts().SetResetToken(ctx, account.ID, "token", nil))
		ok, err := st.Accounts().ConsumeResetToken(ctx, account.ID, "token", time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = st.Accounts().CompletePasswordReset(ctx, account.ID, "new-hash")
		require.NoError(t, err)
		require.True(t, ok)

		got, err := st.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.False(t, got.ResetPending)

		// Flag is down now, so a second completion matches nothing.
		ok, err = st.Accounts().CompletePasswordReset(ctx, account.ID, "another-hash")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestFavouritesToggle(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	post := domain.Post{ID: idx.New().String(), CreatorID: account.ID, Message: "enc"}
	require.NoError(t, st.Posts().CreatePost(ctx, post))

	require.NoError(t, st.Accounts().AddFavourite(ctx, account.ID, post.ID))
	// Adding twice is a no-op, not an error.
	require.NoError(t, st.Accounts().AddFavourite(ctx, account.ID, post.ID))

	got, err := st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, []string{post.ID}, got.Favourites)

	require.NoError(t, st.Accounts().RemoveFavourite(ctx, account.ID, post.ID))
	got, err = st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.Empty(t, got.Favourites)
}

func TestPostTagsRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	t.Run("tags survive storage", func(t *testing.T) {
		post := domain.Post{
			ID:        idx.New().String(),
			CreatorID: account.ID,
			Message:   "enc",
			Tags:      []string{"aabb:ccdd", "eeff:0011"},
		}
		require.NoError(t, st.Posts().CreatePost(ctx, post))

		got, err := st.Posts().GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		require.Equal(t, post.Tags, got.Tags)
	})

	t.Run("no tags yields empty slice", func(t *testing.T) {
		post := domain.Post{ID: idx.New().String(), CreatorID: account.ID, Message: "enc"}
		require.NoError(t, st.Posts().CreatePost(ctx, post))

		got, err := st.Posts().GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		require.Empty(t, got.Tags)
	})
}

func TestDeletePostCascades(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	account := seedAccount(t, st, "alice")

	post := domain.Post{ID: idx.New().String(), CreatorID: account.ID, Message: "enc"}
	require.NoError(t, st.Posts().CreatePost(ctx, post))
	require.NoError(t, st.Posts().AddLike(ctx, post.ID, account.ID))

	comment := domain.Comment{
		ID:        idx.New().String(),
		PostID:    post.ID,
		CreatorID: account.ID,
		Content:   "enc",
	}
	require.NoError(t, st.Comments().CreateComment(ctx, comment))

	require.NoError(t, st.Posts().DeletePost(ctx, post.ID))

	_, err := st.Comments().GetCommentByID(ctx, comment.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
