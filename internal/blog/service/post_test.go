package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/stretchr/testify/require"
)

func newPostFixture(t *testing.T) (context.Context, store.Store, *PostService, domain.Account, domain.Account) {
	t.Helper()
	ctx := context.Background()
	st := newTestStore(t)

	accounts := &AccountService{Store: st, Tokens: newTestSigner(t), Issuer: testIssuer}
	alice, _, err := accounts.Signup(ctx, "alice", "alice@example.com", "Val1dPass!", "Val1dPass!")
	require.NoError(t, err)
	bob, _, err := accounts.Signup(ctx, "bob", "bob@example.com", "Val1dPass!", "Val1dPass!")
	require.NoError(t, err)

	posts := &PostService{Store: st, Cipher: newTestCipher(t)}
	return ctx, st, posts, alice, bob
}

func TestPostCreateAndGet(t *testing.T) {
	ctx, st, posts, alice, _ := newPostFixture(t)

	created, err := posts.Create(ctx, alice.ID, "hello world", "data:image/png;base64,xyz", []string{"go", "blog"})
	require.NoError(t, err)
	require.Equal(t, "hello world", created.Message)
	require.Equal(t, []string{"go", "blog"}, created.Tags)

	got, err := posts.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "hello world", got.Message)
	require.Equal(t, "data:image/png;base64,xyz", got.SelectedFile)
	require.Equal(t, []string{"go", "blog"}, got.Tags)
	require.Empty(t, got.Likes)

	t.Run("content is ciphertext at rest", func(t *testing.T) {
		raw, err := st.Posts().GetPostByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotEqual(t, "hello world", raw.Message)
		require.Contains(t, raw.Message, ":", "stored form should be ivHex:cipherHex")
		for _, tag := range raw.Tags {
			require.NotContains(t, []string{"go", "blog"}, tag)
		}
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := posts.Get(ctx, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostList(t *testing.T) {
	ctx, _, posts, alice, _ := newPostFixture(t)

	for i := 0; i < 25; i++ {
		_, err := posts.Create(ctx, alice.ID, fmt.Sprintf("post %02d", i), "", nil)
		require.NoError(t, err)
	}

	t.Run("defaults fill in page and limit", func(t *testing.T) {
		page, pagination, err := posts.List(ctx, domain.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page, DefaultPageLimit)
		require.Equal(t, 1, pagination.CurrentPage)
		require.Equal(t, 3, pagination.TotalPages)
		require.Equal(t, 25, pagination.TotalPosts)
	})

	t.Run("newest first by default", func(t *testing.T) {
		page, _, err := posts.List(ctx, domain.PageRequest{Page: 1, Limit: 5, SortDesc: true})
		require.NoError(t, err)
		require.Len(t, page, 5)
		require.Equal(t, "post 24", page[0].Message)
	})

	t.Run("last page is partial", func(t *testing.T) {
		page, pagination, err := posts.List(ctx, domain.PageRequest{Page: 3, Limit: 10, SortDesc: true})
		require.NoError(t, err)
		require.Len(t, page, 5)
		require.Equal(t, 3, pagination.CurrentPage)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, pagination, err := posts.List(ctx, domain.PageRequest{Page: 9, Limit: 10})
		require.NoError(t, err)
		require.Empty(t, page)
		require.Equal(t, 25, pagination.TotalPosts)
	})

	t.Run("limit is capped", func(t *testing.T) {
		page, _, err := posts.List(ctx, domain.PageRequest{Page: 1, Limit: 1000})
		require.NoError(t, err)
		require.Len(t, page, 25)
	})
}

func TestPostUpdate(t *testing.T) {
	ctx, _, posts, alice, bob := newPostFixture(t)

	created, err := posts.Create(ctx, alice.ID, "original", "", []string{"go"})
	require.NoError(t, err)

	t.Run("only the creator may update", func(t *testing.T) {
		_, err := posts.Update(ctx, bob.ID, created.ID, "hijacked", "", []string{"go"})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("identical content is rejected", func(t *testing.T) {
		_, err := posts.Update(ctx, alice.ID, created.ID, "original", "", []string{"go"})
		require.ErrorIs(t, err, ErrSameContent)
	})

	t.Run("update replaces content", func(t *testing.T) {
		updated, err := posts.Update(ctx, alice.ID, created.ID, "revised", "", []string{"go", "edit"})
		require.NoError(t, err)
		require.Equal(t, "revised", updated.Message)
		require.Equal(t, []string{"go", "edit"}, updated.Tags)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := posts.Update(ctx, alice.ID, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "x", "", nil)
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostDelete(t *testing.T) {
	ctx, _, posts, alice, bob := newPostFixture(t)

	created, err := posts.Create(ctx, alice.ID, "doomed", "", nil)
	require.NoError(t, err)

	require.ErrorIs(t, posts.Delete(ctx, bob.ID, created.ID), ErrNotOwner)
	require.NoError(t, posts.Delete(ctx, alice.ID, created.ID))

	_, err = posts.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	require.ErrorIs(t, posts.Delete(ctx, alice.ID, created.ID), ErrPostNotFound)
}

func TestPostLikeToggle(t *testing.T) {
	ctx, st, posts, alice, bob := newPostFixture(t)

	created, err := posts.Create(ctx, alice.ID, "likeable", "", nil)
	require.NoError(t, err)

	t.Run("like adds the account and mirrors favourites", func(t *testing.T) {
		liked, err := posts.Like(ctx, bob.ID, created.ID)
		require.NoError(t, err)
		require.Equal(t, []string{bob.ID}, liked.Likes)

		account, err := st.Accounts().GetAccountByID(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, []string{created.ID}, account.Favourites)
	})

	t.Run("second like removes it again", func(t *testing.T) {
		unliked, err := posts.Like(ctx, bob.ID, created.ID)
		require.NoError(t, err)
		require.Empty(t, unliked.Likes)

		account, err := st.Accounts().GetAccountByID(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, account.Favourites)
	})

	t.Run("likes from different accounts accumulate", func(t *testing.T) {
		_, err := posts.Like(ctx, alice.ID, created.ID)
		require.NoError(t, err)
		liked, err := posts.Like(ctx, bob.ID, created.ID)
		require.NoError(t, err)
		require.Len(t, liked.Likes, 2)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := posts.Like(ctx, bob.ID, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostEncryptionKeyMatters(t *testing.T) {
	ctx, st, posts, alice, _ := newPostFixture(t)

	created, err := posts.Create(ctx, alice.ID, strings.Repeat("sensitive ", 10), "", nil)
	require.NoError(t, err)

	// A service wired with a different passphrase cannot read the content.
	other := &PostService{Store: st, Cipher: mustCipher(t, "wrong-passphrase")}
	got, err := other.Get(ctx, created.ID)
	if err == nil {
		require.NotEqual(t, strings.Repeat("sensitive ", 10), got.Message)
	}
}
