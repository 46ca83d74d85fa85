package service

import (
	"testing"

	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "inkwell-test"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	signer, err := jwtx.NewHS256("test-secret", testIssuer)
	require.NoError(t, err)
	return signer
}

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	return mustCipher(t, "test-passphrase")
}

func mustCipher(t *testing.T, passphrase string) *cryptox.FieldCipher {
	t.Helper()

	cipher, err := cryptox.NewFieldCipher(passphrase)
	require.NoError(t, err)
	return cipher
}
