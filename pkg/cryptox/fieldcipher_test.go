package cryptox

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFieldCipher(t *testing.T) {
	t.Run("rejects empty passphrase", func(t *testing.T) {
		_, err := NewFieldCipher("")
		require.Error(t, err)
	})

	t.Run("same passphrase derives the same key", func(t *testing.T) {
		a, err := NewFieldCipher("correct horse battery staple")
		require.NoError(t, err)
		b, err := NewFieldCipher("correct horse battery staple")
		require.NoError(t, err)

		enc, err := a.EncryptString("hello")
		require.NoError(t, err)
		dec, err := b.DecryptString(enc)
		require.NoError(t, err)
		require.Equal(t, "hello", dec)
	})
}

func TestFieldCipherRoundTrip(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"short", "hi"},
		{"empty", ""},
		{"exact block", strings.Repeat("a", 16)},
		{"multi block", strings.Repeat("lorem ipsum ", 40)},
		{"unicode", "привет мир 🌍"},
		{"contains separator", "left:right:more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := c.EncryptString(tt.plaintext)
			require.NoError(t, err)

			ivHex, cipherHex, ok := strings.Cut(enc, ":")
			require.True(t, ok, "encoded form should be ivHex:cipherHex")

			iv, err := hex.DecodeString(ivHex)
			require.NoError(t, err)
			require.Len(t, iv, 16)

			data, err := hex.DecodeString(cipherHex)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			require.Zero(t, len(data)%16, "ciphertext should be block aligned")

			dec, err := c.DecryptString(enc)
			require.NoError(t, err)
			require.Equal(t, tt.plaintext, dec)
		})
	}
}

func TestFieldCipherFreshIVPerCall(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	first, err := c.EncryptString("same plaintext")
	require.NoError(t, err)
	second, err := c.EncryptString("same plaintext")
	require.NoError(t, err)

	require.NotEqual(t, first, second,
		"the random IV must make repeated encryptions differ")
}

func TestFieldCipherDecryptEmptyPassthrough(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	dec, err := c.DecryptString("")
	require.NoError(t, err)
	require.Empty(t, dec)
}

func TestFieldCipherMalformedInput(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	tests := []struct {
		name    string
		encoded string
	}{
		{"no separator", "deadbeef"},
		{"bad iv hex", "zzzz:deadbeef"},
		{"short iv", "deadbeef:" + strings.Repeat("ab", 16)},
		{"bad cipher hex", strings.Repeat("ab", 16) + ":zzzz"},
		{"unaligned ciphertext", strings.Repeat("ab", 16) + ":deadbeef"},
		{"empty ciphertext", strings.Repeat("ab", 16) + ":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.DecryptString(tt.encoded)
			require.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}
}

func TestFieldCipherWrongKey(t *testing.T) {
	a, err := NewFieldCipher("passphrase-one")
	require.NoError(t, err)
	b, err := NewFieldCipher("passphrase-two")
	require.NoError(t, err)

	enc, err := a.EncryptString("secret message")
	require.NoError(t, err)

	// Decrypting with the wrong key almost always trips the padding check.
	dec, err := b.DecryptString(enc)
	if err == nil {
		require.NotEqual(t, "secret message", dec)
	} else {
		require.ErrorIs(t, err, ErrBadPadding)
	}
}

func TestFieldCipherTamperedCiphertext(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	enc, err := c.EncryptString("payload under test")
	require.NoError(t, err)

	// Flip the final byte of the last ciphertext block so the padding byte
	// decrypts to garbage.
	tampered := []byte(enc)
	last := tampered[len(tampered)-1]
	if last == 'f' {
		tampered[len(tampered)-1] = '0'
	} else {
		tampered[len(tampered)-1] = 'f'
	}

	dec, err := c.DecryptString(string(tampered))
	if err == nil {
		require.NotEqual(t, "payload under test", dec)
	} else {
		require.ErrorIs(t, err, ErrBadPadding)
	}
}

func TestFieldCipherSlices(t *testing.T) {
	c, err := NewFieldCipher("test-passphrase")
	require.NoError(t, err)

	t.Run("round trip preserves order", func(t *testing.T) {
		values := []string{"go", "distributed", "databases", ""}

		enc, err := c.EncryptSlice(values)
		require.NoError(t, err)
		require.Len(t, enc, len(values))
		for i, e := range enc {
			if values[i] != "" {
				require.NotEqual(t, values[i], e)
			}
		}

		dec, err := c.DecryptSlice(enc)
		require.NoError(t, err)
		require.Equal(t, values, dec)
	})

	t.Run("empty slice", func(t *testing.T) {
		enc, err := c.EncryptSlice(nil)
		require.NoError(t, err)
		require.Empty(t, enc)
	})
}
