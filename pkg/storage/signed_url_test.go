package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	key := NewKey()
	token, expiresAt, err := signer.Generate(key, "lecture notes.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	parsedKey, name, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, key, parsedKey)
	require.Equal(t, "lecture notes.pdf", name)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	start := time.Now()
	signer.now = func() time.Time { return start }
	key := NewKey()
	token, _, err := signer.Generate(key, "")
	require.NoError(t, err)

	signer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, _, _, err = signer.Parse(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	parsedKey, _, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, key, parsedKey)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate(NewKey(), "a.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = NewKey()
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = signer.Generate("../etc/passwd", "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
