package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.SetToken(ctx, "first"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", tok)

	require.NoError(t, s.SetToken(ctx, "second"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Clear(ctx), "clearing twice is fine")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "kept"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	tok, err := reopened.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", tok)
}
