package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// storageContract runs the same Get/Set/Remove checks against every backend
func storageContract(t *testing.T, st Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, KeyToken, "abc"))
	require.NoError(t, st.Set(ctx, KeyUser, `{"id":"1"}`))

	v, ok, err := st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, st.Set(ctx, KeyToken, "def"))
	v, _, _ = st.Get(ctx, KeyToken)
	assert.Equal(t, "def", v)

	require.NoError(t, st.Remove(ctx, KeyToken))
	_, ok, err = st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, _ = st.Get(ctx, KeyUser)
	assert.True(t, ok, "removing one key keeps the other")
	assert.Equal(t, `{"id":"1"}`, v)

	require.NoError(t, st.Remove(ctx, KeyToken), "removing a missing key is not an error")
}

func TestMemoryStorage(t *testing.T) {
	storageContract(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	storageContract(t, NewFileStorage(filepath.Join(t.TempDir(), "nested", "session.json")))
}

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	st, err := NewRedisStorage("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer st.Close()

	storageContract(t, st)
}

func TestRedisStorage_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	st, err := NewRedisStorage("redis://"+mr.Addr(), "ci:")
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Set(context.Background(), KeyToken, "abc"))

	got, err := mr.Get("ci:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
	assert.False(t, mr.Exists("biblio:session:token"))
}

func TestRedisStorage_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStorage("redis://"+addr, "")
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeSessionBackend, berrors.CodeOf(err))
}

func TestRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("not-a-url", "")
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeConfigInvalid, berrors.CodeOf(err))
}

func TestFileStorage_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStorage(path)

	require.NoError(t, st.Set(context.Background(), KeyToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStorage_RemoveLastKeyDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStorage(path)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyToken, "secret"))
	require.NoError(t, st.Remove(ctx, KeyToken))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	st := NewFileStorage(path)
	ctx := context.Background()

	_, _, err := st.Get(ctx, KeyUser)
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeSessionRead, berrors.CodeOf(err))

	require.NoError(t, st.Set(ctx, KeyToken, "fresh"), "a corrupt file is replaced on write")
	v, ok, err := st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}
