package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoke-ai/convoke/core"
)

func TestInMemoryStorePutGet(t *testing.T) {
	store := NewInMemoryStore()
	sess := core.NewSession("s1")

	require.NoError(t, store.Put(sess))
	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get("nope")
	assert.Error(t, err)
}

func TestInMemoryStorePutNil(t *testing.T) {
	store := NewInMemoryStore()
	assert.Error(t, store.Put(nil))
}

func TestInMemoryStoreListSorted(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Put(core.NewSession("b")))
	require.NoError(t, store.Put(core.NewSession("a")))
	require.NoError(t, store.Put(core.NewSession("c")))

	assert.Equal(t, []string{"a", "b", "c"}, store.List())
}
