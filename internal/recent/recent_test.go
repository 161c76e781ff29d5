package recent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterfinder/internal/platform/kv"
)

func TestLog_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the five most recent distinct terms", func(t *testing.T) {
		log := New(kv.NewInMemory())
		for _, term := range []string{"a", "b", "c", "d", "e", "f"} {
			_, err := log.Add(ctx, "client-1", term)
			require.NoError(t, err)
		}

		got, err := log.List(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"f", "e", "d", "c", "b"}, got)
	})

	t.Run("existing term is a no-op", func(t *testing.T) {
		log := New(kv.NewInMemory())
		for _, term := range []string{"ram", "sita", "ram"} {
			_, err := log.Add(ctx, "client-1", term)
			require.NoError(t, err)
		}

		got, err := log.List(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"sita", "ram"}, got)
	})

	t.Run("blank terms are ignored", func(t *testing.T) {
		log := New(kv.NewInMemory())
		got, err := log.Add(ctx, "client-1", "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("terms are trimmed", func(t *testing.T) {
		log := New(kv.NewInMemory())
		_, err := log.Add(ctx, "client-1", "  राम ")
		require.NoError(t, err)
		got, err := log.Add(ctx, "client-1", "राम")
		require.NoError(t, err)
		assert.Equal(t, []string{"राम"}, got)
	})

	t.Run("clients are isolated", func(t *testing.T) {
		log := New(kv.NewInMemory())
		_, err := log.Add(ctx, "client-1", "ram")
		require.NoError(t, err)

		got, err := log.List(ctx, "client-2")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLog_LoadSanitises(t *testing.T) {
	ctx := context.Background()
	store := kv.NewInMemory()
	log := New(store)

	t.Run("duplicates and blanks are dropped and the list is capped", func(t *testing.T) {
		raw := []byte(`[" a ","a","","b","c","d","e","f"]`)
		require.NoError(t, store.Set(ctx, Key("client-1"), raw, 0))

		got, err := log.List(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	})

	t.Run("corrupt data reads as empty", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, Key("client-2"), []byte(`{not json`), 0))

		got, err := log.List(ctx, "client-2")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLog_Clear(t *testing.T) {
	ctx := context.Background()
	log := New(kv.NewInMemory())
	_, err := log.Add(ctx, "client-1", "ram")
	require.NoError(t, err)

	require.NoError(t, log.Clear(ctx, "client-1"))
	got, err := log.List(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("redis down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("redis down")
}

func TestLog_StoreErrors(t *testing.T) {
	log := New(failingStore{})
	_, err := log.Add(context.Background(), "client-1", "ram")
	assert.Error(t, err)
	_, err = log.List(context.Background(), "client-1")
	assert.Error(t, err)
}
