package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsFreshIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.Add(ctx, map[string]any{"משימה": "a"})
	require.NoError(t, err)
	b, err := s.Add(ctx, map[string]any{"משימה": "b"})
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	docs, err := s.Stream(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, a, docs[0].ID)
	assert.Equal(t, b, docs[1].ID)
}

func TestSetMergeLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.Add(ctx, map[string]any{"משימה": "a", "הערות": "keep me"})
	require.NoError(t, err)

	require.NoError(t, s.SetMerge(ctx, id, map[string]any{"משימה": "renamed"}))

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", doc.Data["משימה"])
	assert.Equal(t, "keep me", doc.Data["הערות"])
}

func TestServerTimestampResolved(t *testing.T) {
	ctx := context.Background()
	s := New()
	fixed := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id, err := s.Add(ctx, map[string]any{"_updated_at": store.ServerTimestamp})
	require.NoError(t, err)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, fixed, doc.Data["_updated_at"])
}

func TestGetMissing(t *testing.T) {
	_, err := New().Get(context.Background(), "nope")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.Add(ctx, map[string]any{"a": 1})

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id))

	docs, _ := s.Stream(ctx)
	assert.Empty(t, docs)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")

	s, err := Open(path)
	require.NoError(t, err)
	id, _ := s.Add(ctx, map[string]any{"משימה": "persisted"})
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	doc, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", doc.Data["משימה"])
}

func TestWritesFlushedWithoutClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")

	s, err := Open(path)
	require.NoError(t, err)
	kept, err := s.Add(ctx, map[string]any{"משימה": "kept"})
	require.NoError(t, err)
	gone, err := s.Add(ctx, map[string]any{"משימה": "gone"})
	require.NoError(t, err)
	require.NoError(t, s.SetMerge(ctx, kept, map[string]any{"סטטוס": "בוצע"}))
	require.NoError(t, s.Delete(ctx, gone))

	other, err := Open(path)
	require.NoError(t, err)
	docs, err := other.Stream(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, kept, docs[0].ID)
	assert.Equal(t, "בוצע", docs[0].Data["סטטוס"])
}

func TestOpenUnreadableSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, store.IsConnection(err))
}
