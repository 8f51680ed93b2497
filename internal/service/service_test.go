package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by one second on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func testCore(t *testing.T) *Core {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c, err := OpenInMemory(t.TempDir(), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
}

func TestOpenCreatesDataLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	c, err := Open(filepath.Join(dir, "synapse.db"), dir)
	require.NoError(t, err)
	defer c.Close()

	for _, sub := range []string{"notes", "attachments"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	_, err = os.Stat(filepath.Join(dir, "synapse.db"))
	require.NoError(t, err)
}

func TestIndependentInMemoryCores(t *testing.T) {
	ctx := context.Background()
	a := testCore(t)
	b := testCore(t)

	_, err := a.Notes.Create(ctx, "Only in A", "")
	require.NoError(t, err)

	notes, err := b.Notes.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestTouchNeverGoesBackwards(t *testing.T) {
	c := testCore(t)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, future, c.touch(future))
	assert.True(t, c.touch(time.Time{}).After(time.Time{}))
}

func TestNewIDShape(t *testing.T) {
	id := newID(kindNote)
	assert.Regexp(t, `^note-[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, id)
	assert.NotEqual(t, id, newID(kindNote))
}

func TestConcurrentUpdatesAndRefreshSerialize(t *testing.T) {
	c := testCore(t)
	ctx := context.Background()

	n, err := c.Notes.Create(ctx, "old", "stale")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := c.Notes.UpdateTitle(ctx, n.ID, "new")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := c.Notes.UpdateContent(ctx, n.ID, "fresh words here")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := c.Notes.Refresh(ctx, n.ContentPath)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := c.Notes.Get(ctx, n.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "fresh words here", got.Content)
	assert.Equal(t, int64(3), got.WordCount)
}
