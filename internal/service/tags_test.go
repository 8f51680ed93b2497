package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse/synapse/internal/apperr"
)

func TestTagNameUnique(t *testing.T) {
	ctx := context.Background()
	c := testCore(t)

	_, err := c.Tags.Create(ctx, "golang")
	require.NoError(t, err)
	_, err = c.Tags.Create(ctx, "golang")
	requireKind(t, err, apperr.ErrConflict)

	tags, err := c.Tags.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, tg := range tags {
		if tg.Name == "golang" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err = c.Tags.Create(ctx, "Golang")
	require.NoError(t, err, "names are case-sensitive")

	_, err = c.Tags.Create(ctx, "")
	requireKind(t, err, apperr.ErrInvalidInput)
}

func TestTagUpdate(t *testing.T) {
	ctx := context.Background()
	c := testCore(t)
	a, _ := c.Tags.Create(ctx, "a")
	_, _ = c.Tags.Create(ctx, "b")

	taken := "b"
	_, err := c.Tags.Update(ctx, a.ID, TagUpdate{Name: &taken})
	requireKind(t, err, apperr.ErrConflict)

	name, color, icon := "renamed", "#ff0000", "star"
	got, err := c.Tags.Update(ctx, a.ID, TagUpdate{Name: &name, Color: &color, Icon: &icon})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	require.NotNil(t, got.Color)
	assert.Equal(t, "#ff0000", *got.Color)

	byName, err := c.Tags.GetByName(ctx, "renamed")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)
	assert.Equal(t, "star", *byName.Icon)

	none := ""
	got, err = c.Tags.Update(ctx, a.ID, TagUpdate{Color: &none})
	require.NoError(t, err)
	assert.Nil(t, got.Color)

	_, err = c.Tags.GetByName(ctx, "a")
	requireKind(t, err, apperr.ErrNotFound)
}

func TestTagDeleteCascades(t *testing.T) {
	ctx := context.Background()
	c := testCore(t)
	tg, _ := c.Tags.Create(ctx, "temp")
	n, _ := c.Notes.Create(ctx, "Note", "")
	require.NoError(t, c.Notes.AddTag(ctx, n.ID, tg.ID))

	notes, err := c.Tags.GetNotes(ctx, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{n.ID}, ids(notes))

	require.NoError(t, c.Tags.Delete(ctx, tg.ID))
	_, err = c.Tags.Get(ctx, tg.ID)
	requireKind(t, err, apperr.ErrNotFound)

	tags, err := c.Notes.GetTags(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	requireKind(t, c.Tags.Delete(ctx, tg.ID), apperr.ErrNotFound)
}

func TestTagGetNotesSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	c := testCore(t)
	tg, _ := c.Tags.Create(ctx, "t")
	keep, _ := c.Notes.Create(ctx, "keep", "")
	gone, _ := c.Notes.Create(ctx, "gone", "")
	require.NoError(t, c.Notes.AddTag(ctx, keep.ID, tg.ID))
	require.NoError(t, c.Notes.AddTag(ctx, gone.ID, tg.ID))
	require.NoError(t, c.Notes.Delete(ctx, gone.ID))

	notes, err := c.Tags.GetNotes(ctx, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids(notes))
}
