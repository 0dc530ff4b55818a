package ankitab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNoteFields(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	require.NoError(t, cards.MergeNoteFields())

	front, ok := cards.NoteField(201, "Front")
	require.True(t, ok)
	assert.Equal(t, "hola", front)
	back, ok := cards.NoteField(201, "Back")
	require.True(t, ok)
	assert.Equal(t, "hello", back)

	// Both cards of note 102 see the same fields.
	for _, cid := range []int64{202, 203} {
		front, ok := cards.NoteField(cid, "Front")
		require.True(t, ok, "card %d", cid)
		assert.Equal(t, "adios", front)
	}

	// Unknown field name is a miss, not an empty string.
	_, ok = cards.NoteField(201, "Extra")
	assert.False(t, ok)
}

func TestMergeNoteFieldsTwiceIsRejected(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	require.NoError(t, cards.MergeNoteFields())
	require.ErrorIs(t, cards.MergeNoteFields(), ErrUnmergeableState)
}

func TestMergeRejectsStaleTable(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	// A snapshot refresh leaves previously handed-out tables stale.
	require.NoError(t, col.loadSnapshot())
	require.ErrorIs(t, cards.MergeNoteFields(), ErrUnmergeableState)
}

func TestUnmergeNoteFields(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	require.ErrorIs(t, cards.UnmergeNoteFields(), ErrUnmergeableState)

	require.NoError(t, cards.MergeNoteFields())
	require.NoError(t, cards.UnmergeNoteFields())

	_, ok := cards.NoteField(201, "Front")
	assert.False(t, ok)

	// Native again, so merging is allowed once more.
	require.NoError(t, cards.MergeNoteFields())
}

func TestMergeSkipsCardsWithoutResolvableNote(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	// Dangling card: its note is gone before the merge.
	require.True(t, col.Notes().Delete(101))
	require.NoError(t, cards.MergeNoteFields())

	// Not applicable is absence, not an empty value.
	_, ok := cards.NoteField(201, "Front")
	assert.False(t, ok)
	assert.Nil(t, cards.NoteFields(201))

	front, ok := cards.NoteField(202, "Front")
	require.True(t, ok)
	assert.Equal(t, "adios", front)
}

func TestMergeCardStats(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	_, ok := notes.Stats(101)
	require.False(t, ok)

	require.NoError(t, notes.MergeCardStats())

	stats, ok := notes.Stats(101)
	require.True(t, ok)
	assert.Equal(t, NoteStats{Cards: 1, Reps: 5, Lapses: 1, Reviews: 2}, stats)

	stats, ok = notes.Stats(102)
	require.True(t, ok)
	assert.Equal(t, NoteStats{Cards: 2}, stats)
}

func TestMergeCardStatsTwiceIsRejected(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	require.NoError(t, notes.MergeCardStats())
	require.ErrorIs(t, notes.MergeCardStats(), ErrUnmergeableState)

	require.NoError(t, notes.UnmergeCardStats())
	_, ok := notes.Stats(101)
	assert.False(t, ok)
}
