package ankitab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTag(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	require.NoError(t, notes.AddTag(101, "leech", "vocab", "a-new-one"))

	row, _ := notes.Get(101)
	// Existing tags keep their position; new ones are appended sorted.
	assert.Equal(t, []string{"vocab", "a-new-one", "leech"}, row.Tags)

	require.ErrorIs(t, notes.AddTag(999, "x"), ErrNotFound)
}

func TestRemoveTag(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	require.NoError(t, notes.AddTag(101, "leech"))
	require.NoError(t, notes.RemoveTag(101, "vocab", "never-there"))

	row, _ := notes.Get(101)
	assert.Equal(t, []string{"leech"}, row.Tags)
}

func TestSetFieldAndField(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	require.NoError(t, notes.SetField(101, "Back", "hi there"))
	got, err := notes.Field(101, "Back")
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)

	require.ErrorIs(t, notes.SetField(101, "Middle", "x"), ErrNotFound)
	_, err = notes.Field(999, "Front")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetFieldRejectsMalformedNote(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	row, _ := notes.Get(101)
	row.Fields = []string{"only one"}

	require.ErrorIs(t, notes.SetField(101, "Front", "x"), ErrMalformedRecord)
}

func TestAddNote(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	id, err := notes.AddNote("Basic", map[string]string{"Front": "tres"}, []string{"numbers", ""})
	require.NoError(t, err)
	assert.Greater(t, id, int64(102))

	row, ok := notes.Get(id)
	require.True(t, ok)
	assert.Equal(t, []string{"tres", ""}, row.Fields)
	assert.Equal(t, []string{"numbers"}, row.Tags)
	assert.NotEmpty(t, row.GUID)
	assert.Equal(t, int64(-1), row.USN)
}

func TestAddNoteRejectsUnknownFieldAndModel(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	_, err := notes.AddNote("Basic", map[string]string{"Sideways": "x"}, nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = notes.AddNote("Cloze", nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddNoteIDsAreUnique(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		id, err := notes.AddNote("Basic", nil, nil)
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestListTags(t *testing.T) {
	col := newTestCollection(t)
	notes := col.Notes()

	require.NoError(t, notes.AddTag(102, "grammar"))
	assert.Equal(t, []string{"grammar", "vocab"}, notes.ListTags())
}

func TestMoveToDeck(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	require.NoError(t, cards.MoveToDeck(203, "Spanish"))
	row, _ := cards.Get(203)
	assert.Equal(t, testDeckSpan, row.DeckID)

	require.ErrorIs(t, cards.MoveToDeck(203, "French"), ErrNotFound)
	require.ErrorIs(t, cards.MoveToDeck(999, "Spanish"), ErrNotFound)
}

func TestAddCard(t *testing.T) {
	col := newTestCollection(t)
	cards := col.Cards()

	id, err := cards.AddCard(101, "Default", 0)
	require.NoError(t, err)

	row, ok := cards.Get(id)
	require.True(t, ok)
	assert.Equal(t, int64(101), row.NoteID)
	assert.Equal(t, testDeckDflt, row.DeckID)
	assert.Equal(t, QueueNew, row.Queue)
	assert.Equal(t, CardTypeLearning, row.Type)

	_, err = cards.AddCard(101, "Default", 7)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = cards.AddCard(999, "Default", 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQueueAndTypeStrings(t *testing.T) {
	assert.Equal(t, "suspended", QueueSuspended.String())
	assert.Equal(t, "new", QueueNew.String())
	assert.Equal(t, "review", CardTypeReview.String())
	assert.Equal(t, "unknown", CardQueue(9).String())
}
