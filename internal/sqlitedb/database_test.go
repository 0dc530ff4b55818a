package sqlitedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.anki2"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errUnwrapAll(err)), "expected a not-exist error, got %v", err)
}

func errUnwrapAll(err error) error {
	for {
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}

func TestOpenRejectsNewerLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")
	db, err := Create(path)
	require.NoError(t, err)
	_, err = db.conn.Exec(`CREATE TABLE decks (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrUnsupportedLayout)
}

func TestNoteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")
	db, err := Create(path)
	require.NoError(t, err)
	defer db.Close()

	note := Note{
		ID: 1, GUID: "abc", ModelID: 1000, Mod: 12345, USN: -1,
		Tags: " hard ", Fields: "Front\x1fBack", SortField: "Front",
		Checksum: 42,
	}
	require.NoError(t, db.UpsertNotes([]Note{note}))

	got, err := db.ReadNotes()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, note, got[0])

	// Replace keeps the same ID.
	note.Fields = "Changed\x1fBack"
	require.NoError(t, db.UpsertNotes([]Note{note}))
	got, err = db.ReadNotes()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Changed\x1fBack", got[0].Fields)

	require.NoError(t, db.DeleteNotes([]int64{1}))
	got, err = db.ReadNotes()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCardAndReviewRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")
	db, err := Create(path)
	require.NoError(t, err)
	defer db.Close()

	card := Card{ID: 10, NoteID: 1, DeckID: 1, Queue: 2, Due: 55, Interval: 3, Factor: 2500, Reps: 7, Lapses: 1}
	require.NoError(t, db.UpsertCards([]Card{card}))
	cards, err := db.ReadCards()
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card, cards[0])

	rev := Review{ID: 99, CardID: 10, USN: -1, Ease: 3, Interval: 4, LastInterval: 2, Factor: 2500, TakenMS: 4000, Type: 1}
	require.NoError(t, db.UpsertReviews([]Review{rev}))
	revs, err := db.ReadReviews()
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, rev, revs[0])
}

func TestMetaRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")
	db, err := Create(path)
	require.NoError(t, err)
	defer db.Close()

	m, err := db.ReadMeta()
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "{}", m.Models)

	m.Mod = 777
	m.USN = -1
	m.Decks = `{"1": {"name": "Default"}}`
	require.NoError(t, db.WriteMeta(m))

	again, err := db.ReadMeta()
	require.NoError(t, err)
	assert.Equal(t, int64(777), again.Mod)
	assert.Equal(t, int64(-1), again.USN)
	assert.Contains(t, again.Decks, "Default")
}

func TestEnsureIndexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")
	db, err := Create(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.EnsureIndexes())
	// Idempotent.
	require.NoError(t, db.EnsureIndexes())
}
