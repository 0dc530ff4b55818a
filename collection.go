package ankitab

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/conorfennell/ankitab/internal/sqlitedb"
)

// Collection is a session over one Anki store. Opening reads a full
// snapshot of the database; all reads and edits happen against working
// tables built from that snapshot, and nothing touches the file again
// until Write.
type Collection struct {
	path string
	db   *sqlitedb.DB

	mu sync.Mutex

	// gen counts snapshot refreshes. Tables remember the generation they
	// were built from so stale ones can be told apart after a Write.
	gen uint64

	meta      *meta
	origNotes map[int64]sqlitedb.Note
	origCards map[int64]sqlitedb.Card
	origRevs  map[int64]sqlitedb.Review

	notes *NoteTable
	cards *CardTable
	revs  *ReviewTable
}

// Open opens the Anki store at path and loads the session snapshot.
// A missing file fails with ErrNotFound, a store held by another process
// with ErrLockedStore.
func Open(path string) (*Collection, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("store %s: %w", path, ErrNotFound)
		}
		if sqlitedb.IsLocked(err) {
			return nil, fmt.Errorf("store %s: %w", path, ErrLockedStore)
		}
		return nil, err
	}

	c := &Collection{path: path, db: db}
	if err := c.loadSnapshot(); err != nil {
		db.Close()
		return nil, err
	}
	Logger.Debug().Str("path", path).
		Int("notes", len(c.origNotes)).
		Int("cards", len(c.origCards)).
		Int("reviews", len(c.origRevs)).
		Msg("collection opened")
	return c, nil
}

// Create makes a new empty store at path and opens it.
func Create(path string) (*Collection, error) {
	db, err := sqlitedb.Create(path)
	if err != nil {
		return nil, err
	}
	c := &Collection{path: path, db: db}
	if err := c.loadSnapshot(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// loadSnapshot reads every table into memory and invalidates any working
// tables built from the previous snapshot.
func (c *Collection) loadSnapshot() error {
	rawMeta, err := c.db.ReadMeta()
	if err != nil {
		if sqlitedb.IsLocked(err) {
			return fmt.Errorf("store %s: %w", c.path, ErrLockedStore)
		}
		return err
	}
	parsed, err := parseMeta(rawMeta)
	if err != nil {
		return err
	}

	notes, err := c.db.ReadNotes()
	if err != nil {
		return err
	}
	cards, err := c.db.ReadCards()
	if err != nil {
		return err
	}
	revs, err := c.db.ReadReviews()
	if err != nil {
		return err
	}

	c.meta = parsed
	c.origNotes = make(map[int64]sqlitedb.Note, len(notes))
	for _, n := range notes {
		c.origNotes[n.ID] = n
	}
	c.origCards = make(map[int64]sqlitedb.Card, len(cards))
	for _, cd := range cards {
		c.origCards[cd.ID] = cd
	}
	c.origRevs = make(map[int64]sqlitedb.Review, len(revs))
	for _, r := range revs {
		c.origRevs[r.ID] = r
	}

	c.gen++
	c.notes = nil
	c.cards = nil
	c.revs = nil
	return nil
}

// Close releases the underlying store. Pending working-table edits are
// discarded; only Write persists.
func (c *Collection) Close() error {
	return c.db.Close()
}

// Path returns the location of the underlying store.
func (c *Collection) Path() string { return c.path }

// Notes returns the working note table, building it from the session
// snapshot on first use.
func (c *Collection) Notes() *NoteTable {
	if c.notes == nil {
		c.notes = newNoteTable(c)
	}
	return c.notes
}

// Cards returns the working card table, building it from the session
// snapshot on first use.
func (c *Collection) Cards() *CardTable {
	if c.cards == nil {
		c.cards = newCardTable(c)
	}
	return c.cards
}

// Reviews returns the working review table, building it from the session
// snapshot on first use.
func (c *Collection) Reviews() *ReviewTable {
	if c.revs == nil {
		c.revs = newReviewTable(c)
	}
	return c.revs
}
