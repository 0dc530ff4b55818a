// Package sqlitedb is the raw access layer for Anki collection files. It
// reads and writes the notes, cards and revlog tables plus the col
// metadata row, without any consistency checking of its own; all
// integrity logic lives in the ankitab package on top of it.
package sqlitedb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrUnsupportedLayout is returned by Open for collections using the
// newer Anki layout with separate notetypes/decks tables.
var ErrUnsupportedLayout = errors.New("collection uses a newer database layout (separate decks table)")

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens an existing collection file. The file must already exist;
// opening never creates or migrates anything.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("collection file: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}

	// Trip SQLITE_BUSY early rather than on the first table read.
	if _, err := db.layoutTables(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	newer, err := db.hasDecksTable()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if newer {
		_ = conn.Close()
		return nil, ErrUnsupportedLayout
	}
	return db, nil
}

// Create creates a new empty collection at path, applying the legacy
// schema and a blank col row. Intended for tests and tooling.
func Create(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	_, err = conn.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, 0, 0, 0, 11, 0, 0, 0, '{}', '{}', '{}', '{}', '{}')
	`)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize col row: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the path the collection was opened from.
func (db *DB) Path() string {
	return db.path
}

// IsLocked reports whether err indicates the collection is held open by
// another process (typically Anki itself).
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func (db *DB) layoutTables() ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (db *DB) hasDecksTable() (bool, error) {
	names, err := db.layoutTables()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == "decks" {
			return true, nil
		}
	}
	return false, nil
}

// ReadNotes retrieves all rows of the notes table.
func (db *DB) ReadNotes() ([]Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data
		FROM notes
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(
			&n.ID, &n.GUID, &n.ModelID, &n.Mod, &n.USN,
			&n.Tags, &n.Fields, &n.SortField, &n.Checksum, &n.Flags, &n.Data,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ReadCards retrieves all rows of the cards table.
func (db *DB) ReadCards() ([]Card, error) {
	rows, err := db.conn.Query(`
		SELECT id, nid, did, ord, mod, usn, type, queue, due, ivl,
		       factor, reps, lapses, left, odue, odid, flags, data
		FROM cards
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(
			&c.ID, &c.NoteID, &c.DeckID, &c.Ord, &c.Mod, &c.USN,
			&c.Type, &c.Queue, &c.Due, &c.Interval, &c.Factor,
			&c.Reps, &c.Lapses, &c.Left, &c.OrigDue, &c.OrigDeckID,
			&c.Flags, &c.Data,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ReadReviews retrieves all rows of the revlog table.
func (db *DB) ReadReviews() ([]Review, error) {
	rows, err := db.conn.Query(`
		SELECT id, cid, usn, ease, ivl, lastIvl, factor, time, type
		FROM revlog
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read revlog: %w", err)
	}
	defer rows.Close()

	var revs []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID, &r.CardID, &r.USN, &r.Ease, &r.Interval,
			&r.LastInterval, &r.Factor, &r.TakenMS, &r.Type,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revlog row: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// ReadMeta retrieves the single col metadata row.
func (db *DB) ReadMeta() (*Meta, error) {
	var m Meta
	row := db.conn.QueryRow(`
		SELECT id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags
		FROM col
	`)
	err := row.Scan(
		&m.ID, &m.Created, &m.Mod, &m.SchemaMod, &m.Version, &m.Dirty,
		&m.USN, &m.LastSync, &m.Conf, &m.Models, &m.Decks, &m.DeckConfs, &m.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read col metadata: %w", err)
	}
	return &m, nil
}

// WriteMeta writes the col metadata row back.
func (db *DB) WriteMeta(m *Meta) error {
	_, err := db.conn.Exec(`
		UPDATE col
		SET crt = ?, mod = ?, scm = ?, ver = ?, dty = ?, usn = ?, ls = ?,
		    conf = ?, models = ?, decks = ?, dconf = ?, tags = ?
		WHERE id = ?
	`,
		m.Created, m.Mod, m.SchemaMod, m.Version, m.Dirty, m.USN, m.LastSync,
		m.Conf, m.Models, m.Decks, m.DeckConfs, m.Tags, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to write col metadata: %w", err)
	}
	return nil
}

// UpsertNotes inserts or replaces the given notes in one transaction.
func (db *DB) UpsertNotes(notes []Note) error {
	if len(notes) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare note upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		if _, err := stmt.Exec(
			n.ID, n.GUID, n.ModelID, n.Mod, n.USN,
			n.Tags, n.Fields, n.SortField, n.Checksum, n.Flags, n.Data,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert note %d: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertCards inserts or replaces the given cards in one transaction.
func (db *DB) UpsertCards(cards []Card) error {
	if len(cards) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
		                              ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare card upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		if _, err := stmt.Exec(
			c.ID, c.NoteID, c.DeckID, c.Ord, c.Mod, c.USN,
			c.Type, c.Queue, c.Due, c.Interval, c.Factor,
			c.Reps, c.Lapses, c.Left, c.OrigDue, c.OrigDeckID,
			c.Flags, c.Data,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert card %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertReviews inserts or replaces the given revlog rows in one transaction.
func (db *DB) UpsertReviews(revs []Review) error {
	if len(revs) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO revlog (id, cid, usn, ease, ivl, lastIvl, factor, time, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare revlog upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range revs {
		if _, err := stmt.Exec(
			r.ID, r.CardID, r.USN, r.Ease, r.Interval,
			r.LastInterval, r.Factor, r.TakenMS, r.Type,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert revlog row %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteNotes removes the given note IDs.
func (db *DB) DeleteNotes(ids []int64) error {
	return db.deleteFrom("notes", ids)
}

// DeleteCards removes the given card IDs.
func (db *DB) DeleteCards(ids []int64) error {
	return db.deleteFrom("cards", ids)
}

// DeleteReviews removes the given revlog IDs.
func (db *DB) DeleteReviews(ids []int64) error {
	return db.deleteFrom("revlog", ids)
}

func (db *DB) deleteFrom(table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`DELETE FROM ` + table + ` WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare delete from %s: %w", table, err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to delete row %d from %s: %w", id, table, err)
		}
	}
	return tx.Commit()
}

// EnsureIndexes recreates the search indexes Anki expects after a bulk
// write. It does not modify table contents.
func (db *DB) EnsureIndexes() error {
	if _, err := db.conn.Exec(indexDDL); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
