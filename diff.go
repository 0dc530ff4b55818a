package ankitab

import "github.com/conorfennell/ankitab/internal/sqlitedb"

// normalizeNote projects a persisted note into the form diffs compare:
// fields and tags re-packed through the codec, sort field and checksum
// zeroed since the write path recomputes both.
func normalizeNote(raw sqlitedb.Note) sqlitedb.Note {
	norm := noteFromRaw(raw).toRaw()
	norm.SortField = ""
	norm.Checksum = 0
	return norm
}

// Diff compares the working notes against the session snapshot. Only
// native columns take part; a note that was deleted and re-added under
// the same ID within the session counts as modified.
func (t *NoteTable) Diff() Changes {
	working := make(map[int64]sqlitedb.Note, len(t.rows))
	for _, row := range t.rows {
		working[row.ID] = row.toRaw()
	}
	original := make(map[int64]sqlitedb.Note, len(t.col.origNotes))
	for id, raw := range t.col.origNotes {
		original[id] = normalizeNote(raw)
	}
	return diffRows(working, original)
}

// Diff compares the working cards against the session snapshot. Derived
// note-field columns are not part of the comparison.
func (t *CardTable) Diff() Changes {
	working := make(map[int64]sqlitedb.Card, len(t.rows))
	for _, row := range t.rows {
		working[row.ID] = row.toRaw()
	}
	return diffRows(working, t.col.origCards)
}

// Diff compares the working reviews against the session snapshot.
func (t *ReviewTable) Diff() Changes {
	working := make(map[int64]sqlitedb.Review, len(t.rows))
	for _, row := range t.rows {
		working[row.ID] = row.toRaw()
	}
	return diffRows(working, t.col.origRevs)
}
