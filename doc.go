// Package ankitab provides tabular, relational access to a local Anki
// collection file.
//
// A [Collection] is a single-user session over one collection.anki2 file.
// Opening it loads an immutable snapshot of the deck and model metadata;
// the three working tables ([NoteTable], [CardTable], [ReviewTable]) are
// built lazily from that snapshot on first access and can be filtered,
// enriched and mutated freely in memory.
//
// Derived columns, such as a card's parent note fields by field name or a
// note's aggregated review statistics, are attached with
// [CardTable.MergeNoteFields] and [NoteTable.MergeCardStats]. They are
// recomputed from native columns and never written back.
//
// All edits stay in memory until [Collection.Write] is called with
// Modify set. A write validates every loaded table, takes a timestamped
// backup of the whole collection file, and then updates only the rows
// that actually changed, so that Anki's own sync metadata on untouched
// rows survives. Any validation failure aborts the whole batch before
// the first row is written.
//
// The collection file is shared with the Anki application. Only one
// process can use it at a time; close Anki before opening a session and
// close the session before starting Anki.
package ankitab
