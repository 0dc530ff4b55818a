package ankitab

import "fmt"

// NoteStats aggregates the scheduling history of one note's cards,
// attached to the note table by MergeCardStats.
type NoteStats struct {
	Cards   int
	Reps    int64
	Lapses  int64
	Reviews int
}

// MergeNoteFields attaches the parent note's fields to every card as
// derived columns, one per field name of the note's model. Cards whose
// note is missing, whose model is unknown, or whose field count does not
// line up get no entry at all, so "not applicable" stays distinguishable
// from an empty field value.
//
// Merging twice, or merging a table that outlived a snapshot refresh,
// fails with ErrUnmergeableState.
func (t *CardTable) MergeNoteFields() error {
	if t.format.has(formatFieldsMerged) {
		return fmt.Errorf("note fields already merged: %w", ErrUnmergeableState)
	}
	if t.gen != t.col.gen {
		return fmt.Errorf("card table is from a stale snapshot: %w", ErrUnmergeableState)
	}
	notes := t.col.Notes()

	t.noteFields = make(map[int64]map[string]string)
	for _, card := range t.rows {
		note, ok := notes.byID[card.NoteID]
		if !ok {
			continue
		}
		model, ok := t.col.meta.models[note.ModelID]
		if !ok {
			continue
		}
		if len(note.Fields) != len(model.FieldNames) {
			continue
		}
		fields := make(map[string]string, len(model.FieldNames))
		for i, name := range model.FieldNames {
			fields[name] = note.Fields[i]
		}
		t.noteFields[card.ID] = fields
	}
	t.format |= formatFieldsMerged
	Logger.Debug().Int("cards", len(t.noteFields)).Msg("note fields merged into card table")
	return nil
}

// UnmergeNoteFields drops the derived note-field columns, returning the
// table to its native format.
func (t *CardTable) UnmergeNoteFields() error {
	if !t.format.has(formatFieldsMerged) {
		return fmt.Errorf("note fields not merged: %w", ErrUnmergeableState)
	}
	t.noteFields = nil
	t.format &^= formatFieldsMerged
	return nil
}

// MergeCardStats attaches per-note card statistics as derived columns:
// card count, total reps and lapses, and the number of revlog entries.
// Notes without cards get a zero-valued entry; the presence of the entry
// marks the note as covered by the merge.
//
// Merging twice, or merging a table that outlived a snapshot refresh,
// fails with ErrUnmergeableState.
func (t *NoteTable) MergeCardStats() error {
	if t.format.has(formatStatsMerged) {
		return fmt.Errorf("card stats already merged: %w", ErrUnmergeableState)
	}
	if t.gen != t.col.gen {
		return fmt.Errorf("note table is from a stale snapshot: %w", ErrUnmergeableState)
	}
	cards := t.col.Cards()
	reviews := t.col.Reviews()

	reviewsPerCard := make(map[int64]int, len(reviews.rows))
	for _, rev := range reviews.rows {
		reviewsPerCard[rev.CardID]++
	}

	t.stats = make(map[int64]NoteStats, len(t.rows))
	for _, note := range t.rows {
		t.stats[note.ID] = NoteStats{}
	}
	for _, card := range cards.rows {
		stats, ok := t.stats[card.NoteID]
		if !ok {
			continue
		}
		stats.Cards++
		stats.Reps += card.Reps
		stats.Lapses += card.Lapses
		stats.Reviews += reviewsPerCard[card.ID]
		t.stats[card.NoteID] = stats
	}
	t.format |= formatStatsMerged
	Logger.Debug().Int("notes", len(t.stats)).Msg("card stats merged into note table")
	return nil
}

// UnmergeCardStats drops the derived statistics columns.
func (t *NoteTable) UnmergeCardStats() error {
	if !t.format.has(formatStatsMerged) {
		return fmt.Errorf("card stats not merged: %w", ErrUnmergeableState)
	}
	t.stats = nil
	t.format &^= formatStatsMerged
	return nil
}

// Stats returns the merged statistics of a note. The second return is
// false until MergeCardStats has run.
func (t *NoteTable) Stats(id int64) (NoteStats, bool) {
	stats, ok := t.stats[id]
	return stats, ok
}
