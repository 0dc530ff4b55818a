package ankitab

import (
	"fmt"
	"sort"
	"time"
)

// CardTable is the mutable working view over the cards of a collection.
type CardTable struct {
	col    *Collection
	gen    uint64
	format tableFormat

	rows []*CardRow
	byID map[int64]*CardRow

	// Derived note fields per card, keyed by card ID then field name.
	// Populated by MergeNoteFields; a card with no entry has no derived
	// fields (its note's model is unknown or its record malformed).
	noteFields map[int64]map[string]string
}

func newCardTable(col *Collection) *CardTable {
	t := &CardTable{
		col:  col,
		gen:  col.gen,
		byID: make(map[int64]*CardRow, len(col.origCards)),
	}
	for _, raw := range col.origCards {
		row := cardFromRaw(raw)
		t.rows = append(t.rows, row)
		t.byID[row.ID] = row
	}
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].ID < t.rows[j].ID })
	return t
}

// Len returns the number of rows.
func (t *CardTable) Len() int { return len(t.rows) }

// Rows returns the rows in ID order. The slice is shared with the table.
func (t *CardTable) Rows() []*CardRow { return t.rows }

// Get returns the card with the given ID.
func (t *CardTable) Get(id int64) (*CardRow, bool) {
	row, ok := t.byID[id]
	return row, ok
}

// IDs returns all card IDs in ascending order.
func (t *CardTable) IDs() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for _, row := range t.rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// Delete removes a card from the working table. The persisted row is
// removed on the next successful Write.
func (t *CardTable) Delete(id int64) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	delete(t.noteFields, id)
	for i, row := range t.rows {
		if row.ID == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			break
		}
	}
	return true
}

// ByNote returns the cards of a note in ID order.
func (t *CardTable) ByNote(noteID int64) []*CardRow {
	var out []*CardRow
	for _, row := range t.rows {
		if row.NoteID == noteID {
			out = append(out, row)
		}
	}
	return out
}

// MoveToDeck moves a card into the named deck.
func (t *CardTable) MoveToDeck(id int64, deckName string) error {
	row, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	deck, err := t.col.meta.deckByName(deckName)
	if err != nil {
		return err
	}
	row.DeckID = deck.ID
	return nil
}

// AddCard adds a new card for an existing note into the named deck with
// the given template ordinal. Returns the freshly assigned card ID.
func (t *CardTable) AddCard(noteID int64, deckName string, ord int64) (int64, error) {
	note, ok := t.col.Notes().byID[noteID]
	if !ok {
		return 0, fmt.Errorf("note %d: %w", noteID, ErrNotFound)
	}
	deck, err := t.col.meta.deckByName(deckName)
	if err != nil {
		return 0, err
	}
	if model, ok := t.col.meta.models[note.ModelID]; ok {
		known := false
		for _, have := range model.TemplateOrds {
			if int64(have) == ord {
				known = true
				break
			}
		}
		if !known {
			return 0, fmt.Errorf("template ord %d of model %q: %w", ord, model.Name, ErrNotFound)
		}
	}

	row := &CardRow{
		ID:     t.newID(),
		NoteID: noteID,
		DeckID: deck.ID,
		Ord:    ord,
		Mod:    time.Now().Unix(),
		USN:    -1,
		Type:   CardTypeLearning,
		Queue:  QueueNew,
	}
	t.rows = append(t.rows, row)
	t.byID[row.ID] = row
	Logger.Debug().Int64("cid", row.ID).Int64("nid", noteID).Str("deck", deckName).Msg("card added")
	return row.ID, nil
}

// NoteField reads one merged note field of a card. The second return is
// false when MergeNoteFields has not run, the card has no derived fields,
// or the field name is not part of the card's model.
func (t *CardTable) NoteField(id int64, name string) (string, bool) {
	fields, ok := t.noteFields[id]
	if !ok {
		return "", false
	}
	value, ok := fields[name]
	return value, ok
}

// NoteFields returns the merged note fields of a card, or nil when none
// are available.
func (t *CardTable) NoteFields(id int64) map[string]string {
	return t.noteFields[id]
}

func (t *CardTable) newID() int64 {
	id := time.Now().UnixMilli()
	for {
		if _, taken := t.byID[id]; !taken {
			return id
		}
		id++
	}
}
