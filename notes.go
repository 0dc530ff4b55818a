package ankitab

import (
	"fmt"
	"sort"
	"time"

	"github.com/conorfennell/ankitab/internal/ankiid"
)

// NoteTable is the mutable working view over the notes of a collection.
type NoteTable struct {
	col    *Collection
	gen    uint64
	format tableFormat

	rows []*NoteRow
	byID map[int64]*NoteRow

	// Derived per-note card statistics, populated by MergeCardStats.
	stats map[int64]NoteStats
}

func newNoteTable(col *Collection) *NoteTable {
	t := &NoteTable{
		col:  col,
		gen:  col.gen,
		byID: make(map[int64]*NoteRow, len(col.origNotes)),
	}
	for _, raw := range col.origNotes {
		row := noteFromRaw(raw)
		t.rows = append(t.rows, row)
		t.byID[row.ID] = row
	}
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].ID < t.rows[j].ID })
	return t
}

// Len returns the number of rows.
func (t *NoteTable) Len() int { return len(t.rows) }

// Rows returns the rows in ID order. The slice is shared with the table;
// edits to the row structs are edits to the table.
func (t *NoteTable) Rows() []*NoteRow { return t.rows }

// Get returns the note with the given ID.
func (t *NoteTable) Get(id int64) (*NoteRow, bool) {
	row, ok := t.byID[id]
	return row, ok
}

// IDs returns all note IDs in ascending order.
func (t *NoteTable) IDs() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for _, row := range t.rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// Delete removes a note from the working table. The persisted row is
// removed on the next successful Write.
func (t *NoteTable) Delete(id int64) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	for i, row := range t.rows {
		if row.ID == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			break
		}
	}
	return true
}

// HasTag reports whether the note carries the given tag.
func (t *NoteTable) HasTag(id int64, tag string) bool {
	row, ok := t.byID[id]
	if !ok {
		return false
	}
	for _, have := range row.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// AddTag adds the given tags to a note, keeping existing order and
// appending only tags the note does not already carry, in sorted order.
func (t *NoteTable) AddTag(id int64, tags ...string) error {
	row, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	have := make(map[string]bool, len(row.Tags))
	for _, tag := range row.Tags {
		have[tag] = true
	}
	var missing []string
	for _, tag := range tags {
		if tag != "" && !have[tag] {
			missing = append(missing, tag)
			have[tag] = true
		}
	}
	sort.Strings(missing)
	row.Tags = append(row.Tags, missing...)
	return nil
}

// RemoveTag removes the given tags from a note. Tags the note does not
// carry are ignored.
func (t *NoteTable) RemoveTag(id int64, tags ...string) error {
	row, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	drop := make(map[string]bool, len(tags))
	for _, tag := range tags {
		drop[tag] = true
	}
	kept := row.Tags[:0]
	for _, tag := range row.Tags {
		if !drop[tag] {
			kept = append(kept, tag)
		}
	}
	row.Tags = kept
	return nil
}

// ListTags returns the sorted set of all tags in the table.
func (t *NoteTable) ListTags() []string {
	seen := make(map[string]bool)
	for _, row := range t.rows {
		for _, tag := range row.Tags {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// SetField sets a note field by its model field name.
func (t *NoteTable) SetField(id int64, name, value string) error {
	row, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	model, ok := t.col.meta.models[row.ModelID]
	if !ok {
		return fmt.Errorf("model %d of note %d: %w", row.ModelID, id, ErrNotFound)
	}
	if err := checkFieldCount(row.Fields, model); err != nil {
		return fmt.Errorf("note %d: %w", id, err)
	}
	for i, fname := range model.FieldNames {
		if fname == name {
			row.Fields[i] = value
			return nil
		}
	}
	return fmt.Errorf("field %q of model %q: %w", name, model.Name, ErrNotFound)
}

// Field reads a note field by its model field name.
func (t *NoteTable) Field(id int64, name string) (string, error) {
	row, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	model, ok := t.col.meta.models[row.ModelID]
	if !ok {
		return "", fmt.Errorf("model %d of note %d: %w", row.ModelID, id, ErrNotFound)
	}
	if err := checkFieldCount(row.Fields, model); err != nil {
		return "", fmt.Errorf("note %d: %w", id, err)
	}
	for i, fname := range model.FieldNames {
		if fname == name {
			return row.Fields[i], nil
		}
	}
	return "", fmt.Errorf("field %q of model %q: %w", name, model.Name, ErrNotFound)
}

// AddNote adds a new note of the named model. Fields are given by field
// name; names the model does not declare are an error, missing ones are
// filled with the empty string. Returns the freshly assigned note ID.
func (t *NoteTable) AddNote(modelName string, fields map[string]string, tags []string) (int64, error) {
	model, err := t.col.meta.modelByName(modelName)
	if err != nil {
		return 0, err
	}
	declared := make(map[string]bool, len(model.FieldNames))
	for _, name := range model.FieldNames {
		declared[name] = true
	}
	for name := range fields {
		if !declared[name] {
			return 0, fmt.Errorf("field %q of model %q: %w", name, model.Name, ErrNotFound)
		}
	}
	values := make([]string, len(model.FieldNames))
	for i, name := range model.FieldNames {
		values[i] = fields[name]
	}

	row := &NoteRow{
		ID:      t.newID(),
		GUID:    ankiid.GUID(),
		ModelID: model.ID,
		Mod:     time.Now().Unix(),
		USN:     -1,
		Tags:    UnpackTags(PackTags(tags)),
		Fields:  values,
	}
	t.rows = append(t.rows, row)
	t.byID[row.ID] = row
	Logger.Debug().Int64("nid", row.ID).Str("model", modelName).Msg("note added")
	return row.ID, nil
}

// newID returns a fresh time-based note ID, incremented past any ID the
// table already holds.
func (t *NoteTable) newID() int64 {
	id := time.Now().UnixMilli()
	for {
		if _, taken := t.byID[id]; !taken {
			return id
		}
		id++
	}
}
