package ankitab

import "fmt"

// Validate checks every loaded working table for violations that would
// corrupt the store if written: duplicate or zero IDs, dangling foreign
// keys, references to unknown models or decks, and field counts that do
// not match the model. Those are fatal. A table still carrying merged
// derived columns is reported as a non-fatal warning.
//
// Returns nil when nothing is wrong; otherwise a *ValidationError
// carrying every violation found.
func (c *Collection) Validate() error {
	var violations []Violation

	if c.notes != nil {
		violations = append(violations, c.validateNotes()...)
	}
	if c.cards != nil {
		violations = append(violations, c.validateCards()...)
	}
	if c.revs != nil {
		violations = append(violations, c.validateReviews()...)
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func (c *Collection) validateNotes() []Violation {
	var out []Violation
	counts := countIDs(rowIDs(c.notes.rows, func(r *NoteRow) int64 { return r.ID }))
	for id, n := range counts {
		if n > 1 {
			out = append(out, Violation{Table: "notes", RowID: id, Fatal: true,
				Msg: fmt.Sprintf("duplicate note ID (%d rows)", n)})
		}
	}
	for _, row := range c.notes.rows {
		if row.ID == 0 {
			out = append(out, Violation{Table: "notes", RowID: 0, Fatal: true,
				Msg: "note ID must not be zero"})
			continue
		}
		model, ok := c.meta.models[row.ModelID]
		if !ok {
			out = append(out, Violation{Table: "notes", RowID: row.ID, Fatal: true,
				Msg: fmt.Sprintf("unknown model %d", row.ModelID)})
			continue
		}
		if len(row.Fields) != len(model.FieldNames) {
			out = append(out, Violation{Table: "notes", RowID: row.ID, Fatal: true,
				Msg: fmt.Sprintf("%d field(s), model %q declares %d",
					len(row.Fields), model.Name, len(model.FieldNames))})
		}
	}
	if c.notes.format.has(formatStatsMerged) {
		out = append(out, Violation{Table: "notes", Fatal: false,
			Msg: "table still carries merged card stats"})
	}
	return out
}

func (c *Collection) validateCards() []Violation {
	var out []Violation
	counts := countIDs(rowIDs(c.cards.rows, func(r *CardRow) int64 { return r.ID }))
	for id, n := range counts {
		if n > 1 {
			out = append(out, Violation{Table: "cards", RowID: id, Fatal: true,
				Msg: fmt.Sprintf("duplicate card ID (%d rows)", n)})
		}
	}

	// The note universe for FK checks: working notes when loaded (so a
	// card added alongside a new note passes), snapshot notes otherwise.
	noteExists := func(id int64) bool {
		if c.notes != nil {
			_, ok := c.notes.byID[id]
			return ok
		}
		_, ok := c.origNotes[id]
		return ok
	}

	for _, row := range c.cards.rows {
		if row.ID == 0 {
			out = append(out, Violation{Table: "cards", RowID: 0, Fatal: true,
				Msg: "card ID must not be zero"})
			continue
		}
		if !noteExists(row.NoteID) {
			out = append(out, Violation{Table: "cards", RowID: row.ID, Fatal: true,
				Msg: fmt.Sprintf("references missing note %d", row.NoteID)})
		}
		if _, ok := c.meta.decks[row.DeckID]; !ok {
			out = append(out, Violation{Table: "cards", RowID: row.ID, Fatal: true,
				Msg: fmt.Sprintf("references unknown deck %d", row.DeckID)})
		}
	}
	if c.cards.format.has(formatFieldsMerged) {
		out = append(out, Violation{Table: "cards", Fatal: false,
			Msg: "table still carries merged note fields"})
	}
	return out
}

func (c *Collection) validateReviews() []Violation {
	var out []Violation
	counts := countIDs(rowIDs(c.revs.rows, func(r *ReviewRow) int64 { return r.ID }))
	for id, n := range counts {
		if n > 1 {
			out = append(out, Violation{Table: "revlog", RowID: id, Fatal: true,
				Msg: fmt.Sprintf("duplicate review ID (%d rows)", n)})
		}
	}

	cardExists := func(id int64) bool {
		if c.cards != nil {
			_, ok := c.cards.byID[id]
			return ok
		}
		_, ok := c.origCards[id]
		return ok
	}

	for _, row := range c.revs.rows {
		if row.ID == 0 {
			out = append(out, Violation{Table: "revlog", RowID: 0, Fatal: true,
				Msg: "review ID must not be zero"})
			continue
		}
		if !cardExists(row.CardID) {
			out = append(out, Violation{Table: "revlog", RowID: row.ID, Fatal: true,
				Msg: fmt.Sprintf("references missing card %d", row.CardID)})
		}
	}
	return out
}

func rowIDs[R any](rows []*R, id func(*R) int64) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, id(row))
	}
	return ids
}
