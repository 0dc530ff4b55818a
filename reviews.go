package ankitab

import "sort"

// ReviewTable is the working view over the revlog of a collection. The
// review history is append-only in practice; the table still supports
// deletion so corrupt entries can be dropped.
type ReviewTable struct {
	col *Collection
	gen uint64

	rows []*ReviewRow
	byID map[int64]*ReviewRow
}

func newReviewTable(col *Collection) *ReviewTable {
	t := &ReviewTable{
		col:  col,
		gen:  col.gen,
		byID: make(map[int64]*ReviewRow, len(col.origRevs)),
	}
	for _, raw := range col.origRevs {
		row := reviewFromRaw(raw)
		t.rows = append(t.rows, row)
		t.byID[row.ID] = row
	}
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].ID < t.rows[j].ID })
	return t
}

// Len returns the number of rows.
func (t *ReviewTable) Len() int { return len(t.rows) }

// Rows returns the rows in ID order, which is chronological for revlog
// entries. The slice is shared with the table.
func (t *ReviewTable) Rows() []*ReviewRow { return t.rows }

// Get returns the review with the given ID.
func (t *ReviewTable) Get(id int64) (*ReviewRow, bool) {
	row, ok := t.byID[id]
	return row, ok
}

// IDs returns all review IDs in ascending order.
func (t *ReviewTable) IDs() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for _, row := range t.rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// ByCard returns the reviews of a card in chronological order.
func (t *ReviewTable) ByCard(cardID int64) []*ReviewRow {
	var out []*ReviewRow
	for _, row := range t.rows {
		if row.CardID == cardID {
			out = append(out, row)
		}
	}
	return out
}

// Delete removes a review from the working table.
func (t *ReviewTable) Delete(id int64) bool {
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
