package ankitab

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// Changes returns the pending row changes of every loaded working table,
// keyed by table name.
func (c *Collection) Changes() map[string]Changes {
	return c.pendingChanges()
}

// SummarizeChanges renders the pending changes of the loaded working
// tables as a small text table, the kind of overview worth printing
// before a Write with Modify set.
func (c *Collection) SummarizeChanges(w io.Writer) {
	pending := c.pendingChanges()

	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Added", "Modified", "Deleted"})
	for _, name := range names {
		ch := pending[name]
		table.Append([]string{
			name,
			fmt.Sprintf("%d", len(ch.Added)),
			fmt.Sprintf("%d", len(ch.Modified)),
			fmt.Sprintf("%d", len(ch.Deleted)),
		})
	}
	table.Render()
}
