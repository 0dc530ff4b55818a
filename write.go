package ankitab

import (
	"errors"
	"time"

	"github.com/conorfennell/ankitab/internal/ankiid"
	"github.com/conorfennell/ankitab/internal/sqlitedb"
)

// WriteOptions controls how Write behaves.
type WriteOptions struct {
	// Modify must be set for anything to be persisted. The zero value is
	// a dry run: validate, log the pending changes, touch nothing.
	Modify bool

	// Force carries the write past non-fatal validation warnings, such
	// as a table still holding merged derived columns. Fatal violations
	// are never forceable.
	Force bool

	// BackupDir overrides where the pre-write backup is placed. Empty
	// means a "backups" directory next to the store.
	BackupDir string
}

// Write persists the working tables back to the store. The whole batch
// is validated first and aborted on any fatal violation, so a failed
// write never leaves partial changes. Before the first mutation a
// timestamped backup of the store is taken; if anything fails after
// that, the returned WriteError names the backup to restore from.
//
// Only rows that were added or modified are written, deleted rows are
// removed, and everything else is left byte-for-byte untouched. Written
// rows get fresh mod/usn stamps, new notes get GUIDs, and note sort
// fields and checksums are recomputed. On success the session snapshot
// is refreshed and the cached working tables are dropped.
func (c *Collection) Write(opts WriteOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Validate(); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.HasFatal() || !opts.Force {
			return err
		}
		Logger.Warn().Int("violations", len(verr.Violations)).
			Msg("forcing write past non-fatal validation warnings")
	}

	pending := c.pendingChanges()
	if !opts.Modify {
		for table, ch := range pending {
			Logger.Info().Str("table", table).
				Int("added", len(ch.Added)).
				Int("modified", len(ch.Modified)).
				Int("deleted", len(ch.Deleted)).
				Msg("dry run, not persisting")
		}
		return nil
	}

	dirty := c.meta.decksDirty
	for _, ch := range pending {
		if !ch.Empty() {
			dirty = true
		}
	}
	if !dirty {
		Logger.Debug().Msg("nothing to write")
		return nil
	}

	backupPath, err := c.Backup(opts.BackupDir)
	if err != nil {
		return err
	}

	if err := c.flush(pending); err != nil {
		return &WriteError{BackupPath: backupPath, Err: err}
	}
	if err := c.loadSnapshot(); err != nil {
		return &WriteError{BackupPath: backupPath, Err: err}
	}
	return nil
}

// pendingChanges diffs every loaded working table.
func (c *Collection) pendingChanges() map[string]Changes {
	pending := make(map[string]Changes)
	if c.notes != nil {
		pending["notes"] = c.notes.Diff()
	}
	if c.cards != nil {
		pending["cards"] = c.cards.Diff()
	}
	if c.revs != nil {
		pending["revlog"] = c.revs.Diff()
	}
	return pending
}

func (c *Collection) flush(pending map[string]Changes) error {
	now := time.Now()

	if ch, ok := pending["notes"]; ok && !ch.Empty() {
		var upserts []sqlitedb.Note
		for _, id := range append(append([]int64(nil), ch.Added...), ch.Modified...) {
			row := c.notes.byID[id]
			upserts = append(upserts, c.stampNote(row, now))
		}
		if err := c.db.UpsertNotes(upserts); err != nil {
			return err
		}
		if err := c.db.DeleteNotes(ch.Deleted); err != nil {
			return err
		}
	}

	if ch, ok := pending["cards"]; ok && !ch.Empty() {
		var upserts []sqlitedb.Card
		for _, id := range append(append([]int64(nil), ch.Added...), ch.Modified...) {
			row := c.cards.byID[id]
			row.Mod = now.Unix()
			row.USN = -1
			upserts = append(upserts, row.toRaw())
		}
		if err := c.db.UpsertCards(upserts); err != nil {
			return err
		}
		if err := c.db.DeleteCards(ch.Deleted); err != nil {
			return err
		}
	}

	if ch, ok := pending["revlog"]; ok && !ch.Empty() {
		var upserts []sqlitedb.Review
		for _, id := range append(append([]int64(nil), ch.Added...), ch.Modified...) {
			row := c.revs.byID[id]
			row.USN = -1
			upserts = append(upserts, row.toRaw())
		}
		if err := c.db.UpsertReviews(upserts); err != nil {
			return err
		}
		if err := c.db.DeleteReviews(ch.Deleted); err != nil {
			return err
		}
	}

	if c.meta.decksDirty {
		decks, err := c.meta.marshalDecks()
		if err != nil {
			return err
		}
		c.meta.raw.Decks = decks
	}
	c.meta.raw.Mod = now.UnixMilli()
	c.meta.raw.USN = -1
	if err := c.db.WriteMeta(c.meta.raw); err != nil {
		return err
	}
	c.meta.decksDirty = false

	if err := c.db.EnsureIndexes(); err != nil {
		return err
	}
	Logger.Info().Time("at", now).Msg("collection written")
	return nil
}

// stampNote prepares a working note for persisting: fresh mod/usn, a
// GUID if none was assigned, and the recomputed sort field and checksum.
func (c *Collection) stampNote(row *NoteRow, now time.Time) sqlitedb.Note {
	row.Mod = now.Unix()
	row.USN = -1
	if row.GUID == "" {
		row.GUID = ankiid.GUID()
	}
	raw := row.toRaw()
	if model, ok := c.meta.models[row.ModelID]; ok && len(row.Fields) == len(model.FieldNames) {
		sf := model.SortField
		if sf < 0 || sf >= len(row.Fields) {
			sf = 0
		}
		raw.SortField = row.Fields[sf]
	} else if len(row.Fields) > 0 {
		raw.SortField = row.Fields[0]
	}
	if len(row.Fields) > 0 {
		raw.Checksum = ankiid.FieldChecksum(row.Fields[0])
	}
	return raw
}
