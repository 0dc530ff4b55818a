package ankitab

import (
	"fmt"
	"strings"
)

// fieldSeparator joins the fields of a note inside the flds blob, exactly
// as Anki stores them.
const fieldSeparator = "\x1f"

// UnpackFields splits a note's field blob into its ordered field values.
// The empty blob unpacks to a single empty field, matching Anki's notion
// of a one-field note with no content.
func UnpackFields(blob string) []string {
	return strings.Split(blob, fieldSeparator)
}

// PackFields is the inverse of UnpackFields:
// PackFields(UnpackFields(b)) == b for every blob this codec produced.
func PackFields(fields []string) string {
	return strings.Join(fields, fieldSeparator)
}

// UnpackTags splits a note's tag blob into individual tags. Surrounding
// and repeated whitespace carries no meaning in Anki's format and is
// dropped.
func UnpackTags(blob string) []string {
	return strings.Fields(blob)
}

// PackTags joins tags back into the persisted blob form. Empty or
// whitespace-only tags are skipped, so the round trip through UnpackTags
// yields the same tag set even when it is not byte-identical.
func PackTags(tags []string) string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// checkFieldCount verifies that a note's unpacked fields line up with the
// field names its model declares.
func checkFieldCount(fields []string, model *Model) error {
	if len(fields) != len(model.FieldNames) {
		return fmt.Errorf("%w: note has %d field(s), model %q declares %d",
			ErrMalformedRecord, len(fields), model.Name, len(model.FieldNames))
	}
	return nil
}
