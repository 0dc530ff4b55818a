package ankitab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackFields(t *testing.T) {
	assert.Equal(t, []string{"front", "back"}, UnpackFields("front\x1fback"))
	assert.Equal(t, []string{"", "back"}, UnpackFields("\x1fback"))
	// A blob with no separator is a single field, even when empty.
	assert.Equal(t, []string{""}, UnpackFields(""))
	assert.Equal(t, []string{"a", "", "c"}, UnpackFields("a\x1f\x1fc"))
}

func TestFieldRoundTrip(t *testing.T) {
	for _, blob := range []string{
		"",
		"one",
		"front\x1fback",
		"a\x1f\x1fc",
		"trailing\x1f",
	} {
		assert.Equal(t, blob, PackFields(UnpackFields(blob)), "blob %q", blob)
	}
}

func TestUnpackTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, UnpackTags("a b"))
	assert.Equal(t, []string{"a", "b"}, UnpackTags("  a   b "))
	assert.Empty(t, UnpackTags(""))
	assert.Empty(t, UnpackTags("   "))
}

func TestPackTagsDropsEmpties(t *testing.T) {
	assert.Equal(t, "a b", PackTags([]string{"a", "", "  ", "b"}))
	assert.Equal(t, "", PackTags(nil))
}

func TestTagRoundTripIsSetEquivalent(t *testing.T) {
	tags := []string{"vocab", "leech", "chapter::3"}
	assert.Equal(t, tags, UnpackTags(PackTags(tags)))
}

func TestCheckFieldCount(t *testing.T) {
	model := &Model{Name: "Basic", FieldNames: []string{"Front", "Back"}}

	require.NoError(t, checkFieldCount([]string{"a", "b"}, model))

	err := checkFieldCount([]string{"a"}, model)
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "Basic")
}
