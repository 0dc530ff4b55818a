package ankiid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGUID(t *testing.T) {
	t.Run("uses only alphabet characters", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			g := GUID()
			assert.NotEmpty(t, g)
			for _, c := range g {
				assert.True(t, strings.ContainsRune(guidTable, c), "unexpected character %q", c)
			}
		}
	})

	t.Run("collisions are unlikely", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			g := GUID()
			assert.False(t, seen[g], "duplicate guid %q", g)
			seen[g] = true
		}
	})
}

func TestFieldChecksum(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, FieldChecksum("Front content"), FieldChecksum("Front content"))
	})

	t.Run("ignores markup", func(t *testing.T) {
		assert.Equal(t, FieldChecksum("word"), FieldChecksum("<b>word</b>"))
		assert.Equal(t, FieldChecksum("word"), FieldChecksum("word<!-- note to self -->"))
	})

	t.Run("keeps media file names", func(t *testing.T) {
		assert.NotEqual(t,
			FieldChecksum(`<img src="a.jpg">`),
			FieldChecksum(`<img src="b.jpg">`))
	})

	t.Run("fits in 32 bits", func(t *testing.T) {
		c := FieldChecksum("anything")
		assert.GreaterOrEqual(t, c, int64(0))
		assert.Less(t, c, int64(1)<<32)
	})
}
