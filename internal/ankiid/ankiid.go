// Package ankiid generates note identities compatible with Anki: base91
// globally unique IDs and the first-field checksum Anki uses to detect
// duplicate notes.
package ankiid

import (
	"crypto/sha1"
	"fmt"
	"html"
	"math/rand"
	"regexp"
	"strconv"
)

// Alphabet used by Anki for note GUIDs: all printable ASCII minus quotes,
// backslash and separators.
const guidTable = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// GUID returns a base91-encoded random 64-bit number, matching the note
// GUIDs generated by Anki itself.
func GUID() string {
	num := rand.Uint64()

	buf := make([]byte, 0, 11)
	for num > 0 {
		buf = append([]byte{guidTable[num%uint64(len(guidTable))]}, buf...)
		num /= uint64(len(guidTable))
	}
	return string(buf)
}

var (
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	reStyle   = regexp.MustCompile(`(?si)<style.*?>.*?</style>`)
	reScript  = regexp.MustCompile(`(?si)<script.*?>.*?</script>`)
	reTag     = regexp.MustCompile(`(?s)<.*?>`)
	reMedia   = regexp.MustCompile(`(?i)<img[^>]+src=["']?([^"'>]+)["']?[^>]*>`)
)

// stripHTMLMedia removes HTML markup but keeps media file names, so that a
// note whose first field is only an image still gets a usable checksum.
func stripHTMLMedia(s string) string {
	s = reMedia.ReplaceAllString(s, " $1 ")
	s = reComment.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reScript.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// FieldChecksum returns the 32-bit unsigned number Anki stores in the csum
// column: the first 8 hex digits of the SHA1 of the stripped first field.
func FieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(stripHTMLMedia(field)))
	hexed := fmt.Sprintf("%x", sum)
	n, err := strconv.ParseInt(hexed[:8], 16, 64)
	if err != nil {
		// Cannot happen: the input is always 8 hex digits.
		panic(err)
	}
	return n
}
