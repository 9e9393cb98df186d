package xmltok

import (
	"bytes"
	"unicode/utf8"

	"github.com/arcaeus/saxml/internal/xmlbuf"
)

// findString returns the document-absolute offset of the first occurrence
// of needle at or after the buffer's cursor, or -1 if not found among the
// currently retained bytes (which does not mean it will never appear).
func findString(buf *xmlbuf.Buffer, needle string) int {
	return findStringFrom(buf, needle, buf.Cursor())
}

// findStringFrom is findString starting the search at document-absolute
// offset from instead of the cursor (used when the caller has already
// confirmed a fixed-width prefix and wants to skip re-scanning it).
func findStringFrom(buf *xmlbuf.Buffer, needle string, from int) int {
	end := buf.End()
	if from > end {
		return -1
	}
	idx := bytes.Index(buf.SliceBytes(from, end), []byte(needle))
	if idx == -1 {
		return -1
	}
	return from + idx
}

func decodeRuneInString(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}
