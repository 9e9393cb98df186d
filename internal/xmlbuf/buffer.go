// Package xmlbuf implements the append-only byte region the tokenizer reads
// from. It exists so chunked input can be accumulated incrementally while
// still handing out zero-copy string views for already-consumed bytes, and
// so fully-consumed bytes can be discarded to keep memory bounded across a
// long chunk sequence.
package xmlbuf

import "unsafe"

// Buffer is an append-only byte region with an internal read cursor.
//
// It is NOT safe for concurrent use; a parse is strictly single-threaded
// (see the concurrency model in the package this is internal to).
type Buffer struct {
	// buf holds every byte appended since the last DiscardBefore, relative
	// to base (buf[0] corresponds to document offset base).
	buf []byte
	// base is the document-absolute offset of buf[0].
	base int
	// cursor is the document-absolute offset of the read position.
	cursor int
}

// New creates an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// unsafeString performs a zero-copy []byte->string conversion.
//
// This mirrors unsafe.go's unsafeString/String helpers. The bytes under a
// view are not changed while the handler call that received it runs, but
// DiscardBefore and a later Append may overwrite them afterwards, so
// aliasing a string over them is sound only as long as callers respect the
// "valid only for the duration of the handler call" contract documented on
// event payloads.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// Append copies chunk onto the end of the live region. chunk itself is not
// retained, so the caller may reuse or mutate it once Append returns.
func (b *Buffer) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	b.buf = append(b.buf, chunk...)
}

// Len returns the number of bytes available to read starting at Cursor.
func (b *Buffer) Len() int {
	return b.base + len(b.buf) - b.cursor
}

// Cursor returns the current document-absolute read offset.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// End returns the document-absolute offset one past the last appended byte.
func (b *Buffer) End() int {
	return b.base + len(b.buf)
}

// rel converts a document-absolute offset to an index into buf.
func (b *Buffer) rel(abs int) int {
	return abs - b.base
}

// At returns the byte at document-absolute offset i.
func (b *Buffer) At(i int) byte {
	return b.buf[b.rel(i)]
}

// Peek returns the byte at Cursor()+offset and whether it is available.
func (b *Buffer) Peek(offset int) (byte, bool) {
	i := b.rel(b.cursor) + offset
	if i < 0 || i >= len(b.buf) {
		return 0, false
	}
	return b.buf[i], true
}

// Slice returns a zero-copy string view of the document-absolute range
// [start, end). Both offsets must lie within the currently retained region.
func (b *Buffer) Slice(start, end int) string {
	return unsafeString(b.buf[b.rel(start):b.rel(end)])
}

// SliceBytes is Slice but returns the backing bytes directly, for callers
// that need to scan them (e.g. bytes.IndexByte) without the string cast.
func (b *Buffer) SliceBytes(start, end int) []byte {
	return b.buf[b.rel(start):b.rel(end)]
}

// Advance moves the cursor forward by n bytes.
func (b *Buffer) Advance(n int) {
	b.cursor += n
}

// SeekTo sets the cursor to an absolute document offset.
func (b *Buffer) SeekTo(abs int) {
	b.cursor = abs
}

// Remaining returns the unread suffix of the buffer as bytes, for scans
// that need to search past the cursor (IndexByte/Index).
func (b *Buffer) Remaining() []byte {
	return b.buf[b.rel(b.cursor):]
}

// IndexByte finds c at or after the cursor and returns its document-absolute
// offset, or -1 if c does not appear in the retained, already-appended
// bytes (which does not mean it will never appear; more input may still
// arrive).
func (b *Buffer) IndexByte(c byte) int {
	rest := b.Remaining()
	for i, v := range rest {
		if v == c {
			return b.cursor + i
		}
	}
	return -1
}

// DiscardBefore drops retained bytes strictly before the document-absolute
// offset abs, bounding memory use across a long chunk sequence. abs must be
// <= Cursor(); it is the caller's responsibility to ensure no live slice
// still references the discarded range (the continuation driver only calls
// this once a token has been fully consumed and dispatched).
func (b *Buffer) DiscardBefore(abs int) {
	if abs <= b.base {
		return
	}
	i := b.rel(abs)
	if i <= 0 {
		return
	}
	if i >= len(b.buf) {
		b.buf = b.buf[:0]
	} else {
		n := copy(b.buf, b.buf[i:])
		b.buf = b.buf[:n]
	}
	b.base = abs
}
