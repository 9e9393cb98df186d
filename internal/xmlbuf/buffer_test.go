package xmlbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_AppendAndSlice(t *testing.T) {
	b := New()
	b.Append([]byte("hello"))
	b.Append([]byte(" world"))
	assert.Equal(t, "hello world", b.Slice(0, 11))
	assert.Equal(t, 11, b.Len())
	assert.Equal(t, 11, b.End())
}

func TestBuffer_AdvanceAndRemaining(t *testing.T) {
	b := New()
	b.Append([]byte("<a>text</a>"))
	assert.Equal(t, byte('<'), b.At(0))
	b.Advance(3)
	assert.Equal(t, 3, b.Cursor())
	assert.Equal(t, "text</a>", string(b.Remaining()))
}

func TestBuffer_IndexByte(t *testing.T) {
	b := New()
	b.Append([]byte("abc<def"))
	assert.Equal(t, 3, b.IndexByte('<'))
	assert.Equal(t, -1, b.IndexByte('z'))
}

func TestBuffer_Peek(t *testing.T) {
	b := New()
	b.Append([]byte("xy"))
	c, ok := b.Peek(0)
	assert.True(t, ok)
	assert.Equal(t, byte('x'), c)
	_, ok = b.Peek(5)
	assert.False(t, ok)
}

func TestBuffer_DiscardBefore(t *testing.T) {
	b := New()
	b.Append([]byte("0123456789"))
	b.Advance(5)
	b.DiscardBefore(5)
	assert.Equal(t, "56789", string(b.Remaining()))
	assert.Equal(t, 5, b.Cursor())
	assert.Equal(t, "56789", b.Slice(5, 10))
}

func TestBuffer_DiscardBefore_thenAppendAcrossBoundary(t *testing.T) {
	b := New()
	b.Append([]byte("0123"))
	b.Advance(4)
	b.DiscardBefore(4)
	b.Append([]byte("4567"))
	assert.Equal(t, "4567", b.Slice(4, 8))
	assert.Equal(t, 4, b.Len())
}

func TestBuffer_EmptyAppendNoop(t *testing.T) {
	b := New()
	b.Append(nil)
	assert.Equal(t, 0, b.Len())
}
