package xmltok

import (
	"bytes"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/arcaeus/saxml/internal/charclass"
	"github.com/arcaeus/saxml/internal/entityref"
)

// attrsPool reuses attribute slices across start_element events the same
// way xml.go pools []xml.Attr: the slice only needs to live
// for the duration of one synchronous handler call, since payload strings
// and slices are valid only for that call, so it can be recycled
// immediately afterward instead of left for the garbage collector.
var attrsPool = sync.Pool{
	New: func() interface{} {
		s := make([]Attribute, 0, 4)
		return &s
	},
}

// parseStartTag parses "<Name attr=\"val\" ...>" or the self-closing
// "<Name attr=\"val\" .../>" form.
func (p *Parser) parseStartTag(eof bool) error {
	data := p.buf.Remaining()
	end, selfClosing, badLT := scanTagSpan(data)
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated start tag")
		}
		return errNeedMore
	}
	if badLT != -1 {
		return newError(p.buf.Cursor()+badLT, BadAttribute, "'<' is not allowed inside an attribute value")
	}

	tagEndAbs := p.buf.Cursor() + end
	nameRegionEnd := tagEndAbs
	if selfClosing {
		nameRegionEnd--
	}
	nameStart := p.buf.Cursor() + 1
	spaceIdx := indexWhitespace(p.buf, nameStart, nameRegionEnd)
	nameEnd := nameRegionEnd
	if spaceIdx != -1 {
		nameEnd = spaceIdx
	}
	name := p.buf.Slice(nameStart, nameEnd)
	if err := validateName(name, nameStart); err != nil {
		return err
	}

	attrsPtr := attrsPool.Get().(*[]Attribute)
	*attrsPtr = (*attrsPtr)[:0]
	if spaceIdx != -1 {
		if err := p.parseAttributes(attrsPtr, spaceIdx, nameRegionEnd); err != nil {
			attrsPool.Put(attrsPtr)
			return err
		}
	}
	attrs := *attrsPtr

	p.buf.SeekTo(tagEndAbs + 1)
	if err := p.emit(Event{Kind: StartElement, Name: name, Attributes: attrs}); err != nil {
		*attrsPtr = attrs[:0]
		attrsPool.Put(attrsPtr)
		return err
	}
	*attrsPtr = attrs[:0]
	attrsPool.Put(attrsPtr)
	if p.done {
		return nil
	}

	if selfClosing {
		if err := p.emit(Event{Kind: EndElement, Name: name}); err != nil {
			return err
		}
		if p.done {
			return nil
		}
		if p.stack.len() == 0 {
			p.phase = phaseEpilog
		}
		return nil
	}
	p.stack.push(name)
	return nil
}

// parseEndTag parses "</Name S? >" and checks it against the open-element
// stack.
func (p *Parser) parseEndTag(eof bool) error {
	idx := bytes.IndexByte(p.buf.Remaining(), '>')
	if idx == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated end tag")
		}
		return errNeedMore
	}
	tagEndAbs := p.buf.Cursor() + idx
	nameStart := p.buf.Cursor() + 2
	raw := p.buf.SliceBytes(nameStart, tagEndAbs)
	trimmed := bytes.TrimRight(raw, " \t\r\n")
	for _, b := range trimmed {
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			return newError(p.buf.Cursor(), BadToken, "unexpected whitespace inside end tag name")
		}
	}
	name := p.buf.Slice(nameStart, nameStart+len(trimmed))
	if err := validateName(name, nameStart); err != nil {
		return err
	}
	top, ok := p.stack.top()
	if !ok || top != name {
		return newErrorf(p.buf.Cursor(), MismatchedEndTag, "end tag %q does not match open element %q", name, top)
	}
	p.stack.pop()
	p.buf.SeekTo(tagEndAbs + 1)
	if err := p.emit(Event{Kind: EndElement, Name: name}); err != nil {
		return err
	}
	if p.done {
		return nil
	}
	if p.stack.len() == 0 {
		p.phase = phaseEpilog
	}
	return nil
}

// scanTagSpan finds the unquoted '>' that closes a start tag beginning at
// data[0] == '<', honoring quoted attribute values (which may legally
// contain '>') the way a naive bytes.IndexByte(buf, '>') does not. It returns the index of that '>', whether the tag is self-closing
// (i.e. preceded by '/'), and the index of a raw '<' found inside a quoted
// value (-1 if none): a raw, unescaped '<' inside an attribute value is a
// well-formedness violation.
func scanTagSpan(data []byte) (end int, selfClosing bool, badLT int) {
	badLT = -1
	var quote byte
	for i := 1; i < len(data); i++ {
		b := data[i]
		if quote != 0 {
			if b == quote {
				quote = 0
			} else if b == '<' && badLT == -1 {
				badLT = i
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '>':
			return i, i > 1 && data[i-1] == '/', badLT
		}
	}
	return -1, false, badLT
}

// indexWhitespace returns the document-absolute offset of the first
// whitespace byte in [start, end), or -1 if none.
func indexWhitespace(buf interface {
	SliceBytes(int, int) []byte
}, start, end int) int {
	data := buf.SliceBytes(start, end)
	for i, b := range data {
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			return start + i
		}
	}
	return -1
}

// parseAttributes scans `Name S? = S? ("..."|'...')` pairs in
// [start, end), appending each onto *attrs. The whole span is already known
// to be fully buffered (the caller located the tag's closing '>' first), so
// no need-more-bytes handling is required here, every failure is a hard
// grammar error.
func (p *Parser) parseAttributes(attrs *[]Attribute, start, end int) error {
	data := p.buf.SliceBytes(start, end)
	i := 0
	for i < len(data) {
		for i < len(data) && isAttrSpace(data[i]) {
			i++
		}
		if i >= len(data) {
			break
		}
		keyStart := i
		for i < len(data) && data[i] != '=' && !isAttrSpace(data[i]) {
			i++
		}
		keyBytes := data[keyStart:i]
		keyPos := start + keyStart
		if len(keyBytes) == 0 {
			return newError(p.buf.Cursor(), BadAttribute, "expected attribute name")
		}
		if err := validateName(string(keyBytes), keyPos); err != nil {
			return err
		}
		for i < len(data) && isAttrSpace(data[i]) {
			i++
		}
		if i >= len(data) || data[i] != '=' {
			return newErrorf(p.buf.Cursor(), BadAttribute, "expected '=' after attribute %q", string(keyBytes))
		}
		i++
		for i < len(data) && isAttrSpace(data[i]) {
			i++
		}
		if i >= len(data) || (data[i] != '"' && data[i] != '\'') {
			return newErrorf(p.buf.Cursor(), BadAttribute, "expected quoted value for attribute %q", string(keyBytes))
		}
		quote := data[i]
		i++
		valStart := i
		for i < len(data) && data[i] != quote {
			if data[i] == '<' {
				return newError(p.buf.Cursor(), BadAttribute, "'<' is not allowed inside an attribute value")
			}
			i++
		}
		if i >= len(data) {
			return newErrorf(p.buf.Cursor(), BadAttribute, "unterminated value for attribute %q", string(keyBytes))
		}
		rawValue := data[valStart:i]
		i++
		if verr := validateCharData(rawValue); verr != nil {
			return newErrorf(p.buf.Cursor(), BadCharacter, "%v", verr)
		}
		value, nerr := normalizeAttrValue(rawValue, p.policy)
		if nerr != nil {
			return newErrorf(p.buf.Cursor(), BadReference, "%v", nerr)
		}
		*attrs = append(*attrs, Attribute{Name: string(keyBytes), Value: value})
	}
	for a := 0; a < len(*attrs); a++ {
		for b := a + 1; b < len(*attrs); b++ {
			if (*attrs)[a].Name == (*attrs)[b].Name {
				return newErrorf(p.buf.Cursor(), BadAttribute, "duplicate attribute %q", (*attrs)[a].Name)
			}
		}
	}
	return nil
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// normalizeAttrValue applies attribute-value whitespace normalization: a
// literal tab/CR/LF byte becomes a space, while a character reference that
// denotes one of those code points (e.g. "&#10;") survives as its literal
// code point, unnormalized.
func normalizeAttrValue(raw []byte, policy entityref.Policy) (string, error) {
	s := string(raw)
	if strings.IndexByte(s, '&') == -1 && strings.IndexAny(s, "\t\r\n") == -1 {
		return s, nil
	}
	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\t', '\r', '\n':
			out = append(out, ' ')
			i++
		case '&':
			replacement, next, err := entityref.ExpandOneAt(s, i, policy)
			if err != nil {
				return "", err
			}
			out = append(out, replacement...)
			i = next
		default:
			out = append(out, s[i])
			i++
		}
	}
	return string(out), nil
}

// validateName checks name against the NameStartChar/NameChar productions.
func validateName(name string, offset int) error {
	if name == "" {
		return newError(offset, BadName, "expected a name")
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError && size <= 1 {
		return newError(offset, BadCharacter, "invalid UTF-8 in name")
	}
	if !charclass.IsNameStartChar(r) {
		return newErrorf(offset, BadName, "%q is not a valid name start character", name[:size])
	}
	for i := size; i < len(name); {
		r, sz := utf8.DecodeRuneInString(name[i:])
		if r == utf8.RuneError && sz <= 1 {
			return newError(offset+i, BadCharacter, "invalid UTF-8 in name")
		}
		if !charclass.IsNameChar(r) {
			return newErrorf(offset+i, BadName, "name %q contains an invalid character", name)
		}
		i += sz
	}
	return nil
}
