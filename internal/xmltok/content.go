package xmltok

import (
	"bytes"
	"unicode/utf8"

	"github.com/arcaeus/saxml/internal/charclass"
	"github.com/arcaeus/saxml/internal/entityref"
)

// stepContent is the Content state: it alternates CharData runs, child
// elements, CDATA sections, comments, PIs, and the end tag that eventually
// empties the open-element stack.
func (p *Parser) stepContent(eof bool) error {
	b, ok := p.peek(0)
	if !ok {
		return errNeedMore
	}
	if b != '<' {
		return p.parseCharData(eof)
	}
	next, ok := p.peek(1)
	if !ok {
		return errNeedMore
	}
	switch next {
	case '/':
		return p.parseEndTag(eof)
	case '!':
		return p.stepContentBang(eof)
	case '?':
		return p.parsePI(eof, true)
	default:
		return p.parseStartTag(eof)
	}
}

func (p *Parser) stepContentBang(eof bool) error {
	if p.available(len(cdataPrefix)) {
		if bytes.Equal(p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(cdataPrefix)), cdataPrefix) {
			return p.parseCDATA(eof)
		}
		if p.available(len(commentPrefix)) && bytes.Equal(p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(commentPrefix)), commentPrefix) {
			return p.parseComment(eof)
		}
		return newError(p.buf.Cursor(), BadToken, "expected comment or CDATA section")
	}
	if eof {
		return newError(p.buf.Cursor(), UnexpectedEOI, "truncated '<!' construct")
	}
	return errNeedMore
}

// parseCharData emits exactly one characters event for the run up to the
// next '<'.
func (p *Parser) parseCharData(eof bool) error {
	end := p.buf.IndexByte('<')
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unexpected end of input in character data")
		}
		return errNeedMore
	}
	raw := p.buf.SliceBytes(p.buf.Cursor(), end)
	if bytes.Contains(raw, []byte("]]>")) {
		return newError(p.buf.Cursor(), ForbiddenCDATAEnd, "literal ']]>' is not allowed in character data")
	}
	if verr := validateCharData(raw); verr != nil {
		return newErrorf(p.buf.Cursor(), BadCharacter, "%v", verr)
	}
	text, xerr := entityref.Expand(string(raw), p.policy)
	if xerr != nil {
		return newErrorf(p.buf.Cursor(), BadReference, "%v", xerr)
	}
	p.buf.SeekTo(end)
	return p.emit(Event{Kind: Characters, Text: text})
}

// parseCDATA emits the contents of a "<![CDATA[...]]>" section verbatim as
// a characters event: no reference expansion, no whitespace normalization.
func (p *Parser) parseCDATA(eof bool) error {
	end := findStringFrom(p.buf, "]]>", p.buf.Cursor()+len(cdataPrefix))
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated CDATA section")
		}
		return errNeedMore
	}
	raw := p.buf.SliceBytes(p.buf.Cursor()+len(cdataPrefix), end)
	if verr := validateCharData(raw); verr != nil {
		return newErrorf(p.buf.Cursor(), BadCharacter, "%v", verr)
	}
	text := string(raw)
	p.buf.SeekTo(end + 3)
	return p.emit(Event{Kind: Characters, Text: text})
}

// validateCharData checks that raw is well-formed UTF-8 and that every
// decoded code point is a legal XML Char.
func validateCharData(raw []byte) error {
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return invalidEncodingError(i)
		}
		if !charclass.IsChar(r) {
			return illegalCharError(r)
		}
		i += size
	}
	return nil
}

type encodingError struct{ offset int }

func (e *encodingError) Error() string { return "invalid UTF-8 encoding" }

func invalidEncodingError(offset int) error { return &encodingError{offset: offset} }

type charError struct{ r rune }

func (e *charError) Error() string { return "code point is not a legal XML character" }

func illegalCharError(r rune) error { return &charError{r: r} }
