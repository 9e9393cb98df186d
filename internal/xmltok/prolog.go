package xmltok

import (
	"bytes"
	"strings"

	"github.com/arcaeus/saxml/internal/charclass"
)

var bom = [3]byte{0xEF, 0xBB, 0xBF}

func (p *Parser) stepBOM(eof bool) error {
	b, ok := p.peek(0)
	if !ok {
		if eof {
			p.phase = phaseProlog
			return nil
		}
		return errNeedMore
	}
	if b != bom[0] {
		p.phase = phaseProlog
		return nil
	}
	if !p.available(3) {
		if eof {
			p.phase = phaseProlog
			return nil
		}
		return errNeedMore
	}
	b1, _ := p.peek(1)
	b2, _ := p.peek(2)
	if b1 == bom[1] && b2 == bom[2] {
		p.buf.Advance(3)
	}
	p.phase = phaseProlog
	return nil
}

var xmlDeclPrefix = []byte("<?xml")

// stepProlog recognizes an optional leading "<?xml ...?>" declaration and
// always emits exactly one start_document event, with a default empty
// Prolog if no declaration is present.
func (p *Parser) stepProlog(eof bool) error {
	if !p.available(len(xmlDeclPrefix)) {
		if eof {
			return p.finishPrologNoDecl()
		}
		return errNeedMore
	}
	prefix := p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(xmlDeclPrefix))
	if !bytes.Equal(prefix, xmlDeclPrefix) {
		return p.finishPrologNoDecl()
	}
	next, ok := p.peek(len(xmlDeclPrefix))
	if !ok {
		if eof {
			return p.finishPrologNoDecl()
		}
		return errNeedMore
	}
	if next != ' ' && next != '\t' && next != '\r' && next != '\n' && next != '?' {
		// "<?xml" followed by a non-whitespace, non-"?" byte names a PI
		// whose target merely starts with "xml" (e.g. "<?xmlstuff ...?>"),
		// which is legal anywhere but the declaration position, not the
		// declaration itself.
		return p.finishPrologNoDecl()
	}
	end := findString(p.buf, "?>")
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated XML declaration")
		}
		return errNeedMore
	}
	declStart := p.buf.Cursor() + len(xmlDeclPrefix)
	body := p.buf.SliceBytes(declStart, end)
	prolog, perr := parseDeclBody(body, declStart)
	if perr != nil {
		return perr
	}
	p.buf.SeekTo(end + 2)
	p.phase = phaseMisc
	return p.emit(Event{Kind: StartDocument, Prolog: prolog})
}

func (p *Parser) finishPrologNoDecl() error {
	p.phase = phaseMisc
	return p.emit(Event{Kind: StartDocument, Prolog: Prolog{}})
}

// parseDeclBody parses the "version=... encoding=... standalone=..." body
// of an XML declaration (the bytes strictly between "<?xml" and "?>").
// offset is the document-absolute position body[0] corresponds to, for
// error reporting.
func parseDeclBody(body []byte, offset int) (Prolog, error) {
	var prolog Prolog
	pairs, err := scanDeclPairs(body)
	if err != nil {
		return prolog, newErrorf(offset, BadDeclaration, "%v", err)
	}
	seenVersion := false
	for _, kv := range pairs {
		switch kv.key {
		case "version":
			seenVersion = true
			if kv.value != "1.0" {
				return prolog, newErrorf(offset, BadDeclaration, "unsupported XML version %q", kv.value)
			}
			prolog.Version = kv.value
		case "encoding":
			if !strings.EqualFold(kv.value, "utf-8") {
				return prolog, newErrorf(offset, UnsupportedEncoding, "declared encoding %q is not supported, only UTF-8 (%s)", kv.value, describeEncoding(kv.value))
			}
			prolog.Encoding = kv.value
			prolog.HasEncoding = true
		case "standalone":
			if kv.value != "yes" && kv.value != "no" {
				return prolog, newErrorf(offset, BadDeclaration, "standalone must be \"yes\" or \"no\", got %q", kv.value)
			}
			prolog.Standalone = kv.value == "yes"
			prolog.HasStandalone = true
		default:
			return prolog, newErrorf(offset, BadDeclaration, "unexpected attribute %q in XML declaration", kv.key)
		}
	}
	if !seenVersion {
		return prolog, newErrorf(offset, BadDeclaration, "missing required \"version\" in XML declaration")
	}
	return prolog, nil
}

type declPair struct{ key, value string }

// scanDeclPairs parses `key="value"` pairs separated by whitespace, the
// same offset-scanning shape as parseAttributes in element.go, but over
// an already-fully-buffered span (the declaration body is always bounded
// by a "?>" the caller already located) so no resumability is needed here.
func scanDeclPairs(body []byte) ([]declPair, error) {
	var pairs []declPair
	i := 0
	for i < len(body) {
		for i < len(body) && isDeclSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}
		keyStart := i
		for i < len(body) && body[i] != '=' && !isDeclSpace(body[i]) {
			i++
		}
		key := string(body[keyStart:i])
		for i < len(body) && isDeclSpace(body[i]) {
			i++
		}
		if i >= len(body) || body[i] != '=' {
			return nil, newError(0, BadDeclaration, "expected '=' after \""+key+"\"")
		}
		i++
		for i < len(body) && isDeclSpace(body[i]) {
			i++
		}
		if i >= len(body) || (body[i] != '"' && body[i] != '\'') {
			return nil, newError(0, BadDeclaration, "expected quoted value for \""+key+"\"")
		}
		quote := body[i]
		i++
		valStart := i
		for i < len(body) && body[i] != quote {
			i++
		}
		if i >= len(body) {
			return nil, newError(0, BadDeclaration, "unterminated quoted value for \""+key+"\"")
		}
		value := string(body[valStart:i])
		i++
		pairs = append(pairs, declPair{key: key, value: value})
	}
	return pairs, nil
}

func isDeclSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// stepMisc consumes whitespace, comments, PIs, and a DOCTYPE until the '<'
// that opens the root element.
func (p *Parser) stepMisc(eof bool) error {
	if done, err := p.skipWhitespace(eof); err != nil || done {
		return err
	}
	b, ok := p.peek(0)
	if !ok {
		return errNeedMore
	}
	if b != '<' {
		return newErrorf(p.buf.Cursor(), BadToken, "unexpected character %q before root element", b)
	}
	next, ok := p.peek(1)
	if !ok {
		return errNeedMore
	}
	switch next {
	case '!':
		return p.stepMiscBang(eof)
	case '?':
		return p.parsePI(eof, true)
	default:
		p.phase = phaseContent
		return nil
	}
}

var doctypePrefix = []byte("<!DOCTYPE")
var commentPrefix = []byte("<!--")

func (p *Parser) stepMiscBang(eof bool) error {
	if p.available(len(commentPrefix)) {
		if bytes.Equal(p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(commentPrefix)), commentPrefix) {
			return p.parseComment(eof)
		}
	} else if !eof {
		return errNeedMore
	}
	if p.available(len(doctypePrefix)) {
		if bytes.Equal(p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(doctypePrefix)), doctypePrefix) {
			return p.skipDoctype(eof)
		}
		return newError(p.buf.Cursor(), BadToken, "expected comment or DOCTYPE after '<!'")
	}
	if eof {
		return newError(p.buf.Cursor(), UnexpectedEOI, "truncated '<!' construct")
	}
	return errNeedMore
}

func (p *Parser) skipDoctype(eof bool) error {
	data := p.buf.Remaining()
	depth := 0
	for i, b := range data {
		switch b {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth == 0 {
				p.buf.Advance(i + 1)
				return nil
			}
		}
	}
	if eof {
		return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated DOCTYPE declaration")
	}
	return errNeedMore
}

// parseComment skips a "<!-- ... -->" comment. The body runs up to the first
// "-->" and must not contain "--"; a body that does is rejected as
// bad_token.
func (p *Parser) parseComment(eof bool) error {
	bodyStart := p.buf.Cursor() + len(commentPrefix)
	end := findStringFrom(p.buf, "-->", bodyStart)
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated comment")
		}
		return errNeedMore
	}
	if idx := bytes.Index(p.buf.SliceBytes(bodyStart, end), []byte("--")); idx != -1 {
		return newError(bodyStart+idx, BadToken, "\"--\" is not allowed inside a comment")
	}
	p.buf.SeekTo(end + 3)
	return nil
}

var cdataPrefix = []byte("<![CDATA[")

// parsePI skips a "<?target inst?>" processing instruction. reserved, when
// true, rejects a target of "xml" (case-insensitive) as a bad_declaration:
// a processing instruction with that target is only legal as the document's
// actual XML declaration, never elsewhere, and this helper is only reached
// outside that one declaration position.
func (p *Parser) parsePI(eof bool, reserved bool) error {
	end := findStringFrom(p.buf, "?>", p.buf.Cursor()+2)
	if end == -1 {
		if eof {
			return newError(p.buf.Cursor(), UnexpectedEOI, "unterminated processing instruction")
		}
		return errNeedMore
	}
	targetStart := p.buf.Cursor() + 2
	body := p.buf.SliceBytes(targetStart, end)
	targetEnd := bytes.IndexAny(body, " \t\r\n")
	target := body
	if targetEnd != -1 {
		target = body[:targetEnd]
	}
	if reserved && strings.EqualFold(string(target), "xml") {
		return newError(p.buf.Cursor(), BadDeclaration, "processing instruction target \"xml\" is reserved")
	}
	if len(target) == 0 || !charclass.IsNameStartChar(firstRune(target)) {
		return newErrorf(p.buf.Cursor(), BadName, "invalid processing instruction target")
	}
	p.buf.SeekTo(end + 2)
	return nil
}

func firstRune(b []byte) rune {
	r, _ := decodeRuneInString(string(b))
	return r
}

// stepEpilog consumes whitespace, comments, and PIs after the root element
// closes, then emits end_document once input truly ends. Reaching EOF here
// is the ONLY point at which running out of bytes is success rather than
// an error.
func (p *Parser) stepEpilog(eof bool) error {
	if done, err := p.skipWhitespace(eof); err != nil || done {
		return err
	}
	b, ok := p.peek(0)
	if !ok {
		if eof {
			p.phase = phaseDone
			p.done = true
			return p.emit(Event{Kind: EndDocument})
		}
		return errNeedMore
	}
	if b != '<' {
		return newErrorf(p.buf.Cursor(), BadToken, "unexpected character %q after root element", b)
	}
	next, ok := p.peek(1)
	if !ok {
		return errNeedMore
	}
	switch next {
	case '!':
		if p.available(len(commentPrefix)) && bytes.Equal(p.buf.SliceBytes(p.buf.Cursor(), p.buf.Cursor()+len(commentPrefix)), commentPrefix) {
			return p.parseComment(eof)
		}
		return newError(p.buf.Cursor(), BadToken, "only comments are permitted after the root element")
	case '?':
		return p.parsePI(eof, true)
	default:
		return newError(p.buf.Cursor(), BadToken, "a document must contain exactly one root element")
	}
}

// skipWhitespace advances past a run of XML S, used by Misc and Epilog. If
// every retained byte was whitespace and eof is false, it returns done=true
// with errNeedMore ("wait for more"). Otherwise (a non-whitespace byte is
// next, or eof is true) it returns done=false and a nil error, and the
// caller inspects the byte at the cursor itself.
func (p *Parser) skipWhitespace(eof bool) (bool, error) {
	data := p.buf.Remaining()
	i := 0
	for i < len(data) && charclass.IsWhitespace(rune(data[i])) {
		i++
	}
	p.buf.Advance(i)
	if i == len(data) && !eof {
		return true, errNeedMore
	}
	return false, nil
}
