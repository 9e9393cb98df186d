// Package xmltok is the heart of the module: the grammar-directed state
// machine that recognizes XML 1.0 (Fifth Edition) productions and emits SAX
// events, plus the resumable continuation protocol that lets it run over an
// arbitrarily chopped byte stream.
//
// Grounded on bored-engineer/fastxml's decoder.go (cursor/length bookkeeping,
// the parseProcInst/parsePotentialDirective/parseElement shape) but turned
// inside-out: where decoder.go's Decoder errors immediately whenever a
// terminator ('>' , "?>", "-->", "]]>" , the closing quote of an attribute
// value) is not yet present in its one fixed buffer, this parser instead
// leaves its cursor untouched and asks the caller for more bytes. The
// resulting continuation is expressed as a plain struct holding a phase
// enum plus the retained, not-yet-consumed byte range, rather than a
// captured closure, so a caller in a language or setting without
// first-class continuations can still drive it one chunk at a time.
package xmltok

import (
	"github.com/arcaeus/saxml/internal/entityref"
	"github.com/arcaeus/saxml/internal/xmlbuf"
)

type phase int

const (
	phaseBOM phase = iota
	phaseProlog
	phaseMisc
	phaseContent
	phaseEpilog
	phaseDone
)

// Parser drives the XML grammar over an incrementally-appended buffer,
// dispatching events to a Handler and threading a caller-supplied state
// value through every callback.
type Parser struct {
	buf     *xmlbuf.Buffer
	handler Handler
	state   interface{}
	policy  entityref.Policy

	phase phase
	stack elementStack
	done  bool
}

// NewParser creates a Parser ready to receive chunks via Feed.
func NewParser(handler Handler, initial interface{}, policy entityref.Policy) *Parser {
	return &Parser{
		buf:     xmlbuf.New(),
		handler: handler,
		state:   initial,
		policy:  policy,
		phase:   phaseBOM,
	}
}

// State returns the current (or, once Done, final) threaded user state.
func (p *Parser) State() interface{} { return p.state }

// Done reports whether the parse has completed (successfully, via
// end_document, or because the handler requested stop).
func (p *Parser) Done() bool { return p.done }

// Position returns the current byte offset, for error reporting and for
// callers that want InputOffset-style introspection, mirroring
// Decoder.InputOffset.
func (p *Parser) Position() int { return p.buf.Cursor() }

// Feed appends chunk (which may be nil/empty) to the input and advances the
// state machine as far as the retained bytes allow. eof must be true on the
// final call, made once with an empty or final chunk to signal that no more
// input is coming.
//
// Feed returns nil both when it makes full progress and when it is simply
// waiting for more bytes (eof == false); callers distinguish the two via
// Done(). Once eof is true, running out of bytes becomes an unexpected_eoi
// error instead of a reason to wait.
func (p *Parser) Feed(chunk []byte, eof bool) error {
	if p.done {
		return nil
	}
	if len(chunk) > 0 {
		p.buf.Append(chunk)
	}
	for !p.done {
		err := p.step(eof)
		if err == nil {
			// DiscardBefore is safe here: every step that emits an event
			// dispatches synchronously and returns before advancing again,
			// so no slice handed to the handler is still "in flight".
			p.buf.DiscardBefore(p.buf.Cursor())
			continue
		}
		if err == errNeedMore {
			if eof {
				return newError(p.buf.Cursor(), UnexpectedEOI, "input ended mid-token")
			}
			return nil
		}
		return err
	}
	return nil
}

func (p *Parser) step(eof bool) error {
	switch p.phase {
	case phaseBOM:
		return p.stepBOM(eof)
	case phaseProlog:
		return p.stepProlog(eof)
	case phaseMisc:
		return p.stepMisc(eof)
	case phaseContent:
		return p.stepContent(eof)
	case phaseEpilog:
		return p.stepEpilog(eof)
	}
	return nil
}

// emit dispatches evt to the handler and honours its ok/stop/error verdict.
func (p *Parser) emit(evt Event) error {
	next, stop, err := p.handler.Handle(evt.Kind, evt, p.state)
	if err != nil {
		return newErrorf(p.buf.Cursor(), HandlerError, "%v", err)
	}
	p.state = next
	if stop {
		p.done = true
	}
	return nil
}

// available reports whether n bytes are retained starting at the cursor.
func (p *Parser) available(n int) bool {
	return p.buf.Len() >= n
}

// peek returns the byte at cursor+offset, or ok=false if not yet retained.
func (p *Parser) peek(offset int) (byte, bool) {
	return p.buf.Peek(offset)
}
