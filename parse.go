package saxml

import "github.com/arcaeus/saxml/internal/xmltok"

// ParseString parses the complete document data in one call, dispatching
// events to handler and threading initialState through it. It returns the
// handler's final state (or, if the handler requested stop early, its
// state at that point) and a non-nil *ParseError on any well-formedness or
// handler failure.
func ParseString(data []byte, handler Handler, initialState interface{}, options Options) (interface{}, error) {
	p := xmltok.NewParser(handler, initialState, options.policy)
	if err := p.Feed(data, true); err != nil {
		return p.State(), err
	}
	return p.State(), nil
}

// ChunkSource supplies the next chunk of input lazily, returning ok=false
// once the source is exhausted (analogous to a finite lazy sequence of
// byte slices). It is not required to buffer anything itself; ParseStream
// owns all buffering.
type ChunkSource interface {
	Next() (chunk []byte, ok bool, err error)
}

// ChunkSourceFunc adapts a plain function to ChunkSource.
type ChunkSourceFunc func() ([]byte, bool, error)

// Next implements ChunkSource.
func (f ChunkSourceFunc) Next() ([]byte, bool, error) { return f() }

// ParseStream parses a document fed as a finite sequence of byte chunks,
// pulling one at a time from chunks. Semantics are identical to
// ParseString; EOF is signaled once chunks is exhausted. If handler
// returns stop before the source is drained, ParseStream stops pulling
// further chunks immediately.
func ParseStream(chunks ChunkSource, handler Handler, initialState interface{}, options Options) (interface{}, error) {
	p := xmltok.NewParser(handler, initialState, options.policy)
	for {
		chunk, ok, err := chunks.Next()
		if err != nil {
			return p.State(), err
		}
		if !ok {
			if ferr := p.Feed(nil, true); ferr != nil {
				return p.State(), ferr
			}
			return p.State(), nil
		}
		if ferr := p.Feed(chunk, false); ferr != nil {
			return p.State(), ferr
		}
		if p.Done() {
			return p.State(), nil
		}
	}
}
