package saxml

import "github.com/arcaeus/saxml/internal/xmltok"

// EventKind identifies which SAX callback an Event carries.
type EventKind = xmltok.EventKind

const (
	StartDocument = xmltok.StartDocument
	EndDocument   = xmltok.EndDocument
	StartElement  = xmltok.StartElement
	EndElement    = xmltok.EndElement
	Characters    = xmltok.Characters
)

// Prolog is the optional <?xml ...?> declaration.
type Prolog = xmltok.Prolog

// Attribute is an ordered (name, value) pair; value is fully
// reference-expanded and whitespace-normalized.
type Attribute = xmltok.Attribute

// Event is the payload delivered to a Handler. Name, Text, and Attribute
// values may be zero-copy views into the parser's input buffer, and are
// valid only for the duration of the Handler call that receives them; a
// Handler that needs to retain one past its own call must copy it (e.g.
// via strings.Clone or simply `+ ""`).
type Event = xmltok.Event

// Handler receives a synchronous stream of events and threads a caller
// state value through them. It is the module's single capability
// abstraction; HandlerFunc is the function-literal constructor, and any
// type may implement Handler directly.
type Handler = xmltok.Handler

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc = xmltok.HandlerFunc
