package saxml

import "github.com/arcaeus/saxml/internal/entityref"

// EntityCallback resolves an unknown (non-predefined) entity name, without
// its '&'/';' delimiters, to replacement text. It MUST be pure: a callback
// that calls back into the parser is not supported.
type EntityCallback func(name string) (string, error)

// Options configures a parse. The zero value is the default: unresolved
// entity references are kept verbatim.
type Options struct {
	policy entityref.Policy
}

// KeepUnknownEntities is the default: an unresolved "&name;" reference
// passes through into character data verbatim.
func KeepUnknownEntities() Options {
	return Options{policy: entityref.KeepPolicy()}
}

// SkipUnknownEntities omits unresolved entity references entirely.
func SkipUnknownEntities() Options {
	return Options{policy: entityref.SkipPolicy()}
}

// ResolveUnknownEntitiesWith resolves unresolved entity references via fn.
func ResolveUnknownEntitiesWith(fn EntityCallback) Options {
	return Options{policy: entityref.CallbackPolicy(entityref.CallbackFunc(fn))}
}

// ResolveHTMLEntities falls back to the stdlib's HTML named-entity table
// (e.g. "&reg;", "&nbsp;", "&eacute;") for any reference that is not one of
// XML's five predefined entities.
func ResolveHTMLEntities() Options {
	return Options{policy: entityref.CallbackPolicy(entityref.HTMLEntityCallback())}
}
