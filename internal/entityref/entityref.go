// Package entityref resolves XML references: the five predefined entities,
// numeric character references, and (under a caller-supplied policy) named
// entity references that are not predefined.
package entityref

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/arcaeus/saxml/internal/charclass"
)

// predefined holds the five entities XML 1.0 defines unconditionally.
// Seeded the way fastxml.go seeds its own package-level "entities" map,
// but kept to exactly the five predefined
// names: anything else goes through the caller's Policy instead of a
// silently-expanding HTML entity table, since an unknown entity is a policy
// decision here, not a built-in table lookup.
var predefined = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": `"`,
}

// Kind identifies which entity-policy behavior a Policy applies.
type Kind int

const (
	// Keep passes the unresolved "&name;" through verbatim.
	Keep Kind = iota
	// Skip omits the unresolved reference entirely.
	Skip
	// Callback invokes a user function to resolve the entity name.
	Callback
)

// CallbackFunc resolves an unknown entity name (without '&'/';') to its
// replacement text. It MUST be pure: re-entrant calls back into the parser
// from within a callback are not supported.
type CallbackFunc func(name string) (string, error)

// Policy controls how RefExpander handles an entity reference that is not
// one of the five predefined names.
type Policy struct {
	Kind     Kind
	Callback CallbackFunc
}

// KeepPolicy is the default policy.
func KeepPolicy() Policy { return Policy{Kind: Keep} }

// SkipPolicy omits unresolved entity references.
func SkipPolicy() Policy { return Policy{Kind: Skip} }

// CallbackPolicy resolves unresolved entity references via fn.
func CallbackPolicy(fn CallbackFunc) Policy { return Policy{Kind: Callback, Callback: fn} }

// resolve dispatches an unresolved entity name through the policy.
func (p Policy) resolve(name string) (string, bool, error) {
	switch p.Kind {
	case Skip:
		return "", true, nil
	case Callback:
		if p.Callback == nil {
			return "", false, fmt.Errorf("entityref: Callback policy set without a CallbackFunc")
		}
		s, err := p.Callback(name)
		if err != nil {
			return "", false, err
		}
		return s, true, nil
	default: // Keep
		return "", false, nil
	}
}

// Expand resolves every reference in text, which must not contain '<'.
// Unresolved entity references (those that are neither predefined nor a
// numeric reference) are handled per policy.
//
// Grounded on decode.go's DecodeEntities: a single left-to-right pass into
// one output buffer pre-sized to the input length. Predefined, numeric,
// Keep and Skip replacements are never longer than the reference they
// replace, so they fit; a Callback replacement may be longer, in which case
// append grows the buffer.
func Expand(text string, policy Policy) (string, error) {
	amp := indexByte(text, '&')
	if amp == -1 {
		return text, nil
	}
	out := make([]byte, 0, len(text))
	cursor := 0
	for {
		out = append(out, text[cursor:amp]...)
		replacement, next, err := ExpandOneAt(text, amp, policy)
		if err != nil {
			return "", err
		}
		out = append(out, replacement...)
		cursor = next
		amp = indexByteFrom(text, '&', cursor)
		if amp == -1 {
			out = append(out, text[cursor:]...)
			return string(out), nil
		}
	}
}

// ExpandOneAt expands the single reference starting at s[at] (which must be
// '&') and returns its replacement text plus the index of the byte
// following the reference's terminating ';'. It is exported so callers that
// must interleave reference expansion with other per-character handling
// (attribute-value whitespace normalization) can reuse the same
// predefined/numeric/policy resolution logic that Expand uses for CharData
// runs.
func ExpandOneAt(s string, at int, policy Policy) (replacement string, next int, err error) {
	semi := indexByteFrom(s, ';', at)
	if semi == -1 {
		return "", 0, &MalformedError{Offset: at, Detail: "reference missing terminating ';'"}
	}
	body := s[at+1 : semi]
	replacement, err = expandOne(body)
	if err != nil {
		me, ok := err.(*unknownEntity)
		if !ok {
			return "", 0, err
		}
		resolved, handled, perr := policy.resolve(me.Name)
		if perr != nil {
			return "", 0, perr
		}
		if handled {
			replacement = resolved
		} else {
			// Keep: pass the original reference through verbatim.
			replacement = s[at : semi+1]
		}
	}
	return replacement, semi + 1, nil
}

// unknownEntity signals that body named an entity outside the predefined
// five and outside the numeric-reference grammar.
type unknownEntity struct{ Name string }

func (u *unknownEntity) Error() string { return fmt.Sprintf("unknown entity %q", u.Name) }

// MalformedError reports a reference that does not parse at all (missing
// terminator, invalid numeric form, or a numeric value outside XML Char).
type MalformedError struct {
	Offset int
	Detail string
}

func (e *MalformedError) Error() string { return e.Detail }

// expandOne expands the body of a single reference (without '&'/';').
func expandOne(body string) (string, error) {
	if body == "" {
		return "", &MalformedError{Detail: "empty reference"}
	}
	if body[0] == '#' {
		return expandNumeric(body[1:])
	}
	if s, ok := predefined[body]; ok {
		return s, nil
	}
	return "", &unknownEntity{Name: body}
}

// expandNumeric expands the suffix of a "&#..." or "&#x..." reference,
// i.e. body with the leading '#' already stripped.
func expandNumeric(body string) (string, error) {
	base := 10
	if len(body) > 0 && (body[0] == 'x' || body[0] == 'X') {
		base = 16
		body = body[1:]
	}
	if body == "" {
		return "", &MalformedError{Detail: "empty numeric reference"}
	}
	n, err := strconv.ParseInt(body, base, 32)
	if err != nil {
		return "", &MalformedError{Detail: fmt.Sprintf("invalid numeric reference %q: %v", body, err)}
	}
	r := rune(n)
	if !charclass.IsChar(r) {
		return "", &MalformedError{Detail: fmt.Sprintf("character reference U+%X is not a legal XML character", n)}
	}
	var buf [utf8.UTFMax]byte
	size := utf8.EncodeRune(buf[:], r)
	return string(buf[:size]), nil
}

// HTMLEntityCallback resolves an unknown entity name against the stdlib's
// HTML named-entity table, the same table fastxml.go seeds its own
// package-level "entities" map from. A name outside both the five
// predefined XML entities and this table makes the callback return an
// error, which fails the expansion like any other CallbackFunc error.
func HTMLEntityCallback() CallbackFunc {
	return func(name string) (string, error) {
		if r, ok := xml.HTMLEntity[name]; ok {
			return r, nil
		}
		return "", &unknownEntity{Name: name}
	}
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func indexByteFrom(s string, c byte, from int) int {
	idx := indexByte(s[from:], c)
	if idx == -1 {
		return -1
	}
	return from + idx
}
