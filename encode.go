package saxml

import (
	"bytes"
	"fmt"
	"strings"
)

// Node is a simple-form tree node. Like encoding/xml's Token, it carries no
// marker method; any of the concrete types below satisfies it, and Encode
// dispatches on the concrete type via a type switch.
type Node interface{}

// Element is an element node: an ordered attribute list and ordered
// children.
type Element struct {
	Name       string
	Attributes []Attribute
	Children   []Node
}

// CharData is a character-data node; its text is escaped on encode.
type CharData string

// CDATASection is a node whose text is wrapped in "<![CDATA[...]]>"
// verbatim. A body containing the literal "]]>" terminator is split across
// adjacent CDATA sections rather than rejected.
type CDATASection string

// EntityRef renders as "&name;".
type EntityRef string

// Comment is a node rendered as "<!--body-->"; body must not contain "--".
type Comment string

// ProcInst is a processing instruction node, rendered as "<?target data?>".
type ProcInst struct {
	Target string
	Data   string
}

// Encode renders root as a complete XML document, with an optional leading
// "<?xml ...?>" declaration (nil prolog omits it entirely).
func Encode(root Node, prolog *Prolog) ([]byte, error) {
	chunks, err := EncodeToChunks(root, prolog)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

// EncodeToChunks is Encode's lazily-concatenable dual: it returns the same
// bytes split across separate chunks instead of one allocation, so a
// caller writing the document out need not join it into one contiguous
// []byte. Every chunk is still built before EncodeToChunks returns.
func EncodeToChunks(root Node, prolog *Prolog) ([][]byte, error) {
	var chunks [][]byte
	emit := func(b []byte) { chunks = append(chunks, b) }

	if prolog != nil {
		version := prolog.Version
		if version == "" {
			version = "1.0"
		}
		var b bytes.Buffer
		b.WriteString(`<?xml version="`)
		b.WriteString(version)
		b.WriteByte('"')
		if prolog.HasEncoding {
			b.WriteString(` encoding="`)
			b.WriteString(prolog.Encoding)
			b.WriteByte('"')
		}
		if prolog.HasStandalone {
			b.WriteString(` standalone="`)
			if prolog.Standalone {
				b.WriteString("yes")
			} else {
				b.WriteString("no")
			}
			b.WriteByte('"')
		}
		b.WriteString("?>")
		emit(b.Bytes())
	}
	if err := encodeNode(root, emit); err != nil {
		return nil, err
	}
	return chunks, nil
}

func encodeNode(n Node, emit func([]byte)) error {
	switch v := n.(type) {
	case Element:
		return encodeElement(v, emit)
	case *Element:
		return encodeElement(*v, emit)
	case CharData:
		emit([]byte(escapeCharData(string(v))))
		return nil
	case CDATASection:
		encodeCDATA(string(v), emit)
		return nil
	case EntityRef:
		emit([]byte("&" + string(v) + ";"))
		return nil
	case Comment:
		if strings.Contains(string(v), "--") {
			return fmt.Errorf("saxml: comment body must not contain \"--\"")
		}
		emit([]byte("<!--" + string(v) + "-->"))
		return nil
	case ProcInst:
		emit([]byte("<?" + v.Target + " " + v.Data + "?>"))
		return nil
	default:
		return fmt.Errorf("saxml: unsupported node type %T", n)
	}
}

// encodeElement writes an empty element as the self-closing "<name/>" form
// (never "<name></name>"), mirroring on the write side the same
// self-closing recognition the tokenizer performs on the read side.
func encodeElement(el Element, emit func([]byte)) error {
	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(el.Name)
	for _, a := range el.Attributes {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttrValue(a.Value))
		b.WriteByte('"')
	}
	if len(el.Children) == 0 {
		b.WriteString("/>")
		emit(b.Bytes())
		return nil
	}
	b.WriteByte('>')
	emit(b.Bytes())
	for _, c := range el.Children {
		if err := encodeNode(c, emit); err != nil {
			return err
		}
	}
	emit([]byte("</" + el.Name + ">"))
	return nil
}

// encodeCDATA splits s at every "]]>" boundary so no individual section's
// written bytes terminate early: the chosen split point keeps the two
// bytes "]]" with the section that already has them and starts the next
// section at '>', so the only "]]>" substring each section's bytes
// actually contain is its own closing terminator.
func encodeCDATA(s string, emit func([]byte)) {
	for {
		idx := strings.Index(s, "]]>")
		if idx == -1 {
			emit([]byte("<![CDATA[" + s + "]]>"))
			return
		}
		emit([]byte("<![CDATA[" + s[:idx+2] + "]]>"))
		s = s[idx+2:]
	}
}

func escapeCharData(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeAttrValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\t':
			b.WriteString("&#9;")
		case '\n':
			b.WriteString("&#10;")
		case '\r':
			b.WriteString("&#13;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
