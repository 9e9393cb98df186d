package xmltok

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcaeus/saxml/internal/entityref"
)

// recordingHandler appends a one-line description of every event it
// receives, in the style of the end-to-end scenarios this package's
// semantics are pinned against.
type recordingHandler struct{}

func (recordingHandler) Handle(kind EventKind, evt Event, state interface{}) (interface{}, bool, error) {
	log := state.([]string)
	switch kind {
	case StartDocument:
		log = append(log, fmt.Sprintf("start_document(version=%q)", evt.Prolog.Version))
	case EndDocument:
		log = append(log, "end_document")
	case StartElement:
		log = append(log, fmt.Sprintf("start_element(%s, %v)", evt.Name, evt.Attributes))
	case EndElement:
		log = append(log, fmt.Sprintf("end_element(%s)", evt.Name))
	case Characters:
		log = append(log, fmt.Sprintf("characters(%q)", evt.Text))
	}
	return log, false, nil
}

func parseAll(t *testing.T, input string, policy entityref.Policy) []string {
	t.Helper()
	p := NewParser(recordingHandler{}, []string{}, policy)
	require.NoError(t, p.Feed([]byte(input), true))
	return p.State().([]string)
}

func TestParser_StartDocumentAndElement(t *testing.T) {
	events := parseAll(t, `<?xml version="1.0" ?><foo bar="value"></foo>`, entityref.KeepPolicy())
	assert.Equal(t, []string{
		`start_document(version="1.0")`,
		`start_element(foo, [{bar value}])`,
		`end_element(foo)`,
		`end_document`,
	}, events)
}

func TestParser_EntityAndCharRefExpansion(t *testing.T) {
	events := parseAll(t, `<a>&#65;&amp;B</a>`, entityref.KeepPolicy())
	assert.Equal(t, []string{
		`start_document(version="")`,
		`start_element(a, [])`,
		`characters("A&B")`,
		`end_element(a)`,
		`end_document`,
	}, events)
}

func TestParser_UnknownEntityPolicies(t *testing.T) {
	t.Run("keep", func(t *testing.T) {
		events := parseAll(t, `<a>&reg;</a>`, entityref.KeepPolicy())
		assert.Contains(t, events, `characters("&reg;")`)
	})
	t.Run("skip", func(t *testing.T) {
		events := parseAll(t, `<a>&reg;</a>`, entityref.SkipPolicy())
		assert.Contains(t, events, `characters("")`)
	})
	t.Run("callback", func(t *testing.T) {
		policy := entityref.CallbackPolicy(func(name string) (string, error) {
			if name == "reg" {
				return "®", nil
			}
			return "", fmt.Errorf("unhandled entity %q", name)
		})
		events := parseAll(t, `<a>&reg;</a>`, policy)
		assert.Contains(t, events, "characters(\"®\")")
	})
}

func TestParser_CDATAIsVerbatim(t *testing.T) {
	events := parseAll(t, `<a><![CDATA[<b>&amp;</b>]]></a>`, entityref.KeepPolicy())
	assert.Contains(t, events, `characters("<b>&amp;</b>")`)
}

func TestParser_MismatchedEndTag(t *testing.T) {
	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	err := p.Feed([]byte(`<a></b>`), true)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, MismatchedEndTag, perr.Kind)
	assert.Equal(t, len(`<a>`), perr.Position)
}

func TestParser_ChunkInvariance(t *testing.T) {
	document := `<?xml version="1.0"?><r><c/></r>`
	whole := parseAll(t, document, entityref.KeepPolicy())

	chunks := []string{"<?xm", "l ver", `sion="1.0"?><r`, "><c", "/></", "r>"}
	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	for i, c := range chunks {
		require.NoError(t, p.Feed([]byte(c), i == len(chunks)-1))
	}
	assert.Equal(t, whole, p.State().([]string))
}

func TestParser_ChunkInvariance_byteAtATime(t *testing.T) {
	document := `<?xml version="1.0"?><root a="1"><child>text &amp; more</child></root>`
	whole := parseAll(t, document, entityref.KeepPolicy())

	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	for i := 0; i < len(document); i++ {
		require.NoError(t, p.Feed([]byte{document[i]}, false))
	}
	require.NoError(t, p.Feed(nil, true))
	assert.Equal(t, whole, p.State().([]string))
}

func TestParser_StartEndBalance(t *testing.T) {
	events := parseAll(t, `<a><b/><c><d/></c></a>`, entityref.KeepPolicy())
	starts, ends := 0, 0
	for _, e := range events {
		switch {
		case len(e) > len("start_element") && e[:len("start_element")] == "start_element":
			starts++
		case len(e) > len("end_element") && e[:len("end_element")] == "end_element":
			ends++
		}
		assert.GreaterOrEqual(t, starts, ends)
	}
	assert.Equal(t, starts, ends)
}

func TestParser_RejectsMultipleRootElements(t *testing.T) {
	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	err := p.Feed([]byte(`<a></a><b></b>`), true)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, BadToken, perr.Kind)
}

func TestParser_RejectsUnsupportedEncoding(t *testing.T) {
	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	err := p.Feed([]byte(`<?xml version="1.0" encoding="latin1"?><a/>`), true)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnsupportedEncoding, perr.Kind)
}

func TestParser_HandlerStopShortCircuits(t *testing.T) {
	handler := HandlerFunc(func(kind EventKind, evt Event, state interface{}) (interface{}, bool, error) {
		count := state.(int) + 1
		return count, kind == StartElement && evt.Name == "stop-here", nil
	})
	p := NewParser(handler, 0, entityref.KeepPolicy())
	require.NoError(t, p.Feed([]byte(`<a><stop-here/><never-reached/></a>`), true))
	assert.True(t, p.Done())
	assert.Equal(t, 3, p.State().(int)) // start_document, start_element(a), start_element(stop-here)
}

func TestParser_DuplicateAttributeIsRejected(t *testing.T) {
	p := NewParser(recordingHandler{}, []string{}, entityref.KeepPolicy())
	err := p.Feed([]byte(`<a x="1" x="2"/>`), true)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, BadAttribute, perr.Kind)
}

func TestParser_GreaterThanInsideAttributeValue(t *testing.T) {
	events := parseAll(t, `<a x="1 > 2"/>`, entityref.KeepPolicy())
	assert.Contains(t, events, `start_element(a, [{x 1 > 2}])`)
}

func TestParser_AttributeWhitespaceNormalization(t *testing.T) {
	events := parseAll(t, "<a x=\"line1\tline2&#10;line3\"/>", entityref.KeepPolicy())
	assert.Contains(t, events, "start_element(a, [{x line1 line2\nline3}])")
}
