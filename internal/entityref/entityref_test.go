package entityref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_predefined(t *testing.T) {
	out, err := Expand("A&amp;B&lt;C&gt;D&apos;E&quot;", KeepPolicy())
	require.NoError(t, err)
	assert.Equal(t, `A&B<C>D'E"`, out)
}

func TestExpand_numeric(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Expected string
	}{
		{"decimal", "&#65;", "A"},
		{"hex-lower", "&#x41;", "A"},
		{"hex-upper", "&#X41;", "A"},
		{"astral", "&#128512;", "\U0001F600"},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			out, err := Expand(tc.Input, KeepPolicy())
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, out)
		})
	}
}

func TestExpand_numericRejectsIllegalChar(t *testing.T) {
	_, err := Expand("&#xFFFE;", KeepPolicy())
	require.Error(t, err)
	var merr *MalformedError
	assert.ErrorAs(t, err, &merr)
}

func TestExpand_noEntitiesFastPath(t *testing.T) {
	out, err := Expand("plain text", KeepPolicy())
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestExpand_unknownEntityKeep(t *testing.T) {
	out, err := Expand("&reg;", KeepPolicy())
	require.NoError(t, err)
	assert.Equal(t, "&reg;", out)
}

func TestExpand_unknownEntitySkip(t *testing.T) {
	out, err := Expand("a&reg;b", SkipPolicy())
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
}

func TestExpand_unknownEntityCallback(t *testing.T) {
	policy := CallbackPolicy(func(name string) (string, error) {
		if name == "reg" {
			return "®", nil
		}
		return "", assert.AnError
	})
	out, err := Expand("&reg;", policy)
	require.NoError(t, err)
	assert.Equal(t, "®", out)
}

func TestExpand_callbackNotReScanned(t *testing.T) {
	policy := CallbackPolicy(func(name string) (string, error) {
		return "&amp;", nil
	})
	out, err := Expand("&x;", policy)
	require.NoError(t, err)
	assert.Equal(t, "&amp;", out)
}

func TestExpand_missingTerminator(t *testing.T) {
	_, err := Expand("&amp no semi", KeepPolicy())
	require.Error(t, err)
}

func TestExpand_malformedReference(t *testing.T) {
	_, err := Expand("&#zz;", KeepPolicy())
	require.Error(t, err)
}

func TestExpand_htmlEntityCallback(t *testing.T) {
	policy := CallbackPolicy(HTMLEntityCallback())
	out, err := Expand("&reg;&nbsp;", policy)
	require.NoError(t, err)
	assert.Equal(t, "® ", out)
}

func TestExpand_htmlEntityCallbackUnknownName(t *testing.T) {
	policy := CallbackPolicy(HTMLEntityCallback())
	_, err := Expand("&notreal;", policy)
	require.Error(t, err)
}

func TestExpand_multipleReferencesInOnePass(t *testing.T) {
	out, err := Expand("&#65;&amp;B", KeepPolicy())
	require.NoError(t, err)
	assert.Equal(t, "A&B", out)
}
