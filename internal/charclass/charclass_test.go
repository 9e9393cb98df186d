package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWhitespace(t *testing.T) {
	testCases := []struct {
		Input    rune
		Expected bool
	}{
		{' ', true},
		{'\t', true},
		{'\r', true},
		{'\n', true},
		{'a', false},
		{0, false},
	}
	for _, tc := range testCases {
		t.Run(string(tc.Input), func(t *testing.T) {
			assert.Equal(t, tc.Expected, IsWhitespace(tc.Input))
		})
	}
}

func TestIsChar(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    rune
		Expected bool
	}{
		{"tab", 0x9, true},
		{"lf", 0xA, true},
		{"cr", 0xD, true},
		{"null", 0x0, false},
		{"vertical-tab", 0xB, false},
		{"space", 0x20, true},
		{"surrogate-range", 0xD800, false},
		{"pua-start", 0xE000, true},
		{"fffe", 0xFFFE, false},
		{"ffff", 0xFFFF, false},
		{"astral", 0x10000, true},
		{"past-astral", 0x110000, false},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, IsChar(tc.Input))
		})
	}
}

func TestIsNameStartChar(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    rune
		Expected bool
	}{
		{"colon", ':', true},
		{"underscore", '_', true},
		{"upper", 'Z', true},
		{"lower", 'a', true},
		{"digit", '0', false},
		{"dash", '-', false},
		{"extended-latin", 0xC0, true},
		{"cjk", 0x4E00, true},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, IsNameStartChar(tc.Input))
		})
	}
}

func TestIsNameChar(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    rune
		Expected bool
	}{
		{"digit", '5', true},
		{"dash", '-', true},
		{"dot", '.', true},
		{"middle-dot", 0xB7, true},
		{"combining-mark", 0x0300, true},
		{"name-start", 'x', true},
		{"space", ' ', false},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, IsNameChar(tc.Input))
		})
	}
}

func TestIsPubidChar(t *testing.T) {
	assert.True(t, IsPubidChar('A'))
	assert.True(t, IsPubidChar('-'))
	assert.False(t, IsPubidChar('<'))
	assert.False(t, IsPubidChar('&'))
}
