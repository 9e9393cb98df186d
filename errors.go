package saxml

import "github.com/arcaeus/saxml/internal/xmltok"

// ErrorKind classifies a parse failure.
type ErrorKind = xmltok.ErrorKind

const (
	BadDeclaration      = xmltok.BadDeclaration
	UnsupportedEncoding = xmltok.UnsupportedEncoding
	BadToken            = xmltok.BadToken
	BadName             = xmltok.BadName
	BadAttribute        = xmltok.BadAttribute
	BadReference        = xmltok.BadReference
	BadCharacter        = xmltok.BadCharacter
	MismatchedEndTag    = xmltok.MismatchedEndTag
	UnexpectedEOI       = xmltok.UnexpectedEOI
	ForbiddenCDATAEnd   = xmltok.ForbiddenCDATAEnd
	HandlerError        = xmltok.HandlerError
)

// ParseError is the error type returned from a failed parse, carrying the
// byte offset it was detected at.
type ParseError = xmltok.ParseError
