// Package saxml is a streaming, chunk-resumable SAX-style parser and
// encoder for XML 1.0 (Fifth Edition). The tokenizer, buffer, character
// classes, and entity expansion live in internal packages; this package is
// the thin public façade over them: entry points, the error and event
// types callers see, and the simple-form Encoder.
package saxml
