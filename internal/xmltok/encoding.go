package xmltok

import "golang.org/x/net/html/charset"

// describeEncoding resolves a declared (non-UTF-8) encoding label to a
// human-readable charset name for the unsupported_encoding error's Detail
// field. This performs no transcoding (non-UTF-8 input is always
// rejected); it only makes the rejection message legible when the label is
// an alias (e.g. "latin1") rather than a well-known name.
//
// Grounded on ucarion/c14n's test-only use of golang.org/x/net/html/charset
// (decoder.CharsetReader = charset.NewReaderLabel); here the same package is
// wired into the library itself rather than a test helper.
func describeEncoding(label string) string {
	if _, canonical := charset.Lookup(label); canonical != "" {
		return canonical
	}
	return "unrecognized charset label"
}
