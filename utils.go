package secureurl

import (
	"strings"
	"unicode/utf8"
)

// IsValidObjectName validates that a filename is an acceptable object name
// for existence checks and URL signing. It checks that the name:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" (empty segments)
//   - is valid UTF-8 and at most DefaultObjectNameMax bytes
//   - does not contain "." segments (/., /./, or ending with /.)
//   - does not contain null bytes, control characters (< 0x20), or DEL (0x7f)
//
// Printable characters such as spaces, "?" and "#" are allowed. They arrive
// percent-encoded in the query string and the signing library encodes them
// again in the issued URL, so objects stored under such names stay servable.
//
// Returns true if the name is valid, false otherwise.
func IsValidObjectName(name string) bool {
	if name == "" || name == "/" || name == "." {
		return false
	}

	if len(name) > DefaultObjectNameMax {
		return false
	}

	if name[0] == '/' {
		return false
	}

	if strings.HasSuffix(name, "/") {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if strings.Contains(name, "//") {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	if strings.Contains(name, "/./") || strings.HasSuffix(name, "/.") {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
