package ref

import (
	"errors"
	"strings"
)

// Relative path rejection errors. Callers in the resolution path map
// all of these to a not-found outcome; they are distinct values so
// tests and logs can tell the cases apart.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizeRelative normalizes a path relative to a directory root.
//
// Leading slashes and "." segments are dropped, duplicate slashes are
// collapsed, and ".." segments are resolved within the path. The result
// never starts with "/" and keeps a trailing "/" marker when the input
// had one, since that distinguishes a directory request from a file
// request.
//
// Inputs that could change meaning after cleaning are rejected instead
// of cleaned: backslashes, NUL bytes (literal or %00), malformed
// percent escapes, and ".." that would climb above the root.
func CanonicalizeRelative(input string) (string, error) {
	if strings.Contains(input, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(input, "\x00") || strings.Contains(strings.ToUpper(input), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(input, "%") {
		if err := validatePercentEscapes(input); err != nil {
			return "", err
		}
	}

	trailingSlash := strings.HasSuffix(input, "/")

	var out []string
	for _, seg := range strings.Split(input, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	path := strings.Join(out, "/")
	if path != "" && trailingSlash {
		path += "/"
	}
	return path, nil
}

func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
