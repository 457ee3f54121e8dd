package protocol

import (
	"strings"
	"unicode/utf8"
)

// Scheme is the custom URI scheme served by this package.
const Scheme = "frameflow"

// SchemePrefix is stripped from raw identifiers before decoding.
const SchemePrefix = Scheme + "://"

// DecodePath turns a raw frameflow:// identifier into a filesystem path.
//
// The first occurrence of SchemePrefix is removed and the remainder is
// percent-decoded as UTF-8. Decoding never fails: a '%' not followed by two
// hex digits is kept literally and invalid UTF-8 becomes U+FFFD. The result
// is not normalized or sanitized.
func DecodePath(rawURI string) string {
	return percentDecodeLossy(strings.Replace(rawURI, SchemePrefix, "", 1))
}

func percentDecodeLossy(s string) string {
	if !strings.Contains(s, "%") {
		return strings.ToValidUTF8(s, string(utf8.RuneError))
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), string(utf8.RuneError))
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
