package assuan

import "strings"

// Unescape decodes the %XX escapes in s. The two hex digits name one
// character, U+0000 to U+00FF, so "%E9" is "é" and "%C3%A9" is "Ã©".
// Decoding stops at the first malformed escape and no partial result is
// returned.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", &DecodingError{Offset: i}
		}
		hi, ok := unhex(s[i+1])
		if !ok {
			return "", &DecodingError{Offset: i}
		}
		lo, ok := unhex(s[i+2])
		if !ok {
			return "", &DecodingError{Offset: i}
		}
		b.WriteRune(rune(hi<<4 | lo))
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
