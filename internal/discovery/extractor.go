package discovery

import (
	"errors"
	"fmt"
)

// ErrMalformedBody means no balanced closing delimiter was found before the
// end of the text. The offending match is skipped; the scan goes on.
var ErrMalformedBody = errors.New("unbalanced callback body")

// matching close for each supported opening delimiter
var closeDelims = map[byte]byte{
	'{': '}',
	'(': ')',
	'[': ']',
}

// ExtractBody returns the exact substring of text from the opening delimiter
// at open through its balanced close, both delimiters included.
//
// The scan keeps a signed depth counter and a quote flag. While inside a
// string or template literal, delimiter characters are not counted; quotes
// toggle on unescaped ', " or ` characters, and a backslash escapes the next
// character. No I/O, no global state.
func ExtractBody(text string, open int) (string, error) {
	if open < 0 || open >= len(text) {
		return "", fmt.Errorf("offset %d out of range", open)
	}
	openDelim := text[open]
	closeDelim, ok := closeDelims[openDelim]
	if !ok {
		return "", fmt.Errorf("no opening delimiter at offset %d (got %q)", open, openDelim)
	}

	depth := 0
	var quote byte // 0 when outside any string/template span
	for i := open; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++ // escaped character, including \" \' \` and \\
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '\\':
			i++
		case '\'', '"', '`':
			quote = c
		case openDelim:
			depth++
		case closeDelim:
			depth--
			if depth == 0 {
				return text[open : i+1], nil
			}
		}
	}
	return "", ErrMalformedBody
}
