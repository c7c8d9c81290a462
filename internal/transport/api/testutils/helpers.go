package testutils

import "strings"

// MultiByteString строка из runes четырехбайтовых символов: в рунах она всегда короче, чем в байтах.
func MultiByteString(runes int) string {
	return strings.Repeat("😁", runes)
}
