// Package escape implements the bijective mapping between raw text and
// ALS-safe text (spec §4.1). Every structural character the ALS grammar
// reserves is escaped as a two-character sequence "\X"; everything else
// passes through unchanged.
package escape

import (
	"strings"

	"github.com/als-project/als/alserr"
)

// NullToken and EmptyToken are the reserved sentinels a serializer emits for
// Null and empty-string values respectively. Escape never produces these on
// its own; only the higher-level value encoder (EncodeValue) does.
const (
	NullToken  = `\0`
	EmptyToken = `\e`
)

// escapeTable maps a raw rune to the letter used in its two-character escape.
// Space, carriage-return, and colon are included beyond spec.md §4.1's
// literal list: the ALS grammar splits stream elements on unescaped spaces,
// so a raw value containing a literal space must be escaped for the
// tokenizer to round-trip it; CR must be escaped since the line-ending
// normalization policy only covers actual line terminators, not CR bytes
// embedded inside a value; and colon must be escaped because the tokenizer
// treats it as the Range operator's step separator and as a terminator in
// its raw-value delimiter set, so an unescaped colon inside a raw or toggle
// value (e.g. a "15:16:01" timestamp) would truncate on the way back in. All
// three are confirmed by the reference implementation's escape_als_string,
// which escapes the same broader set (see DESIGN.md's `escape` entry).
var escapeTable = map[rune]byte{
	'>':  '>',
	'*':  '*',
	'~':  '~',
	'|':  '|',
	'_':  '_',
	'#':  '#',
	'$':  '$',
	':':  ':',
	'\\': '\\',
	'\n': 'n',
	'\t': 't',
	'\r': 'r',
	' ':  ' ',
}

var unescapeTable = func() map[byte]rune {
	m := make(map[byte]rune, len(escapeTable))
	for r, b := range escapeTable {
		m[b] = r
	}
	return m
}()

// NeedsEscaping reports whether s contains any character Escape would
// rewrite, allowing callers to skip allocation on the common case.
func NeedsEscaping(s string) bool {
	for _, r := range s {
		if _, ok := escapeTable[r]; ok {
			return true
		}
	}
	return false
}

// Escape returns the ALS-safe form of s: every structural character is
// replaced by a two-character "\X" escape, all other bytes pass through.
func Escape(s string) string {
	if !NeedsEscaping(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if letter, ok := escapeTable[r]; ok {
			b.WriteByte('\\')
			b.WriteByte(letter)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unescape inverts Escape. It fails with a KindEscape *alserr.Error on a
// trailing lone backslash or an unrecognized escape letter.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			return "", alserr.New(alserr.KindEscape, "incomplete escape sequence at end of string")
		}
		letter := runes[i+1]
		if letter > 255 {
			return "", alserr.New(alserr.KindEscape, "unknown escape sequence: \\%c", letter)
		}
		orig, ok := unescapeTable[byte(letter)]
		if !ok {
			return "", alserr.New(alserr.KindEscape, "unknown escape sequence: \\%c", letter)
		}
		b.WriteRune(orig)
		i++
	}
	return b.String(), nil
}

// IsNullToken reports whether s is exactly the reserved Null sentinel.
func IsNullToken(s string) bool { return s == NullToken }

// IsEmptyToken reports whether s is exactly the reserved empty-string
// sentinel.
func IsEmptyToken(s string) bool { return s == EmptyToken }

// EncodeValue maps an optional string (nil = Null, non-nil = String, where
// an empty string is distinct from Null) to its ALS token form: NullToken,
// EmptyToken, or the escaped string.
func EncodeValue(s *string) string {
	if s == nil {
		return NullToken
	}
	if *s == "" {
		return EmptyToken
	}
	return Escape(*s)
}

// DecodeValue inverts EncodeValue, returning nil for the Null sentinel, a
// pointer to "" for the empty sentinel, and the unescaped string otherwise.
func DecodeValue(tok string) (*string, error) {
	if IsNullToken(tok) {
		return nil, nil
	}
	if IsEmptyToken(tok) {
		empty := ""
		return &empty, nil
	}
	s, err := Unescape(tok)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
