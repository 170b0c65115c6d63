package sqltypes

import (
	"strings"
)

// Escaper neutralizes the characters of s that are special inside a single
// quoted SQL string literal or a backtick quoted identifier.  It is normally
// provided by the database connectivity layer.
type Escaper interface {
	EscapeString(s string) string
}

// EscaperFunc adapts an ordinary function to the Escaper interface.
type EscaperFunc func(s string) string

func (f EscaperFunc) EscapeString(s string) string {
	return f(s)
}

var (
	// MySQLEscaper escapes like mysql_real_escape_string does for single byte
	// and utf8 connection charsets.
	MySQLEscaper Escaper = EscaperFunc(EscapeMySQL)

	// ANSIEscaper doubles single quotes, as standard SQL string literals do.
	ANSIEscaper Escaper = EscaperFunc(EscapeANSI)
)

const dontEscape = byte(255)

// SqlEncodeMap specifies how to escape text with '\'.
// Complies to http://dev.mysql.com/doc/refman/5.7/en/mysql-real-escape-string.html
var SqlEncodeMap [256]byte

var encodeRef = map[byte]byte{
	'\x00': '0',
	'\n':   'n',
	'\r':   'r',
	'\\':   '\\',
	'\'':   '\'',
	'"':    '"',
	26:     'Z', // ctl-Z
}

func init() {
	for i := range SqlEncodeMap {
		SqlEncodeMap[i] = dontEscape
	}
	for from, to := range encodeRef {
		SqlEncodeMap[from] = to
	}
}

// EscapeMySQL backslash-escapes NUL, newline, carriage return, backslash,
// both quote characters and ctl-Z.
func EscapeMySQL(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if encoded := SqlEncodeMap[ch]; encoded == dontEscape {
			b.WriteByte(ch)
		} else {
			b.WriteByte('\\')
			b.WriteByte(encoded)
		}
	}
	return b.String()
}

// EscapeANSI doubles single quotes.
func EscapeANSI(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
