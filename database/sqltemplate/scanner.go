package sqltemplate

import (
	"strings"
)

type TokenKind byte

const (
	PlaceholderToken TokenKind = iota
	BlockToken
)

func (k TokenKind) String() string {
	if k == BlockToken {
		return "block"
	}
	return "placeholder"
}

// Placeholder identifies how a placeholder formats its argument.
type Placeholder byte

const (
	ScalarPlaceholder Placeholder = iota
	IntPlaceholder
	FloatPlaceholder
	ArrayPlaceholder
	IdentifierPlaceholder
	UnknownPlaceholder
)

var placeholderNames = map[Placeholder]string{
	ScalarPlaceholder:     "?",
	IntPlaceholder:        "?d",
	FloatPlaceholder:      "?f",
	ArrayPlaceholder:      "?a",
	IdentifierPlaceholder: "?#",
}

func (p Placeholder) String() string {
	if name, ok := placeholderNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePlaceholder maps the tag that follows '?' to its Placeholder.
func ParsePlaceholder(tag string) Placeholder {
	switch tag {
	case "":
		return ScalarPlaceholder
	case "d":
		return IntPlaceholder
	case "f":
		return FloatPlaceholder
	case "a":
		return ArrayPlaceholder
	case "#":
		return IdentifierPlaceholder
	}
	return UnknownPlaceholder
}

// Token is one placeholder or conditional block found in a template.
type Token struct {
	Kind TokenKind

	// Start and End delimit Text in the template, End exclusive.
	Start int
	End   int
	Text  string

	// Placeholder is set for placeholder tokens.
	Placeholder Placeholder

	// Inner holds the placeholders of a block, in order, with offsets into
	// the template.
	Inner []Token
}

// Scan returns the placeholders and blocks of template in the order they
// appear.
//
// A block is '{' followed by anything but '}', then '}'.  An unterminated '{'
// and a stray '}' are plain text.  A placeholder is '?' followed by the
// longest run of ASCII letters and '#'; tags other than d, f, a and # are
// kept and rejected when the placeholder is formatted.
func Scan(template string) []Token {
	var tokens []Token
	for i := 0; i < len(template); {
		next := strings.IndexAny(template[i:], "?{")
		if next < 0 {
			break
		}
		i += next

		if template[i] == '?' {
			tok := scanPlaceholder(template, i)
			tokens = append(tokens, tok)
			i = tok.End
			continue
		}

		closing := strings.IndexByte(template[i+1:], '}')
		if closing < 0 {
			// unterminated, plain text
			i++
			continue
		}
		end := i + 1 + closing + 1
		tokens = append(tokens, scanBlock(template, i, end))
		i = end
	}
	return tokens
}

func scanBlock(template string, start int, end int) Token {
	block := Token{
		Kind:  BlockToken,
		Start: start,
		End:   end,
		Text:  template[start:end],
	}
	for i := start + 1; i < end-1; {
		next := strings.IndexByte(template[i:end-1], '?')
		if next < 0 {
			break
		}
		tok := scanPlaceholder(template, i+next)
		block.Inner = append(block.Inner, tok)
		i = tok.End
	}
	return block
}

func scanPlaceholder(template string, start int) Token {
	end := start + 1
	for end < len(template) && isTagByte(template[end]) {
		end++
	}
	return Token{
		Kind:        PlaceholderToken,
		Start:       start,
		End:         end,
		Text:        template[start:end],
		Placeholder: ParsePlaceholder(template[start+1 : end]),
	}
}

func isTagByte(b byte) bool {
	return b == '#' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
