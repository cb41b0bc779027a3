package command

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes start at 1 to stay clear of parsly's reserved codes.
const (
	whitespaceCode = iota + 1
	verbCode
	jsonCode
	quotedCode
	wordCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	verbToken       = parsly.NewToken(verbCode, "Verb", &verbMatcher{})
	jsonToken       = parsly.NewToken(jsonCode, "JSON", &jsonMatcher{})
	quotedToken     = parsly.NewToken(quotedCode, "Quoted", &quotedMatcher{})
	wordToken       = parsly.NewToken(wordCode, "Word", &wordMatcher{})
)

// verbMatcher matches a letter followed by letters, digits or dashes.
type verbMatcher struct{}

func (m *verbMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || !isLetter(input[pos]) {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if !isLetter(input[i]) && !isDigit(input[i]) && input[i] != '-' {
			break
		}
		matched++
	}
	if pos+matched < size && !isSpace(input[pos+matched]) {
		return 0
	}
	return matched
}

// jsonMatcher takes the rest of the line once a JSON document opens.
type jsonMatcher struct{}

func (m *jsonMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || (input[pos] != '{' && input[pos] != '[') {
		return 0
	}
	return size - pos
}

// quotedMatcher matches a double quoted string with backslash escapes.
type quotedMatcher struct{}

func (m *quotedMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || input[pos] != '"' {
		return 0
	}
	for i := pos + 1; i < size; i++ {
		switch input[i] {
		case '\\':
			i++
		case '"':
			return i - pos + 1
		}
	}
	return 0
}

// wordMatcher matches a run of non whitespace bytes.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	matched := 0
	for i := pos; i < size && !isSpace(input[i]); i++ {
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
