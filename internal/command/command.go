// Package command parses console input lines such as
// `start approver-1 executor-1 {"amount":1000}` or `reject T1 "missing receipt"`.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Command is a parsed input line.
type Command struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or "".
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// Parse parses one input line. A blank line yields nil.
func Parse(input []byte) (*Command, error) {
	if strings.TrimSpace(string(input)) == "" {
		return nil, nil
	}
	cursor := parsly.NewCursor("", input, 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, verbToken)
	if matched.Code != verbCode {
		return nil, cursor.NewError(verbToken)
	}
	ret := &Command{Name: strings.ToLower(matched.Text(cursor))}

	for {
		matched = cursor.MatchAfterOptional(whitespaceToken, jsonToken, quotedToken, wordToken)
		switch matched.Code {
		case jsonCode:
			ret.Args = append(ret.Args, strings.TrimSpace(matched.Text(cursor)))
		case quotedCode:
			text, err := strconv.Unquote(matched.Text(cursor))
			if err != nil {
				return nil, fmt.Errorf("invalid quoted argument %s: %w", matched.Text(cursor), err)
			}
			ret.Args = append(ret.Args, text)
		case wordCode:
			ret.Args = append(ret.Args, matched.Text(cursor))
		case parsly.EOF:
			return ret, nil
		default:
			if !cursor.HasMore() {
				return ret, nil
			}
			return nil, cursor.NewError(jsonToken, quotedToken, wordToken)
		}
	}
}
