// Package prompt collects free text (comments, reasons) from the operator.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Provider asks for a value. ok is false when the operator cancelled.
type Provider interface {
	Prompt(ctx context.Context, message, defaultValue string) (value string, ok bool)
}

// Blank is typed to submit an empty value instead of the default.
const Blank = "-"

// Console prompts on a line oriented reader/writer pair.
// An empty line takes the default, EOF cancels.
type Console struct {
	mu     sync.Mutex
	reader *bufio.Reader
	out    io.Writer
}

var _ Provider = (*Console)(nil)

// Prompt implements Provider.
func (c *Console) Prompt(ctx context.Context, message, defaultValue string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	label := strings.TrimSpace(message)
	if label == "" {
		label = "?"
	}
	if defaultValue != "" {
		label += fmt.Sprintf(" [%s]", defaultValue)
	}
	fmt.Fprint(c.out, label+": ")

	line, err := c.ReadLine()
	if err != nil {
		fmt.Fprintln(c.out)
		return "", false
	}
	switch line {
	case "":
		return defaultValue, true
	case Blank:
		return "", true
	}
	return line, true
}

// ReadLine returns the next trimmed line. A final line without a newline is
// returned before io.EOF.
func (c *Console) ReadLine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, err := c.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Writer returns the output stream.
func (c *Console) Writer() io.Writer { return c.out }

// New creates a console prompt; nil streams default to stdin/stdout.
func New(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Console{reader: reader, out: out}
}
