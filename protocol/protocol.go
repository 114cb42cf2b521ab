// Package protocol implements the text line protocol spoken between the
// operator and the controller.
//
// The operator sends one command per line:
//
//	<left> <right>\n
//
// and the controller answers every line with the state it is now driving,
// preceded by an "invalid command" line when the command could not be parsed:
//
//	invalid command\n
//	l=<left> r=<right>\n
package protocol

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultPort is the TCP port the controller listens on.
	DefaultPort = 1380

	// InvalidReply is written back before the status line when a command
	// line cannot be parsed.
	InvalidReply = "invalid command\n"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
)

// Command is a signed velocity per wheel. Negative values drive backwards.
type Command struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Neutral is the command sent when no key is pressed.
var Neutral = Command{}

func (c Command) String() string {
	return fmt.Sprintf("%d %d", c.Left, c.Right)
}

// WriteCommand writes c as a single protocol line.
func WriteCommand(w io.Writer, c Command) error {
	_, err := fmt.Fprintf(w, "%d %d\n", c.Left, c.Right)
	return err
}

// Status formats the reply line reporting the state being driven.
func Status(c Command) string {
	return fmt.Sprintf("l=%d r=%d\n", c.Left, c.Right)
}

// WriteStatus writes the status line for c.
func WriteStatus(w io.Writer, c Command) error {
	_, err := io.WriteString(w, Status(c))
	return err
}

// ParseCommand parses a command line. The line is split on every single
// whitespace character, so runs of whitespace produce empty tokens; only the
// first two tokens are looked at and both must be signed 32 bit integers.
// Anything after the second token is ignored.
func ParseCommand(line string) (c Command, err error) {
	first, rest, ok := nextToken(line)
	if !ok {
		return c, ErrInvalidCommand
	}
	second, _, ok := nextToken(rest)
	if !ok {
		return c, ErrInvalidCommand
	}

	left, err := strconv.ParseInt(first, 10, 32)
	if err != nil {
		return Command{}, ErrInvalidCommand
	}
	right, err := strconv.ParseInt(second, 10, 32)
	if err != nil {
		return Command{}, ErrInvalidCommand
	}

	return Command{Left: int(left), Right: int(right)}, nil
}

// nextToken returns the text up to the next whitespace character and the
// remainder after it. ok is false once s has been fully consumed.
func nextToken(s string) (token, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	for i, r := range s {
		if unicode.IsSpace(r) {
			return s[:i], s[i+utf8.RuneLen(r):], true
		}
	}
	return s, "", true
}
