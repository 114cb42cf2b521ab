package operator

import (
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// ErrInterrupted is returned by TerminalKeys when Ctrl-C or Ctrl-D is pressed.
// Raw mode disables the usual signals so this is the only way out.
var ErrInterrupted = errors.New("interrupted")

const (
	keyInterrupt = 0x03
	keyEOT       = 0x04
)

// TerminalKeys reads single key presses, with the terminal in raw mode when
// the input is one.
type TerminalKeys struct {
	in    io.Reader
	fd    int
	state *terminal.State
	buf   [1]byte
}

// OpenTerminalKeys puts f into raw mode if it is a terminal. Close restores
// it.
func OpenTerminalKeys(f *os.File) (*TerminalKeys, error) {
	t := &TerminalKeys{in: f, fd: int(f.Fd())}
	if !terminal.IsTerminal(t.fd) {
		return t, nil
	}

	state, err := terminal.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	t.state = state
	return t, nil
}

// NewKeys reads keys from r without touching any terminal.
func NewKeys(r io.Reader) *TerminalKeys {
	return &TerminalKeys{in: r, fd: -1}
}

func (t *TerminalKeys) ReadKey() (byte, error) {
	for {
		n, err := t.in.Read(t.buf[:])
		if n == 1 {
			switch t.buf[0] {
			case keyInterrupt, keyEOT:
				return 0, ErrInterrupted
			}
			return t.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func (t *TerminalKeys) Close() error {
	if t.state == nil {
		return nil
	}
	err := terminal.Restore(t.fd, t.state)
	t.state = nil
	return err
}
