// Released under an MIT-style license. See LICENSE.

package repl

import (
	"bufio"
	"io"

	"github.com/peterh/liner"
)

// LineSource fetches one line of input, printing prompt first. eof is
// true only at a genuine end of input (Ctrl-D or closed pipe).
type LineSource interface {
	NextLine(prompt string) (line string, eof bool, err error)
	Close()
}

// linerSource is the interactive LineSource, grounded on
// common.go/broker.go/task.go's `cli.State.Prompt("> ")` +
// `cli.AppendHistory(line)` pattern (github.com/peterh/liner).
type linerSource struct {
	state *liner.State
}

// NewLinerSource starts an interactive line editor over the current
// terminal.
func NewLinerSource() *linerSource {
	return &linerSource{state: liner.NewLiner()}
}

func (s *linerSource) NextLine(prompt string) (string, bool, error) {
	line, err := s.state.Prompt(prompt)
	switch err {
	case nil:
		s.state.AppendHistory(line)
		return line, false, nil
	case io.EOF:
		return "", true, nil
	case liner.ErrPromptAborted:
		return "", true, nil
	default:
		return "", false, err
	}
}

func (s *linerSource) Close() {
	s.state.Close()
}

// scanSource is the non-interactive LineSource used when standard
// input is not a terminal (a pipe, a redirected file).
type scanSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewScanSource reads lines from in, echoing prompt to out before
// each read for parity with the interactive prompt.
func NewScanSource(in io.Reader, out io.Writer) *scanSource {
	return &scanSource{in: bufio.NewReader(in), out: out}
}

func (s *scanSource) NextLine(prompt string) (string, bool, error) {
	io.WriteString(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", true, nil
		}
		return line, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return line[:len(line)-1], false, nil
}

func (s *scanSource) Close() {}
