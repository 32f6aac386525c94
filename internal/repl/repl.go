// Released under an MIT-style license. See LICENSE.

// Package repl drives the read-eval-print loop: print a prompt, read
// one form, evaluate it in a Session, and print the result, recovering
// from Reader and Compile errors but terminating on a Fatal one.
package repl

import (
	"fmt"
	"io"

	"github.com/wombat-lang/wombat/internal/printer"
	"github.com/wombat-lang/wombat/internal/reader"
	"github.com/wombat-lang/wombat/internal/session"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

const prompt = "> "

// promptingReader adapts a LineSource to an io.Reader, showing prompt
// only on the first physical read of each top-level form and silently
// fetching continuation lines after that, per original_source/lisp.cc's
// single `cout << "> "` per read_form call.
type promptingReader struct {
	src    LineSource
	prompt string
	first  bool
	buf    []byte
	eof    bool
}

func newPromptingReader(src LineSource) *promptingReader {
	return &promptingReader{src: src}
}

// resetPrompt arms p to show text again on its next Read, marking the
// start of a new top-level ReadForm call.
func (p *promptingReader) resetPrompt(text string) {
	p.prompt = text
	p.first = true
}

func (p *promptingReader) Read(out []byte) (int, error) {
	for len(p.buf) == 0 {
		if p.eof {
			return 0, io.EOF
		}

		shown := ""
		if p.first {
			shown = p.prompt
			p.first = false
		}

		line, eof, err := p.src.NextLine(shown)
		if err != nil {
			return 0, err
		}
		if eof {
			p.eof = true
			return 0, io.EOF
		}
		p.buf = []byte(line + "\n")
	}

	n := copy(out, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}

// REPL owns one Session and the reader/line-source pair feeding it.
type REPL struct {
	sess   *session.Session
	rd     *reader.Reader
	pr     *promptingReader
	src    LineSource
	stdout io.Writer
	stderr io.Writer
}

// New builds a REPL reading from src and evaluating against sess.
func New(sess *session.Session, src LineSource, stdout, stderr io.Writer) *REPL {
	pr := newPromptingReader(src)
	stream := reader.NewStream(pr)
	rd := reader.New(stream, sess.Interner, sess.Registry)

	return &REPL{sess: sess, rd: rd, pr: pr, src: src, stdout: stdout, stderr: stderr}
}

// Run executes the loop until end of input or a Fatal error, returning
// the process exit code.
func (r *REPL) Run() int {
	defer r.src.Close()

	for {
		r.pr.resetPrompt(prompt)

		f, ok, err := r.rd.ReadForm()
		if err != nil {
			r.reportReaderError(err)
			continue
		}
		if !ok {
			fmt.Fprint(r.stderr, "^D")
			return 0
		}

		if err := r.rd.SkipTrailingWhitespace(); err != nil {
			r.reportReaderError(err)
			continue
		}

		result, err := r.sess.Eval(f)
		if err != nil {
			if fatal, ok := err.(*wombaterr.Fatal); ok {
				fmt.Fprintf(r.stderr, "FATAL: %s\n", fatal.Error())
				return 1
			}
			fmt.Fprintf(r.stderr, "ERROR: %s\n", err.Error())
			continue
		}

		fmt.Fprintln(r.stdout, printer.Print(result))
	}
}

func (r *REPL) reportReaderError(err error) {
	fmt.Fprintf(r.stderr, "ERROR: %s\n", err.Error())
	r.rd.DrainLine()
}
