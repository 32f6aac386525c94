/*
Wombat is an interactive Lisp-family REPL. It reads S-expressions,
analyzes them into a typed AST, emits IR against a JIT back end, and
prints the result of each form:

    > (def id (fn (x) x))
    id
    > (id (quote y))
    y

Wombat is released under an MIT-style license.
*/
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/wombat-lang/wombat/internal/options"
	"github.com/wombat-lang/wombat/internal/repl"
	"github.com/wombat-lang/wombat/internal/session"
)

func main() {
	opts := options.Parse()

	if opts.Help {
		fmt.Println("usage: wombat")
		return
	}
	if opts.Version {
		fmt.Println(options.Version)
		return
	}

	sess, err := session.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wombat: %v\n", err)
		os.Exit(1)
	}

	os.Exit(repl.New(sess, lineSource(), os.Stdout, os.Stderr).Run())
}

// lineSource picks the interactive, history-and-editing-capable line
// source when standard input is a terminal, and a plain line scanner
// otherwise.
func lineSource() repl.LineSource {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return repl.NewLinerSource()
	}
	return repl.NewScanSource(os.Stdin, os.Stdout)
}
