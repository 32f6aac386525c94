// Released under an MIT-style license. See LICENSE.

// Package options parses wombat's process-level command line. The
// language itself takes no flags; this package covers only the
// ambient `-h`/`-v` conventions every CLI carries, with a docopt usage
// string as the single source of truth for the grammar.
package options

import (
	"github.com/docopt/docopt-go"
)

const usage = `wombat

Usage:
  wombat
  wombat -h
  wombat -v

Options:
  -h, --help     Display this help.
  -v, --version  Print wombat's version.

With no arguments, wombat reads forms from standard input, evaluates
each one, and prints its result, until end of input.
`

// Version is overridden at link time via -ldflags "-X ...Version=...".
var Version = "dev"

// Options is the parsed command line.
type Options struct {
	Help    bool
	Version bool
}

// Parse parses os.Args[1:] (via docopt's default, which reads
// os.Args). A malformed usage doc is a programmer error, not a
// runtime one, so Parse panics on it rather than returning an error.
func Parse() Options {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		panic(err.Error())
	}

	help, _ := opts.Bool("--help")
	version, _ := opts.Bool("--version")

	return Options{Help: help, Version: version}
}
