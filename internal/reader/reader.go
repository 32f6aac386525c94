// Released under an MIT-style license. See LICENSE.

package reader

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

// Reader turns a character Stream into a Form graph, one top-level form
// at a time. A Reader is cheap to construct; internal/repl keeps one
// for the whole REPL run.
type Reader struct {
	in       *Stream
	interner *form.Interner
	registry *form.Registry
}

// New builds a Reader over in, interning symbols through interner and
// registering every Pair, Int, and Float it allocates with registry
// so their addresses can be resolved back to a Form after a round
// trip through compiled code.
func New(in *Stream, interner *form.Interner, registry *form.Registry) *Reader {
	return &Reader{in: in, interner: interner, registry: registry}
}

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

func isSymChar(r rune) bool {
	return !isWhitespace(r) && r != '(' && r != ')'
}

// killWhitespace discards whitespace and commas, returning the first
// other rune and whether the stream had one (false means EOF).
func (r *Reader) killWhitespace() (rune, bool) {
	for {
		c, ok := r.in.Get()
		if !ok {
			return 0, false
		}
		if !isWhitespace(c) {
			return c, true
		}
	}
}

// ReadForm reads one top-level form. The ok result is false only when
// the stream was exhausted before any non-whitespace input; that is a
// clean end of input, not an error.
func (r *Reader) ReadForm() (f form.Form, ok bool, err error) {
	c, present := r.killWhitespace()
	if !present {
		return nil, false, nil
	}

	switch {
	case c == '-' || c == '+' || unicode.IsDigit(c):
		r.in.Unget(c)
		f, err = r.readNumber()
		return f, true, err
	case c == '(':
		f, err = r.readList()
		return f, true, err
	case c == ')':
		return nil, true, wombaterr.NewReader("Unexpected ')'")
	case c == '\'':
		inner, innerOK, ierr := r.ReadForm()
		if ierr != nil {
			return nil, true, ierr
		}
		if !innerOK {
			return nil, true, wombaterr.NewReader("Unexpected end of input after '")
		}
		q := form.List2(r.interner.Intern("quote"), inner).(*form.Pair)
		r.registry.Register(q)
		r.registry.Register(form.Cdr(q))
		return q, true, nil
	default:
		r.in.Unget(c)
		f, err = r.readSymbol()
		return f, true, err
	}
}

// readToken slurps the longest run of symbol-constituent runes. It reads
// symbol names and the tails of zero-leading numbers, and supplies the
// offending text for trailing-input error messages.
func (r *Reader) readToken() string {
	var sb strings.Builder
	for {
		c, ok := r.in.Get()
		if !ok || !isSymChar(c) {
			if ok {
				r.in.Unget(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// readList reads the elements of a list whose opening '(' has already
// been consumed, returning the nil-terminated (or dotted) Pair chain.
// Grounded on original_source/reader.cc's read_list.
func (r *Reader) readList() (form.Form, error) {
	c, present := r.killWhitespace()
	if !present {
		return nil, wombaterr.NewReader("Unterminated list: expected ')' but got EOF")
	}
	if c == ')' {
		return nil, nil
	}

	r.in.Unget(c)
	car, ok, err := r.ReadForm()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, wombaterr.NewReader("Unterminated list: expected ')' but got EOF")
	}

	c, present = r.killWhitespace()
	if !present {
		return nil, wombaterr.NewReader("Unterminated list: expected ')' but got EOF")
	}

	var cdr form.Form
	if c == '.' {
		peeked, peekOK := r.in.Peek()
		if !peekOK || isWhitespace(peeked) || peeked == '(' {
			tail, tailOK, terr := r.ReadForm()
			if terr != nil {
				return nil, terr
			}
			if !tailOK {
				return nil, wombaterr.NewReader("Unterminated list: expected ')' but got EOF")
			}

			c, present = r.killWhitespace()
			if !present || c != ')' {
				return nil, wombaterr.NewReader("only one element may follow '.' in an irregular list")
			}
			cdr = tail
		} else {
			r.in.Unget('.')
			cdr, err = r.readList()
			if err != nil {
				return nil, err
			}
		}
	} else {
		r.in.Unget(c)
		cdr, err = r.readList()
		if err != nil {
			return nil, err
		}
	}

	p := form.Cons(car, cdr)
	r.registry.Register(p)
	return p, nil
}

// readSymbol reads a bare, non-numeric token and interns it.
func (r *Reader) readSymbol() (form.Form, error) {
	name := r.readToken()
	if name == "" {
		c, ok := r.in.Get()
		if ok {
			return nil, wombaterr.NewReader("Unexpected character: %q", c)
		}
		return nil, wombaterr.NewReader("Unexpected end of input")
	}
	return r.interner.Intern(name), nil
}

// readNumber reads an integer or float literal, falling back to a
// symbol when a leading sign is not followed by a digit (the design
// §4.C's tie-break rule). Grounded on original_source/reader.cc's
// read_number, adapted to Go's returned-error idiom in place of C++
// exceptions.
func (r *Reader) readNumber() (form.Form, error) {
	var sign rune
	cur, ok := r.in.Get()
	if !ok {
		return nil, wombaterr.NewReader("Unexpected end of input reading a number")
	}

	if cur == '-' || cur == '+' {
		sign = cur
		cur, ok = r.in.Get()
		if !ok {
			r.in.Unget(sign)
			return r.readSymbol()
		}
	}

	var (
		f   form.Form
		err error
	)
	switch {
	case cur == '0':
		f, err = r.readZeroLeadingNumber(sign)
	case unicode.IsDigit(cur):
		f, err = r.readDecimalNumber(sign, cur)
	default:
		r.in.Unget(cur)
		if sign != 0 {
			r.in.Unget(sign)
		}
		return r.readSymbol()
	}
	if err != nil {
		return nil, err
	}
	r.registry.Register(f)
	return f, nil
}

// readZeroLeadingNumber handles the bare integer 0, 0x../0X.. (hex),
// 0<octal digits>, and 0.<digits> (float).
func (r *Reader) readZeroLeadingNumber(sign rune) (form.Form, error) {
	peeked, present := r.in.Peek()
	if !present || !isSymChar(peeked) {
		return form.NewInt(0), nil
	}

	dispatch, _ := r.in.Get()
	rest := r.readToken()
	neg := sign == '-'

	switch {
	case dispatch == '.':
		f, err := strconv.ParseFloat("0."+rest, 64)
		if err != nil {
			return nil, wombaterr.NewReader("Invalid number format: 0.%s", rest)
		}
		if neg {
			f = -f
		}
		return form.NewFloat(f), nil
	case dispatch == 'x' || dispatch == 'X':
		v, err := strconv.ParseInt(rest, 16, 64)
		if err != nil {
			return nil, wombaterr.NewReader("Invalid number format: 0%c%s", dispatch, rest)
		}
		if neg {
			v = -v
		}
		return form.NewInt(v), nil
	case unicode.IsDigit(dispatch):
		v, err := strconv.ParseInt(string(dispatch)+rest, 8, 64)
		if err != nil {
			return nil, wombaterr.NewReader("Invalid number format: 0%c%s", dispatch, rest)
		}
		if neg {
			v = -v
		}
		return form.NewInt(v), nil
	default:
		return nil, wombaterr.NewReader("Invalid number format: 0%c%s", dispatch, rest)
	}
}

// readDecimalNumber handles base-10 integers and floats that start with
// a nonzero digit, where first is the digit already consumed.
func (r *Reader) readDecimalNumber(sign rune, first rune) (form.Form, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	isFloat := false
	for {
		c, ok := r.in.Get()
		if !ok || !isSymChar(c) {
			if ok {
				r.in.Unget(c)
			}
			break
		}
		if c == '.' {
			isFloat = true
		}
		sb.WriteRune(c)
	}

	digits := sb.String()
	text := digits
	if sign != 0 {
		text = string(sign) + digits
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, wombaterr.NewReader("Invalid number format: %s", text)
		}
		return form.NewFloat(f), nil
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, wombaterr.NewReader("Invalid number format: %s", text)
	}
	return form.NewInt(v), nil
}

// SkipTrailingWhitespace consumes whitespace up to the next newline (or
// EOF). It returns a *wombaterr.Reader if non-whitespace input remains
// on the line; the first offending token is consumed and quoted in the
// message, and the rest of the line is left for the caller to drain.
func (r *Reader) SkipTrailingWhitespace() error {
	for {
		c, ok := r.in.Get()
		if !ok || c == '\n' {
			return nil
		}
		if !isWhitespace(c) {
			r.in.Unget(c)
			extra := r.readToken()
			return wombaterr.NewReader("Trailing input after form: %s", extra)
		}
	}
}

// DrainLine discards the remainder of the current input line.
func (r *Reader) DrainLine() {
	r.in.DrainLine()
}
