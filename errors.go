package babel

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	// ErrNoMatch is wrapped by a ParsingError when the root rule fails
	ErrNoMatch = errors.New("no match")

	// ErrTrailingInput is wrapped by a ParsingError when the root
	// rule succeeds but full consumption was required and there's
	// input left
	ErrTrailingInput = errors.New("unexpected trailing input")

	// ErrUnresolvedRef is returned when a rule reference is used
	// before a rule was assigned to it
	ErrUnresolvedRef = errors.New("unresolved rule reference")

	// ErrMaxDepth is returned when rules nest deeper than the
	// configured limit, which usually means left recursion
	ErrMaxDepth = errors.New("maximum rule depth exceeded")
)

// ParsingError is the error returned when the parser can't finish
// successfuly.  It carries where the input stopped making sense.
type ParsingError struct {
	Err       error
	Location  Location
	Remaining string
}

// Error returns the human readable representation of a parsing error
func (e *ParsingError) Error() string {
	near := e.Remaining
	if len(near) > 24 {
		cut := 24
		for cut > 0 && !utf8.RuneStart(near[cut]) {
			cut--
		}
		near = near[:cut] + "..."
	}
	if near == "" {
		return fmt.Sprintf("%s @ %s: at end of input", e.Err, e.Location)
	}
	return fmt.Sprintf("%s @ %s: near %q", e.Err, e.Location, near)
}

func (e *ParsingError) Unwrap() error { return e.Err }
func (e *ParsingError) Cause() error  { return e.Err }

// HandlerError is returned when a handler or a terminal transform
// rejects its input.  It aborts the whole parse.
type HandlerError struct {
	Rule string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s: %s", e.Rule, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
func (e *HandlerError) Cause() error  { return e.Err }

func newParsingError(err error, c *Cursor, pos int) *ParsingError {
	return &ParsingError{
		Err:       err,
		Location:  locationAt(c.Input(), pos),
		Remaining: c.Input()[pos:],
	}
}
