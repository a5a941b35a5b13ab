package babel

import (
	"fmt"
	"unicode/utf8"
)

// Range takes as little as possible to represent a slice of the
// input.  Both offsets are in bytes.
type Range struct{ Start, End int }

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Location is a human friendly position within the input.  Line and
// Column start at 1 and Column counts runes, not bytes.
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

func locationAt(input string, cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(input) {
		cursor = len(input)
	}
	line, lineStart := 1, 0
	for i := 0; i < cursor; i++ {
		if input[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return Location{
		Line:   line,
		Column: utf8.RuneCountInString(input[lineStart:cursor]) + 1,
		Cursor: cursor,
	}
}
