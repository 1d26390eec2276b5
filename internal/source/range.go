package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRange indicates a range string missing one of its separators.
var ErrMalformedRange = errors.New("malformed range")

// Range is a decoded compiler range: a path (possibly empty) plus start and
// end positions.
type Range struct {
	Path  string
	Start Position
	End   Position
}

func (r Range) String() string {
	if r.Path == "" {
		return fmt.Sprintf("%s-%s", r.Start, r.End)
	}
	return fmt.Sprintf("%s:%s-%s", r.Path, r.Start, r.End)
}

// ParseRange decodes the wire format "path,start-end". Positions never
// contain '-', but paths may, so the last '-' splits start from end and the
// last ',' before it splits path from start. The path may be empty. A missing
// separator fails with ErrMalformedRange.
func ParseRange(s string) (Range, error) {
	dash := strings.LastIndexByte(s, '-')
	if dash < 0 {
		return Range{}, fmt.Errorf("%w: %q: no start/end separator", ErrMalformedRange, s)
	}
	comma := strings.LastIndexByte(s[:dash], ',')
	if comma < 0 {
		return Range{}, fmt.Errorf("%w: %q: no path/start separator", ErrMalformedRange, s)
	}
	start, err := ParsePosition(s[comma+1 : dash])
	if err != nil {
		return Range{}, err
	}
	end, err := ParsePosition(s[dash+1:])
	if err != nil {
		return Range{}, err
	}
	return Range{Path: s[:comma], Start: start, End: end}, nil
}
