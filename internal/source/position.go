package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ErrMalformedPosition indicates a position string that does not match the
// compiler's line:col:byte wire format.
var ErrMalformedPosition = errors.New("malformed position")

// Position is a resolved location in the script. Line and Col are 1-based,
// ready for display; the compiler emits them 0-based. Byte is the raw byte
// offset, carried through unchanged.
type Position struct {
	Line uint32
	Col  uint32
	Byte uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ParsePosition decodes the wire format "line:col:byte". The field count must
// be exactly three and every field must be a non-negative integer; anything
// else fails with ErrMalformedPosition.
func ParsePosition(s string) (Position, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return Position{}, fmt.Errorf("%w: %q: want 3 colon-separated fields, got %d", ErrMalformedPosition, s, len(fields))
	}
	line, err := parseField(s, fields[0])
	if err != nil {
		return Position{}, err
	}
	col, err := parseField(s, fields[1])
	if err != nil {
		return Position{}, err
	}
	byteOff, err := parseField(s, fields[2])
	if err != nil {
		return Position{}, err
	}
	// Wire positions are 0-based; shift line/col for display.
	return Position{Line: line + 1, Col: col + 1, Byte: byteOff}, nil
}

func parseField(pos, field string) (uint32, error) {
	n, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: field %q is not a non-negative integer", ErrMalformedPosition, pos, field)
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: field %q overflows", ErrMalformedPosition, pos, field)
	}
	return v, nil
}
