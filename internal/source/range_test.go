package source

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Range
	}{
		{
			name:  "path with dashes",
			input: "a-b.d2,3:5:120-3:9:124",
			expected: Range{
				Path:  "a-b.d2",
				Start: Position{Line: 4, Col: 6, Byte: 120},
				End:   Position{Line: 4, Col: 10, Byte: 124},
			},
		},
		{
			name:  "empty path",
			input: ",0:0:0-0:4:4",
			expected: Range{
				Path:  "",
				Start: Position{Line: 1, Col: 1, Byte: 0},
				End:   Position{Line: 1, Col: 5, Byte: 4},
			},
		},
		{
			name:  "multi-line range",
			input: "index.d2,1:0:10-4:2:58",
			expected: Range{
				Path:  "index.d2",
				Start: Position{Line: 2, Col: 1, Byte: 10},
				End:   Position{Line: 5, Col: 3, Byte: 58},
			},
		},
		{
			name:  "path with comma",
			input: "a,b.d2,3:5:120-3:9:124",
			expected: Range{
				Path:  "a,b.d2",
				Start: Position{Line: 4, Col: 6, Byte: 120},
				End:   Position{Line: 4, Col: 10, Byte: 124},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no dash", input: "a.d2,3:5:120"},
		{name: "no comma before dash", input: "3:5:120-3:9:124"},
		{name: "bad start position", input: "a.d2,3:5-3:9:124"},
		{name: "bad end position", input: "a.d2,3:5:120-oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRange(tt.input)
			if err == nil {
				t.Fatalf("ParseRange(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrMalformedRange) && !errors.Is(err, ErrMalformedPosition) {
				t.Errorf("ParseRange(%q) error = %v, want malformed range/position", tt.input, err)
			}
		})
	}
}
