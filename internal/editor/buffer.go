package editor

import "sync"

// Buffer is an in-memory Editor. The TUI wraps one to back its textarea and
// tests use it to observe marker and decoration traffic. Unlike the Editor
// contract, Buffer is safe for concurrent use: the playground UI reads it
// while a compile cycle is writing.
type Buffer struct {
	mu      sync.RWMutex
	text    string
	markers map[string][]Marker
	decos   map[Handle]Decoration
	nextID  Handle
	focused bool
}

var _ Editor = (*Buffer)(nil)

func NewBuffer(text string) *Buffer {
	return &Buffer{
		text:    text,
		markers: make(map[string][]Marker),
		decos:   make(map[Handle]Decoration),
		nextID:  1,
	}
}

func (b *Buffer) Value() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

func (b *Buffer) SetValue(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *Buffer) SetMarkers(owner string, markers []Marker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(markers) == 0 {
		delete(b.markers, owner)
		return
	}
	b.markers[owner] = append([]Marker(nil), markers...)
}

func (b *Buffer) ApplyDecorations(previous []Handle, next []Decoration) []Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range previous {
		delete(b.decos, h)
	}
	handles := make([]Handle, 0, len(next))
	for _, d := range next {
		h := b.nextID
		b.nextID++
		b.decos[h] = d
		handles = append(handles, h)
	}
	return handles
}

func (b *Buffer) Focus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = true
}

// Markers returns the underline markers currently owned by owner.
func (b *Buffer) Markers(owner string) []Marker {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Marker(nil), b.markers[owner]...)
}

// Decorations returns all currently installed line decorations.
func (b *Buffer) Decorations() []Decoration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Decoration, 0, len(b.decos))
	for _, d := range b.decos {
		out = append(out, d)
	}
	return out
}

// Focused reports whether Focus has been called.
func (b *Buffer) Focused() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.focused
}
