package diag

// Error is a single compiler diagnostic as received on the wire. Range holds
// the serialized "path,start-end" form and is empty when the compiler could
// not attribute a location; errors without a range are shown only in the
// error panel, never as editor markers.
type Error struct {
	Message string `json:"errmsg"`
	Range   string `json:"range,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// List is an ordered sequence of compile errors. Order follows occurrence in
// the script, which is not necessarily sorted by position.
type List []Error

// Messages returns the display line for each error, in order.
func (l List) Messages() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Message
	}
	return out
}
