package compile

import "sketch/internal/diag"

// OutcomeKind tags the three-way partition of a compile result.
type OutcomeKind uint8

const (
	// OutcomeSuccess carries the transformed script.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeUserError carries positioned diagnostics for the script.
	OutcomeUserError
	// OutcomeInternalError marks a fault inside the compiler itself.
	OutcomeInternalError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUserError:
		return "user-error"
	case OutcomeInternalError:
		return "internal-error"
	}
	return "unknown"
}

// Outcome is the classified result of one compile call. Exactly one variant
// is populated: Script for OutcomeSuccess, Errors for OutcomeUserError,
// Detail (possibly empty) for OutcomeInternalError.
type Outcome struct {
	Kind   OutcomeKind
	Script string
	Errors diag.List
	Detail string
}
