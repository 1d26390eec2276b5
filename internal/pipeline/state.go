package pipeline

// State names the pipeline's position in its compile cycle. Idle is both the
// initial and the terminal state; the four non-compiling states are the
// terminal outcomes of one cycle, reported in Result.
type State uint8

const (
	StateIdle State = iota
	StateCompiling
	// StateRenderingDiagram: compile succeeded, markup fetched.
	StateRenderingDiagram
	// StateShowingUserErrors: the script has diagnostics to display.
	StateShowingUserErrors
	// StateShowingInternalError: the compiler itself failed.
	StateShowingInternalError
	// StateShowingTransportError: encode, compile transport or render failed.
	StateShowingTransportError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompiling:
		return "compiling"
	case StateRenderingDiagram:
		return "rendering-diagram"
	case StateShowingUserErrors:
		return "showing-user-errors"
	case StateShowingInternalError:
		return "showing-internal-error"
	case StateShowingTransportError:
		return "showing-transport-error"
	}
	return "unknown"
}
