package pipeline

import (
	"errors"
	"fmt"

	"sketch/internal/render"
)

// User-facing alert messages, one distinct message per failure kind. Alerts
// are a separate channel from positional diagnostics: they describe faults of
// the tooling, not of the user's script.
const (
	AlertEncodeFailed       = "could not encode the script for sharing, compile aborted"
	AlertCompileUnreachable = "could not reach the compile service, check your connection"
	AlertInternalError      = "the compiler hit an internal error, please file a report including your script"
	AlertRenderUnreachable  = "could not reach the render service, check your connection"
	AlertRenderFailed       = "the render service failed, try again in a moment"
	AlertRateLimited        = "render rate limit reached, wait a minute before retrying"
)

// renderAlert maps a classified render failure to its message.
func renderAlert(err error) string {
	var unexpected *render.UnexpectedStatusError
	switch {
	case errors.Is(err, render.ErrRateLimited):
		return AlertRateLimited
	case errors.Is(err, render.ErrService):
		return AlertRenderFailed
	case errors.Is(err, render.ErrNetworkUnavailable):
		return AlertRenderUnreachable
	case errors.As(err, &unexpected):
		return fmt.Sprintf("render failed with unexpected status %d", unexpected.Status)
	}
	return AlertRenderFailed
}
