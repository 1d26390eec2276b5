// Package compile talks to the remote compile capability and classifies its
// three-way result.
package compile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sketch/internal/diag"
)

// ErrBadPayload means the capability answered, but with a userError payload
// that does not unwrap. That is a contract violation by the compiler, not a
// user mistake, and callers let it propagate instead of alerting.
var ErrBadPayload = errors.New("unusable userError payload")

// Result is the raw response of the compile capability. The three fields are
// mutually exclusive by convention: exactly one is non-empty. UserError is a
// further JSON payload of the form {"errs": [...]} and must be unwrapped
// before use.
type Result struct {
	Result        string `json:"result"`
	UserError     string `json:"userError"`
	InternalError string `json:"internalError"`
}

// Service is the remote compile capability.
type Service interface {
	Compile(ctx context.Context, script string) (Result, error)
}

// Client classifies raw capability results into Outcomes.
type Client struct {
	svc Service
}

func NewClient(svc Service) *Client {
	return &Client{svc: svc}
}

// Compile sends script to the capability and classifies the response. The
// script is newline-terminated first; a script that already ends in a newline
// passes through unchanged. A non-nil error means the capability itself was
// unreachable, which callers report on the transport alert channel rather
// than as diagnostics.
//
// Fields are checked in order success, user error, internal error. A response
// matching none of the shapes, including the all-empty one, degrades to
// OutcomeInternalError.
func (c *Client) Compile(ctx context.Context, script string) (Outcome, error) {
	if !strings.HasSuffix(script, "\n") {
		script += "\n"
	}
	res, err := c.svc.Compile(ctx, script)
	if err != nil {
		return Outcome{}, fmt.Errorf("compile service: %w", err)
	}
	switch {
	case res.Result != "":
		return Outcome{Kind: OutcomeSuccess, Script: res.Result}, nil
	case res.UserError != "":
		errs, err := unwrapUserError(res.UserError)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeUserError, Errors: errs}, nil
	case res.InternalError != "":
		return Outcome{Kind: OutcomeInternalError, Detail: res.InternalError}, nil
	default:
		return Outcome{Kind: OutcomeInternalError}, nil
	}
}

func unwrapUserError(payload string) (diag.List, error) {
	var wrapped struct {
		Errs diag.List `json:"errs"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	return wrapped.Errs, nil
}
