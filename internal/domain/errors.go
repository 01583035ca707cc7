package domain

import (
	"errors"
	"fmt"
)

// ErrMissingTimestamp means a qualifying message carried no identifiable
// timestamp, so it cannot be staged for confirmation. There is no recovery
// for the event; the dispatcher reports and re-raises it.
var ErrMissingTimestamp = errors.New("message timestamp is missing")

// DecodeError means an interactive-action token failed to parse.
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode token %q: %s", e.Token, e.Reason)
}

// GatewayError wraps a failure from the source gateway or a destination
// sink. The core never retries these; they propagate to the dispatcher's
// isolation point.
type GatewayError struct {
	Op  string // platform operation, e.g. "users.info"
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
