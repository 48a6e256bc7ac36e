package client

import "errors"

var (
	// ErrRetriesExhausted is returned by Call when a request went
	// unanswered after every retry attempt.
	ErrRetriesExhausted = errors.New("client: retry budget exhausted waiting for response")
	// ErrClosed is returned by Call after Close.
	ErrClosed = errors.New("client: stub closed")
	// ErrUnexpectedKind is returned when the broker answers with neither
	// OK nor ERROR.
	ErrUnexpectedKind = errors.New("client: response frame has unexpected kind")
)
