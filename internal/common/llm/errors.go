package llm

import "errors"

var (
	// ErrTransport covers network failures and non-2xx replies.
	ErrTransport = errors.New("AI_TRANSPORT_FAILED")
	// ErrTimeout is returned when the request context deadline passes.
	ErrTimeout = errors.New("AI_TIMEOUT")
	// ErrEmptyCompletion means the reply carried no usable text.
	ErrEmptyCompletion = errors.New("AI_EMPTY_COMPLETION")
	// ErrInvalidOutput means the text was not the JSON object asked for.
	ErrInvalidOutput = errors.New("AI_CONTRACT_FAILED")
)
