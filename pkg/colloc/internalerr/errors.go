package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInputNotFound means the input path is neither a file nor a directory.
	ErrInputNotFound = errors.New("input not found")
	// ErrInputTooLarge means a document exceeds the tokenizer length cap.
	ErrInputTooLarge = errors.New("input too large")
)
