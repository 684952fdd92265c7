package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrEmptyContent = errors.New("domain: empty content")
	ErrInvalidID    = errors.New("domain: invalid session id")
)

// ProviderError wraps a failure of the model collaborator. It is the only
// error kind that aborts a chat request; everything else in the pipeline
// degrades to a safe neutral outcome.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
