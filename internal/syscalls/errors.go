package syscalls

import "fmt"

// InputError reports a source document that could not be normalized.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// CacheError reports a cache blob that is missing or cannot be decoded.
type CacheError struct {
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s is unusable: %v", e.Path, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// LookupError reports a query with no resolvable entry.
type LookupError struct {
	Query  string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s", e.Query, e.Reason)
}

// Inputf builds an InputError without a cause.
func Inputf(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
