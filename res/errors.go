package res

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrLoadFailed is matched by every *LoadError.
	ErrLoadFailed = errors.New("resfs: resource load failed")

	// ErrAlreadyLoaded is returned when Load is called on a loader that has
	// already run.
	ErrAlreadyLoaded = errors.New("resfs: resources already loaded")
)

// ValidationError reports a content problem detected by a handler, such as
// a literal string in a layout under strict i18n. The loader returns it to
// the caller unwrapped.
type ValidationError struct {
	Source  string // display path of the offending file
	Message string
}

func (e *ValidationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid resource %s: %s", e.Source, e.Message)
	}
	return "invalid resource: " + e.Message
}

// LoadError is the single failure reported for a package whose load was
// aborted by anything other than a ValidationError.
type LoadError struct {
	Package string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load resources for %s: %v", e.Package, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLoadFailed.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}
