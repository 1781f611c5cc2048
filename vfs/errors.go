package vfs

import "errors"

// Sentinel errors.
var (
	// ErrMalformedLocation is returned when a location string cannot be split
	// into a backend locator and an entry path.
	ErrMalformedLocation = errors.New("resfs: malformed location")

	// ErrSizeOverflow is returned when a file exceeds the configured read limit.
	ErrSizeOverflow = errors.New("resfs: size overflow")
)
