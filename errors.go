package resfs

import (
	"errors"

	"github.com/meigma/resfs/res"
	"github.com/meigma/resfs/vfs"
	resfshttp "github.com/meigma/resfs/vfs/http"
)

// ErrClosed is returned by Resolve after Close.
var ErrClosed = errors.New("resfs: resolver closed")

// Errors re-exported from vfs.
var (
	// ErrMalformedLocation is returned when a location string cannot be parsed.
	ErrMalformedLocation = vfs.ErrMalformedLocation

	// ErrSizeOverflow is returned when a file exceeds the read limit.
	ErrSizeOverflow = vfs.ErrSizeOverflow

	// ErrRangeUnsupported is returned when a remote archive's server ignores
	// range requests.
	ErrRangeUnsupported = resfshttp.ErrRangeUnsupported
)

// Errors re-exported from res.
var (
	// ErrLoadFailed matches every non-validation load failure.
	ErrLoadFailed = res.ErrLoadFailed

	// ErrAlreadyLoaded is returned by a second Load on the same loader.
	ErrAlreadyLoaded = res.ErrAlreadyLoaded
)
