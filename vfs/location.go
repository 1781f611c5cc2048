package vfs

import (
	"fmt"
	"strings"
)

// Location schemes.
const (
	SchemeArchive = "archive"
	SchemeFile    = "file"
)

// Location is a parsed location string.
//
// Two forms are recognized:
//
//	archive:<archive>!/<entry>   archive may be a local path or an http(s) URL
//	file:<dir>                   a native directory
type Location struct {
	// Scheme is SchemeArchive or SchemeFile.
	Scheme string

	// Target locates the storage: the archive path or URL, or the directory.
	Target string

	// Entry is the cleaned path inside the storage; "" addresses the root.
	Entry string
}

// ParseLocation splits s into its backend locator and entry path.
// It returns an error wrapping ErrMalformedLocation for unrecognized schemes
// or incomplete locations.
func ParseLocation(s string) (Location, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q has no scheme", ErrMalformedLocation, s)
	}
	switch scheme {
	case SchemeArchive:
		target, entry, ok := strings.Cut(rest, "!/")
		if !ok {
			target, ok = strings.CutSuffix(rest, "!")
			if !ok {
				return Location{}, fmt.Errorf("%w: %q has no entry separator", ErrMalformedLocation, s)
			}
		}
		if target == "" {
			return Location{}, fmt.Errorf("%w: %q has no archive", ErrMalformedLocation, s)
		}
		return Location{Scheme: SchemeArchive, Target: target, Entry: CleanPath(entry)}, nil
	case SchemeFile:
		dir := strings.TrimPrefix(rest, "//")
		if dir == "" {
			return Location{}, fmt.Errorf("%w: %q has no directory", ErrMalformedLocation, s)
		}
		return Location{Scheme: SchemeFile, Target: dir}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedLocation, scheme)
	}
}

// Remote reports whether the archive target is an http(s) URL.
func (l Location) Remote() bool {
	return l.Scheme == SchemeArchive &&
		(strings.HasPrefix(l.Target, "http://") || strings.HasPrefix(l.Target, "https://"))
}

// String formats the location back into its string form.
func (l Location) String() string {
	if l.Scheme == SchemeArchive {
		return SchemeArchive + ":" + l.Target + "!/" + l.Entry
	}
	return l.Scheme + ":" + l.Target
}
