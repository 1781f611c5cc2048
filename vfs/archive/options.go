package archive

import "log/slog"

// DefaultMaxFileSize is the default per-file read limit (256MB).
const DefaultMaxFileSize = 256 << 20

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger used for index construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithMaxFileSize limits the uncompressed size accepted by ReadFile.
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(a *Archive) {
		a.maxFileSize = limit
	}
}

// WithDecoderConcurrency sets the zstd decoder concurrency (default: 1).
// Values < 0 are treated as 0 (use GOMAXPROCS).
func WithDecoderConcurrency(n int) Option {
	return func(a *Archive) {
		if n < 0 {
			n = 0
		}
		a.decoderConcurrency = n
	}
}

// WithDecoderMaxMemory limits the memory used by a single zstd decoder.
// Set limit to 0 to disable the limit.
func WithDecoderMaxMemory(limit uint64) Option {
	return func(a *Archive) {
		a.maxDecoderMemory = limit
	}
}

// WithSynthesizedDirs controls whether directories without an explicit
// trailing-slash entry are inferred from the names of nested files.
//
// It is off by default: many archive tools omit directory entries, and such
// directories then report IsDir false and list no children.
func WithSynthesizedDirs(enabled bool) Option {
	return func(a *Archive) {
		a.synthesizeDirs = enabled
	}
}
