package resfs

import (
	"errors"
	"log/slog"

	"github.com/meigma/resfs/vfs/archive"
	"github.com/meigma/resfs/vfs/disk"
	resfshttp "github.com/meigma/resfs/vfs/http"
)

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the logger for the resolver and every backend it opens.
// Backend-specific logger options passed later take precedence.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		r.logger = logger
		return nil
	}
}

// --- Backend Options ---

// WithArchiveOptions appends options applied to every archive the resolver
// opens, local or remote.
func WithArchiveOptions(opts ...archive.Option) Option {
	return func(r *Resolver) error {
		r.archiveOpts = append(r.archiveOpts, opts...)
		return nil
	}
}

// WithDiskOptions appends options applied to every directory the resolver
// opens.
func WithDiskOptions(opts ...disk.Option) Option {
	return func(r *Resolver) error {
		r.diskOpts = append(r.diskOpts, opts...)
		return nil
	}
}

// WithHTTPOptions appends options applied to every remote archive source.
func WithHTTPOptions(opts ...resfshttp.Option) Option {
	return func(r *Resolver) error {
		r.httpOpts = append(r.httpOpts, opts...)
		return nil
	}
}

// WithMaxFileSize sets the per-file read limit for both backends.
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(r *Resolver) error {
		r.archiveOpts = append(r.archiveOpts, archive.WithMaxFileSize(limit))
		r.diskOpts = append(r.diskOpts, disk.WithMaxFileSize(limit))
		return nil
	}
}

// --- Remote Options ---

// WithRemoteArchives enables or disables archive locations whose target is
// an http(s) URL. They are enabled by default.
func WithRemoteArchives(enabled bool) Option {
	return func(r *Resolver) error {
		r.allowRemote = enabled
		return nil
	}
}

// WithBlockOptions configures the in-memory block cache placed in front of
// every remote archive source.
func WithBlockOptions(opts ...resfshttp.BlockOption) Option {
	return func(r *Resolver) error {
		r.blockOpts = append(r.blockOpts, opts...)
		return nil
	}
}

// WithBearerToken sends an Authorization header with every remote request.
func WithBearerToken(token string) Option {
	return func(r *Resolver) error {
		if token == "" {
			return errors.New("bearer token must not be empty")
		}
		r.httpOpts = append(r.httpOpts, resfshttp.WithHeader("Authorization", "Bearer "+token))
		return nil
	}
}
