package resfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/meigma/resfs/vfs"
	"github.com/meigma/resfs/vfs/archive"
	"github.com/meigma/resfs/vfs/disk"
	resfshttp "github.com/meigma/resfs/vfs/http"
)

// backend is a vfs.Backend that holds an OS or network resource.
type backend interface {
	vfs.Backend
	io.Closer
}

// Resolver turns location strings into nodes.
//
// Backends are opened on first use and cached by scheme and target, so every
// location naming the same archive or directory shares one index. Resolver
// is safe for concurrent use; concurrent first opens of the same target are
// collapsed into one.
type Resolver struct {
	archiveOpts []archive.Option
	diskOpts    []disk.Option
	httpOpts    []resfshttp.Option
	blockOpts   []resfshttp.BlockOption
	allowRemote bool
	logger      *slog.Logger

	group    singleflight.Group // zero value is valid
	mu       sync.Mutex
	backends map[string]backend
	closed   bool
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		allowRemote: true,
		backends:    make(map[string]backend),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.logger != nil {
		r.archiveOpts = append([]archive.Option{archive.WithLogger(r.logger)}, r.archiveOpts...)
		r.diskOpts = append([]disk.Option{disk.WithLogger(r.logger)}, r.diskOpts...)
		r.httpOpts = append([]resfshttp.Option{resfshttp.WithLogger(r.logger)}, r.httpOpts...)
	}
	return r, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Resolver) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Resolve parses location and returns the node it addresses. The node need
// not exist; only the backing archive or directory must.
//
// Remote archives keep reading after ctx is done: ctx values reach the HTTP
// requests but its cancellation does not, because the opened archive is
// cached and shared.
func (r *Resolver) Resolve(ctx context.Context, location string) (vfs.Node, error) {
	loc, err := vfs.ParseLocation(location)
	if err != nil {
		return vfs.Node{}, err
	}
	b, err := r.backend(ctx, loc)
	if err != nil {
		return vfs.Node{}, err
	}
	return vfs.Root(b).Join(loc.Entry), nil
}

// Close closes every backend opened by the resolver. Nodes resolved earlier
// must not be read afterwards.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for key, b := range r.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	r.backends = nil
	return errors.Join(errs...)
}

// backend returns the cached backend for loc, opening it on first use.
func (r *Resolver) backend(ctx context.Context, loc vfs.Location) (backend, error) {
	key := loc.Scheme + ":" + loc.Target
	if b, err := r.cached(key); b != nil || err != nil {
		return b, err
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		// Double-check after acquiring singleflight
		if b, err := r.cached(key); b != nil || err != nil {
			return b, err
		}

		b, err := r.open(ctx, loc)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			_ = b.Close() //nolint:errcheck // resolver already closed
			return nil, ErrClosed
		}
		r.backends[key] = b
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	r.log().Debug("backend resolved", "location", key, "shared", shared)
	return v.(backend), nil //nolint:forcetypeassert // the group func only returns backends
}

// cached returns the open backend for key, or ErrClosed after Close.
func (r *Resolver) cached(key string) (backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.backends[key], nil
}

// open creates the backend for loc.
func (r *Resolver) open(ctx context.Context, loc vfs.Location) (backend, error) {
	switch {
	case loc.Scheme == vfs.SchemeFile:
		return disk.Open(loc.Target, r.diskOpts...)
	case loc.Remote():
		if !r.allowRemote {
			return nil, fmt.Errorf("%w: remote archives are disabled: %s", vfs.ErrMalformedLocation, loc.Target)
		}
		src, err := resfshttp.NewSource(context.WithoutCancel(ctx), loc.Target, r.httpOpts...)
		if err != nil {
			return nil, err
		}
		blocks, err := resfshttp.NewBlockReader(src, src.Size(), r.blockOpts...)
		if err != nil {
			return nil, err
		}
		return archive.New(loc.Target, blocks, src.Size(), r.archiveOpts...)
	default:
		return archive.Open(loc.Target, r.archiveOpts...)
	}
}
