// Package disk implements a vfs.Backend over a native directory tree.
//
// Access is confined to the directory with [os.Root], so paths containing
// ".." or symlinks that escape the tree fail instead of reading outside it.
package disk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/meigma/resfs/internal/sizing"
	"github.com/meigma/resfs/vfs"
)

// DefaultMaxFileSize is the default per-file read limit (256MB).
const DefaultMaxFileSize = 256 << 20

// Interface compliance.
var _ vfs.Backend = (*Dir)(nil)

// Dir is a vfs.Backend rooted at a native directory.
type Dir struct {
	location    string
	root        *os.Root
	fsys        fs.FS
	maxFileSize uint64
	logger      *slog.Logger
}

// Option configures a Dir.
type Option func(*Dir)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dir) {
		d.logger = logger
	}
}

// WithMaxFileSize limits the size accepted by ReadFile.
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(d *Dir) {
		d.maxFileSize = limit
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (d *Dir) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// Open roots a backend at dir. The directory string is kept verbatim as the
// location. The returned Dir must be closed to release the directory handle.
func Open(dir string, opts ...Option) (*Dir, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	d := &Dir{
		location:    dir,
		root:        root,
		fsys:        root.FS(),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log().Debug("directory opened", "dir", dir)
	return d, nil
}

// Close releases the directory handle.
func (d *Dir) Close() error {
	return d.root.Close()
}

// Location returns the directory as given to Open.
func (d *Dir) Location() string {
	return d.location
}

// IsDir reports whether p names a directory.
func (d *Dir) IsDir(p string) bool {
	info, err := fs.Stat(d.fsys, fsPath(p))
	return err == nil && info.IsDir()
}

// IsFile reports whether p names a regular file.
func (d *Dir) IsFile(p string) bool {
	info, err := fs.Stat(d.fsys, fsPath(p))
	return err == nil && info.Mode().IsRegular()
}

// Children returns the sorted paths of the entries directly inside p.
func (d *Dir) Children(p string) ([]string, error) {
	if !d.IsDir(p) {
		return nil, nil
	}
	entries, err := fs.ReadDir(d.fsys, fsPath(p))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Display(p), err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	prefix := vfs.DirPrefix(p)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = prefix + e.Name()
	}
	slices.Sort(out)
	return out, nil
}

// Open opens the regular file at p.
func (d *Dir) Open(p string) (io.ReadCloser, error) {
	if !d.IsFile(p) {
		return nil, &fs.PathError{Op: "open", Path: d.Display(p), Err: fs.ErrNotExist}
	}
	f, err := d.fsys.Open(fsPath(p))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFile reads the whole regular file at p, honoring the size limit.
func (d *Dir) ReadFile(p string) ([]byte, error) {
	rc, err := d.Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if f, ok := rc.(fs.File); ok {
		if info, statErr := f.Stat(); statErr == nil && info.Size() >= 0 {
			if err := sizing.Check(uint64(info.Size()), d.maxFileSize, vfs.ErrSizeOverflow); err != nil {
				return nil, fmt.Errorf("%s: %w", d.Display(p), err)
			}
		}
	}
	data, err := sizing.ReadAll(rc, d.maxFileSize, vfs.ErrSizeOverflow)
	if err != nil {
		if errors.Is(err, vfs.ErrSizeOverflow) {
			return nil, fmt.Errorf("%s: %w", d.Display(p), err)
		}
		return nil, fmt.Errorf("read %s: %w", d.Display(p), err)
	}
	return data, nil
}

// Display renders p as a native path below the directory.
func (d *Dir) Display(p string) string {
	if p == "" {
		return d.location
	}
	return filepath.Join(d.location, filepath.FromSlash(p))
}

// fsPath maps a cleaned path to an fs.FS name; the root is ".".
func fsPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}
