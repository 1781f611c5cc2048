// Package archive implements a vfs.Backend over zip-format archives
// (jar, apk, aar, zip).
//
// The archive's central directory is read once at construction into an
// immutable, lexicographically sorted index of entry names. Existence checks
// are exact lookups and directory listings are O(log n + k) range scans over
// that index. Entries compressed with zstd (zip method 93) are supported in
// addition to store and deflate.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/resfs/internal/sizing"
	"github.com/meigma/resfs/vfs"
)

// upperSep is the byte immediately following the separator. Every key that
// starts with "dir/" sorts below "dir" + upperSep.
const upperSep = vfs.Separator + 1

// Interface compliance.
var _ vfs.Backend = (*Archive)(nil)

// Archive is a read-only view of a zip-format archive.
//
// Archive is immutable after construction and safe for concurrent use.
type Archive struct {
	location           string
	file               *os.File // nil when the caller owns the reader
	names              []string // sorted entry names, directories end in "/"
	entries            map[string]*zip.File
	maxFileSize        uint64
	maxDecoderMemory   uint64
	decoderConcurrency int
	synthesizeDirs     bool
	logger             *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Open opens the archive file at path and indexes it.
//
// The path is kept verbatim as the archive's location string. The returned
// Archive must be closed to release the file handle.
func Open(path string, opts ...Option) (*Archive, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive %s: %w", path, err)
	}
	a, err := New(path, f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}

// New indexes the archive readable through r, which holds size bytes.
//
// location becomes the archive's identity: nodes from two Archives with the
// same location compare equal. The caller keeps ownership of r.
func New(location string, r io.ReaderAt, size int64, opts ...Option) (*Archive, error) {
	a := &Archive{
		location:           location,
		maxFileSize:        DefaultMaxFileSize,
		decoderConcurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", location, err)
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor(a.decoderOptions()...))

	// Later duplicates replace earlier ones.
	a.entries = make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		a.entries[f.Name] = f
	}
	a.names = slices.Sorted(maps.Keys(a.entries))

	a.log().Debug("archive indexed", "location", location, "entries", len(a.names))
	return a, nil
}

func (a *Archive) decoderOptions() []zstd.DOption {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(a.decoderConcurrency)}
	if a.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(a.maxDecoderMemory))
	}
	return opts
}

// Location returns the location string the archive was opened with.
func (a *Archive) Location() string {
	return a.location
}

// Len returns the number of entries in the index, directories included.
func (a *Archive) Len() int {
	return len(a.names)
}

// Close releases the archive file when it was opened by Open. It is safe to
// call more than once and from several goroutines; every call returns the
// result of the first.
func (a *Archive) Close() error {
	a.closeOnce.Do(func() {
		if a.file != nil {
			a.closeErr = a.file.Close()
		}
	})
	return a.closeErr
}

// IsFile reports whether p is stored as a file entry.
func (a *Archive) IsFile(p string) bool {
	if p == "" {
		return false
	}
	_, ok := a.entries[p]
	return ok
}

// IsDir reports whether p has an explicit directory entry. With synthesized
// directories, any entry nested below p also qualifies. The root is always a
// directory.
func (a *Archive) IsDir(p string) bool {
	if p == "" {
		return true
	}
	if _, ok := a.entries[vfs.DirPrefix(p)]; ok {
		return true
	}
	return a.synthesizeDirs && len(a.scan(vfs.DirPrefix(p))) > 0
}

// Children lists the immediate children of directory p in index order.
func (a *Archive) Children(p string) ([]string, error) {
	if !a.IsDir(p) {
		return nil, nil
	}
	prefix := vfs.DirPrefix(p)

	var children []string
	lastDir := ""
	for _, key := range a.scan(prefix) {
		name, nested := vfs.Child(key, prefix)
		switch {
		case name == "":
			// The directory's own entry.
			continue
		case !nested:
			children = append(children, key)
			continue
		case len(key) == len(prefix)+len(name)+1:
			// "prefix/name/" is an explicit directory entry.
		case !a.synthesizeDirs:
			// Deeper descendants are exposed by their own directory.
			continue
		}
		child := prefix + name
		if child == lastDir {
			continue
		}
		lastDir = child
		children = append(children, child)
	}
	return children, nil
}

// scan returns the sorted keys starting with prefix.
//
// The range is [prefix, prefix minus its trailing separator + upperSep).
// Because the separator sorts immediately below upperSep, every key sharing
// the prefix falls inside the range and every other key falls outside it.
func (a *Archive) scan(prefix string) []string {
	if prefix == "" {
		return a.names
	}
	upper := prefix[:len(prefix)-1] + string(rune(upperSep))
	lo := sort.SearchStrings(a.names, prefix)
	hi := lo + sort.SearchStrings(a.names[lo:], upper)
	return a.names[lo:hi]
}

// lookup returns the file entry at p.
func (a *Archive) lookup(op, p string) (*zip.File, error) {
	f, ok := a.entries[p]
	if !ok || p == "" || strings.HasSuffix(p, "/") {
		return nil, &fs.PathError{Op: op, Path: a.Display(p), Err: fs.ErrNotExist}
	}
	return f, nil
}

// Open opens the file entry at p.
func (a *Archive) Open(p string) (io.ReadCloser, error) {
	f, err := a.lookup("open", p)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: a.Display(p), Err: err}
	}
	return rc, nil
}

// ReadFile reads and decompresses the file entry at p.
func (a *Archive) ReadFile(p string) ([]byte, error) {
	f, err := a.lookup("readfile", p)
	if err != nil {
		return nil, err
	}
	if err := sizing.Check(f.UncompressedSize64, a.maxFileSize, vfs.ErrSizeOverflow); err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: a.Display(p), Err: err}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: a.Display(p), Err: err}
	}
	defer rc.Close()

	data, err := sizing.ReadAll(rc, a.maxFileSize, vfs.ErrSizeOverflow)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: a.Display(p), Err: err}
	}
	return data, nil
}

// Display renders p as archive:<location>!/<p>.
func (a *Archive) Display(p string) string {
	return "archive:" + a.location + "!/" + p
}
