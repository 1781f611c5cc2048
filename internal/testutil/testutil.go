// Package testutil builds archive and directory fixtures for tests.
package testutil

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Compression methods for Entry.Method.
const (
	Store   = zip.Store
	Deflate = zip.Deflate
	Zstd    = zstd.ZipMethodWinZip
)

// Entry is one archive member. Names ending in "/" become directory entries.
type Entry struct {
	Name   string
	Data   string
	Method uint16
}

// Dirs returns directory entries for names, appending "/" where missing.
func Dirs(names ...string) []Entry {
	entries := make([]Entry, len(names))
	for i, name := range names {
		if !strings.HasSuffix(name, "/") {
			name += "/"
		}
		entries[i] = Entry{Name: name}
	}
	return entries
}

// Files returns deflated file entries from a name to content map.
// Map iteration order is random, which exercises order independence of the index.
func Files(files map[string]string) []Entry {
	entries := make([]Entry, 0, len(files))
	for name, data := range files {
		entries = append(entries, Entry{Name: name, Data: data, Method: Deflate})
	}
	return entries
}

// Tree returns entries for files plus an explicit directory entry for every
// ancestor directory, sorted by name. File content is deflated.
func Tree(files map[string]string) []Entry {
	seen := make(map[string]bool)
	var entries []Entry
	for name, data := range files {
		for dir := path.Dir(name); dir != "." && !seen[dir]; dir = path.Dir(dir) {
			seen[dir] = true
			entries = append(entries, Entry{Name: dir + "/"})
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		entries = append(entries, Entry{Name: name, Data: data, Method: Deflate})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries
}

// BuildZip writes entries, in the given order, into an in-memory zip archive.
func BuildZip(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	for _, e := range entries {
		method := e.Method
		if strings.HasSuffix(e.Name, "/") {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: method})
		if err != nil {
			tb.Fatalf("create %s: %v", e.Name, err)
		}
		if e.Data == "" {
			continue
		}
		if _, err := w.Write([]byte(e.Data)); err != nil {
			tb.Fatalf("write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes a zip archive named name into dir and returns its path.
func WriteZip(tb testing.TB, dir, name string, entries ...Entry) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildZip(tb, entries...), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteTree creates files below dir from slash-separated names. Names ending
// in "/" create empty directories.
func WriteTree(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()

	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				tb.Fatalf("mkdir %s: %v", path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}
}
