package vfs

import (
	"io"
	"strings"
)

// Backend answers existence, listing and read queries for cleaned paths.
//
// Paths passed to a Backend are always in [CleanPath] form; the root is "".
// Implementations must be safe for concurrent reads once constructed.
type Backend interface {
	// Location returns the stable identifier of the storage, e.g. the
	// archive file name. Node equality is defined in terms of it.
	Location() string

	// IsDir reports whether p names a directory.
	IsDir(p string) bool

	// IsFile reports whether p names a readable file.
	IsFile(p string) bool

	// Children returns the paths of the immediate children of directory p.
	// It returns nil when p is not a directory.
	Children(p string) ([]string, error)

	// Open opens the file at p for reading.
	// It returns an *fs.PathError wrapping fs.ErrNotExist if p is not a file.
	Open(p string) (io.ReadCloser, error)

	// ReadFile reads the whole file at p.
	ReadFile(p string) ([]byte, error)

	// Display renders p for humans.
	Display(p string) string
}

// Key identifies a node independently of the backend instance that produced
// it. Keys are comparable and serve as the node's hash.
type Key struct {
	Location string
	Path     string
}

// Node is an addressable file or directory within a Backend.
//
// Node values are immutable. Compare nodes with Equal or through Key; the ==
// operator also compares backend instances and is rarely what callers want.
type Node struct {
	backend Backend
	path    string
}

// NewNode returns the node for p within b. The path is cleaned.
func NewNode(b Backend, p string) Node {
	return Node{backend: b, path: CleanPath(p)}
}

// Root returns the root node of b.
func Root(b Backend) Node {
	return Node{backend: b}
}

// Backend returns the backend that owns the node.
func (n Node) Backend() Backend {
	return n.backend
}

// Path returns the cleaned path of the node; the root is "".
func (n Node) Path() string {
	return n.path
}

// Key returns the identity of the node.
func (n Node) Key() Key {
	return Key{Location: n.backend.Location(), Path: n.path}
}

// Equal reports whether both nodes address the same path in storage with the
// same location string.
func (n Node) Equal(other Node) bool {
	if n.backend == nil || other.backend == nil {
		return n.backend == other.backend && n.path == other.path
	}
	return n.Key() == other.Key()
}

// Exists reports whether the node is a file or a directory.
func (n Node) Exists() bool {
	return n.IsFile() || n.IsDir()
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool {
	return n.backend.IsDir(n.path)
}

// IsFile reports whether the node is a readable file.
func (n Node) IsFile() bool {
	return n.backend.IsFile(n.path)
}

// List returns the immediate children of the node. A node that is not a
// directory has no children; that is not an error.
func (n Node) List() ([]Node, error) {
	paths, err := n.backend.Children(n.path)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	nodes := make([]Node, len(paths))
	for i, p := range paths {
		nodes[i] = Node{backend: n.backend, path: p}
	}
	return nodes, nil
}

// ListFunc returns the immediate children for which keep reports true.
func (n Node) ListFunc(keep func(Node) bool) ([]Node, error) {
	children, err := n.List()
	if err != nil {
		return nil, err
	}
	kept := children[:0]
	for _, child := range children {
		if keep(child) {
			kept = append(kept, child)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	return kept, nil
}

// Name returns the final path segment, or "" for the root.
func (n Node) Name() string {
	return BaseOf(n.path)
}

// BaseName returns the name up to, not including, its first '.'.
// "icon.9.png" yields "icon"; a name without a dot is returned unchanged.
func (n Node) BaseName() string {
	name := n.Name()
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Parent returns the node with the final segment removed. The parent of the
// root is the root.
func (n Node) Parent() Node {
	return Node{backend: n.backend, path: DirOf(n.path)}
}

// Join returns the node for the path extended by segments. The result need
// not exist.
func (n Node) Join(segments ...string) Node {
	return Node{backend: n.backend, path: JoinPath(n.path, segments...)}
}

// Open opens the file for reading.
func (n Node) Open() (io.ReadCloser, error) {
	return n.backend.Open(n.path)
}

// ReadBytes reads the whole file.
func (n Node) ReadBytes() ([]byte, error) {
	return n.backend.ReadFile(n.path)
}

// String returns the backend-specific display path.
func (n Node) String() string {
	if n.backend == nil {
		return n.path
	}
	return n.backend.Display(n.path)
}
