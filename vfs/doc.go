// Package vfs provides a read-only file tree abstraction over interchangeable
// storage backends.
//
// A [Node] addresses a file or directory by a backend and a normalized,
// slash-separated path. Nodes carry no I/O logic of their own; existence,
// listing and reads are answered by the [Backend] that produced them:
//   - vfs/archive: zip-format archives (jar, apk, aar, zip) indexed once at open time
//   - vfs/disk: native directories, queried live
//
// Node equality is defined by the backend's location string and the path,
// never by backend instance identity, so nodes from two independently opened
// backends over the same location are interchangeable as map keys (see [Key]).
package vfs
