package vfs

import "strings"

// Separator is the path separator used by every backend.
const Separator = '/'

// CleanPath converts a user-provided path to the internal segment form.
//
// It performs the following transformations:
//   - Strips leading and trailing slashes: "/res/values/" → "res/values"
//   - Collapses consecutive slashes: "res//values" → "res/values"
//   - Converts the empty string and "/" to the root: "" → ""
//
// Dot segments are kept as-is; backends treat them as ordinary names.
func CleanPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	if !strings.Contains(p, "//") {
		return p
	}
	parts := strings.Split(p, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}

// JoinPath appends segments to a cleaned path. Segments may themselves
// contain separators.
func JoinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		seg = CleanPath(seg)
		if seg == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(Separator)
		}
		b.WriteString(seg)
	}
	return b.String()
}

// BaseOf returns the last segment of a cleaned path, or "" for the root.
func BaseOf(p string) string {
	if i := strings.LastIndexByte(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// DirOf returns the path with its last segment removed. The root is its own
// parent.
func DirOf(p string) string {
	if i := strings.LastIndexByte(p, Separator); i >= 0 {
		return p[:i]
	}
	return ""
}

// DirPrefix converts a directory path to the prefix shared by its children.
// The root maps to "" so that every path matches.
func DirPrefix(p string) string {
	if p == "" {
		return ""
	}
	return p + string(Separator)
}

// Child extracts the immediate child name of path below prefix, and whether
// further segments follow it. path must start with prefix.
func Child(path, prefix string) (name string, nested bool) {
	rel := path[len(prefix):]
	if i := strings.IndexByte(rel, Separator); i >= 0 {
		return rel[:i], true
	}
	return rel, false
}
