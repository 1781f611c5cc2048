package res

import "github.com/meigma/resfs/vfs"

// ResourcePath identifies one resource root and the package that owns it.
type ResourcePath struct {
	PackageName string
	Root        vfs.Node
}

// NewResourcePath returns the resource path for root owned by pkg.
func NewResourcePath(pkg string, root vfs.Node) ResourcePath {
	return ResourcePath{PackageName: pkg, Root: root}
}

func (p ResourcePath) String() string {
	return p.PackageName + "@" + p.Root.String()
}
