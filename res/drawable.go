package res

import (
	"path"
	"strings"

	"github.com/meigma/resfs/vfs"
)

const ninePatchSuffix = ".9.png"

// bitmapExts are the file extensions loaded as bitmap drawables.
var bitmapExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// DrawableLoader stores drawables into Index.Drawables.
//
// Nine-patch images are recorded by TagNinePatches before the drawable phase
// runs; Handle skips them so they never also load as plain bitmaps. A
// nine-patch also keeps its name: another drawable with the same base name
// and qualifiers, such as button.xml next to button.9.png, is not stored.
type DrawableLoader struct {
	index  *Index
	pkg    string
	tagged map[vfs.Key]struct{}
	names  map[taggedName]struct{}
}

// taggedName is a resource name and qualifier pair claimed by a nine-patch.
type taggedName struct {
	name       ResName
	qualifiers string
}

// NewDrawableLoader returns a drawable loader.
func NewDrawableLoader(index *Index, pkg string) *DrawableLoader {
	return &DrawableLoader{
		index:  index,
		pkg:    pkg,
		tagged: make(map[vfs.Key]struct{}),
		names:  make(map[taggedName]struct{}),
	}
}

// TagNinePatches records every *.9.png file directly inside the drawable
// directories of root as a nine-patch drawable.
func (l *DrawableLoader) TagNinePatches(root vfs.Node) error {
	dirs, err := PhaseDirs(root, PhaseDrawable)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		files, err := dir.Node.ListFunc(func(n vfs.Node) bool {
			return strings.HasSuffix(n.Name(), ninePatchSuffix) && n.IsFile()
		})
		if err != nil {
			return err
		}
		for _, file := range files {
			l.tagged[file.Key()] = struct{}{}
			name := ResName{Package: l.pkg, Type: TypeDrawable, Name: file.BaseName()}
			l.names[taggedName{name: name, qualifiers: dir.Qualifiers}] = struct{}{}
			l.index.Drawables.Put(name, dir.Qualifiers, Drawable{Kind: DrawableNinePatch, Source: file})
		}
	}
	return nil
}

// Tagged reports whether node was recorded as a nine-patch.
func (l *DrawableLoader) Tagged(node vfs.Node) bool {
	_, ok := l.tagged[node.Key()]
	return ok
}

// Handle stores XML drawables and bitmaps. Other files are ignored.
func (l *DrawableLoader) Handle(node vfs.Node, content Content) error {
	if l.Tagged(node) {
		return nil
	}
	d := Drawable{Source: node}
	switch {
	case content.Doc != nil:
		d.Kind = DrawableXML
		d.Doc = content.Doc
	case bitmapExts[strings.ToLower(path.Ext(node.Name()))]:
		d.Kind = DrawableBitmap
	default:
		return nil
	}
	name := ResName{Package: l.pkg, Type: TypeDrawable, Name: node.BaseName()}
	if _, claimed := l.names[taggedName{name: name, qualifiers: content.Qualifiers}]; claimed {
		return nil
	}
	l.index.Drawables.Put(name, content.Qualifiers, d)
	return nil
}
