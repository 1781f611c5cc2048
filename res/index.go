package res

import (
	"github.com/beevik/etree"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/resfs/vfs"
)

// Value is a simple resource value or array.
type Value struct {
	Type   ResType
	Text   string   // scalar types
	Items  []string // array types
	Source vfs.Node
}

// Plural maps quantity keywords ("one", "other", ...) to strings.
type Plural struct {
	Quantities map[string]string
	Source     vfs.Node
}

// AttrValue is one enum or flag constant of an attribute.
type AttrValue struct {
	Name  string
	Value string
}

// Attr is a declared attribute.
type Attr struct {
	Format    string
	Kind      string // "enum", "flag" or ""
	Values    []AttrValue
	Styleable string // enclosing declare-styleable, if any
	Source    vfs.Node
}

// Document is a parsed XML resource file.
type Document struct {
	Doc    *etree.Document
	Source vfs.Node
}

// MenuItem is an item, group or sub-menu entry of a menu resource.
type MenuItem struct {
	ID       string
	Title    string
	Group    bool
	Children []MenuItem
}

// Menu is a parsed menu resource.
type Menu struct {
	Items  []MenuItem
	Source vfs.Node
}

// DrawableKind classifies a drawable resource.
type DrawableKind int

// Drawable kinds.
const (
	DrawableBitmap DrawableKind = iota
	DrawableXML
	DrawableNinePatch
)

func (k DrawableKind) String() string {
	switch k {
	case DrawableBitmap:
		return "bitmap"
	case DrawableXML:
		return "xml"
	case DrawableNinePatch:
		return "nine-patch"
	default:
		return "unknown"
	}
}

// Drawable is a drawable resource. Doc is set for XML drawables.
type Drawable struct {
	Kind   DrawableKind
	Doc    *etree.Document
	Source vfs.Node
}

// Raw is an unparsed resource file.
type Raw struct {
	Digest digest.Digest
	Size   int64
	Source vfs.Node
}

// Index is the caller-owned accumulation target of a load.
type Index struct {
	Values      *Bundle[Value]
	Plurals     *Bundle[Plural]
	Attrs       *Bundle[Attr]
	Layouts     *Bundle[Document]
	Menus       *Bundle[Menu]
	Drawables   *Bundle[Drawable]
	Preferences *Bundle[Document]
	XMLFiles    *Bundle[Document]
	Raw         *Bundle[Raw]
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		Values:      NewBundle[Value](),
		Plurals:     NewBundle[Plural](),
		Attrs:       NewBundle[Attr](),
		Layouts:     NewBundle[Document](),
		Menus:       NewBundle[Menu](),
		Drawables:   NewBundle[Drawable](),
		Preferences: NewBundle[Document](),
		XMLFiles:    NewBundle[Document](),
		Raw:         NewBundle[Raw](),
	}
}

// Counts returns the number of entries per category, keyed by the names
// used in logs and summaries.
func (i *Index) Counts() map[string]int {
	return map[string]int{
		"values":      i.Values.Len(),
		"plurals":     i.Plurals.Len(),
		"attrs":       i.Attrs.Len(),
		"layouts":     i.Layouts.Len(),
		"menus":       i.Menus.Len(),
		"drawables":   i.Drawables.Len(),
		"preferences": i.Preferences.Len(),
		"xml":         i.XMLFiles.Len(),
		"raw":         i.Raw.Len(),
	}
}
