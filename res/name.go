package res

// Resource type names as they appear in resource references.
const (
	TypeBool     = "bool"
	TypeColor    = "color"
	TypeDimen    = "dimen"
	TypeInteger  = "integer"
	TypeArray    = "array"
	TypePlurals  = "plurals"
	TypeString   = "string"
	TypeAttr     = "attr"
	TypeLayout   = "layout"
	TypeMenu     = "menu"
	TypeDrawable = "drawable"
	TypeXML      = "xml"
	TypeRaw      = "raw"
)

// ResType classifies the value held by a Value.
type ResType int

// Value kinds.
const (
	ResTypeBoolean ResType = iota
	ResTypeColor
	ResTypeDimen
	ResTypeInteger
	ResTypeIntegerArray
	ResTypeCharSequence
	ResTypeCharSequenceArray
)

var resTypeNames = [...]string{
	ResTypeBoolean:           "boolean",
	ResTypeColor:             "color",
	ResTypeDimen:             "dimen",
	ResTypeInteger:           "integer",
	ResTypeIntegerArray:      "integer-array",
	ResTypeCharSequence:      "char-sequence",
	ResTypeCharSequenceArray: "char-sequence-array",
}

func (t ResType) String() string {
	if t >= 0 && int(t) < len(resTypeNames) {
		return resTypeNames[t]
	}
	return "unknown"
}

// IsArray reports whether values of this type carry Items instead of Text.
func (t ResType) IsArray() bool {
	return t == ResTypeIntegerArray || t == ResTypeCharSequenceArray
}

// ResName is the fully qualified name of a resource.
type ResName struct {
	Package string
	Type    string
	Name    string
}

// String formats the name as package:type/name.
func (n ResName) String() string {
	return n.Package + ":" + n.Type + "/" + n.Name
}
