package res

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/meigma/resfs/vfs"
)

// ValueLoader records one kind of element under <resources> into
// Index.Values. Elements of other kinds are ignored.
type ValueLoader struct {
	index  *Index
	pkg    string
	tag    string
	typ    string
	kind   ResType
	strict bool
}

// NewValueLoader returns a loader for /resources/<tag> elements stored as
// resources of type typ.
func NewValueLoader(index *Index, pkg, tag, typ string, kind ResType) *ValueLoader {
	return &ValueLoader{index: index, pkg: pkg, tag: tag, typ: typ, kind: kind}
}

// valueLoaders returns the value phase handlers in load order.
func valueLoaders(index *Index, pkg string, strict bool) []Handler {
	str := NewValueLoader(index, pkg, "string", TypeString, ResTypeCharSequence)
	str.strict = strict
	return []Handler{
		NewValueLoader(index, pkg, "bool", TypeBool, ResTypeBoolean),
		NewValueLoader(index, pkg, "color", TypeColor, ResTypeColor),
		NewValueLoader(index, pkg, "dimen", TypeDimen, ResTypeDimen),
		NewValueLoader(index, pkg, "integer", TypeInteger, ResTypeInteger),
		NewValueLoader(index, pkg, "integer-array", TypeArray, ResTypeIntegerArray),
		NewPluralLoader(index, pkg),
		str,
		NewValueLoader(index, pkg, "string-array", TypeArray, ResTypeCharSequenceArray),
		NewAttrLoader(index, pkg),
	}
}

// Handle records every matching element of the document.
func (l *ValueLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	for _, el := range content.Doc.FindElements("/resources/" + l.tag) {
		name, err := requireName(node, el)
		if err != nil {
			return err
		}
		v := Value{Type: l.kind, Source: node}
		if l.kind.IsArray() {
			for _, item := range el.SelectElements("item") {
				v.Items = append(v.Items, strings.TrimSpace(innerText(item)))
			}
		} else {
			v.Text = strings.TrimSpace(innerText(el))
		}
		if l.strict {
			if err := checkFormat(node, name, v.Text); err != nil {
				return err
			}
		}
		l.index.Values.Put(ResName{Package: l.pkg, Type: l.typ, Name: name}, content.Qualifiers, v)
	}
	return nil
}

// PluralLoader records /resources/plurals elements into Index.Plurals.
type PluralLoader struct {
	index *Index
	pkg   string
}

// NewPluralLoader returns a plurals loader.
func NewPluralLoader(index *Index, pkg string) *PluralLoader {
	return &PluralLoader{index: index, pkg: pkg}
}

// Handle records every plurals element of the document.
func (l *PluralLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	for _, el := range content.Doc.FindElements("/resources/plurals") {
		name, err := requireName(node, el)
		if err != nil {
			return err
		}
		p := Plural{Quantities: make(map[string]string), Source: node}
		for _, item := range el.SelectElements("item") {
			quantity := item.SelectAttrValue("quantity", "")
			if quantity == "" {
				return fmt.Errorf("%s: plurals %q has an item without quantity", node, name)
			}
			p.Quantities[quantity] = strings.TrimSpace(innerText(item))
		}
		l.index.Plurals.Put(ResName{Package: l.pkg, Type: TypePlurals, Name: name}, content.Qualifiers, p)
	}
	return nil
}

// AttrLoader records attribute declarations, top-level and inside
// declare-styleable, into Index.Attrs.
type AttrLoader struct {
	index *Index
	pkg   string
}

// NewAttrLoader returns an attribute loader.
func NewAttrLoader(index *Index, pkg string) *AttrLoader {
	return &AttrLoader{index: index, pkg: pkg}
}

// Handle records every attr element of the document.
func (l *AttrLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	for _, el := range content.Doc.FindElements("/resources/attr") {
		if err := l.put(node, content.Qualifiers, el, ""); err != nil {
			return err
		}
	}
	for _, styleable := range content.Doc.FindElements("/resources/declare-styleable") {
		for _, el := range styleable.SelectElements("attr") {
			if err := l.put(node, content.Qualifiers, el, styleable.SelectAttrValue("name", "")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *AttrLoader) put(node vfs.Node, qualifiers string, el *etree.Element, styleable string) error {
	name, err := requireName(node, el)
	if err != nil {
		return err
	}
	key := ResName{Package: l.pkg, Type: TypeAttr, Name: name}
	attr := Attr{Format: el.SelectAttrValue("format", ""), Styleable: styleable, Source: node}
	for _, child := range el.ChildElements() {
		if child.Tag != "enum" && child.Tag != "flag" {
			continue
		}
		attr.Kind = child.Tag
		attr.Values = append(attr.Values, AttrValue{
			Name:  child.SelectAttrValue("name", ""),
			Value: child.SelectAttrValue("value", ""),
		})
	}
	// A bare reference inside a styleable does not replace a declaration.
	if styleable != "" && attr.Format == "" && attr.Kind == "" && l.index.Attrs.Contains(key) {
		return nil
	}
	l.index.Attrs.Put(key, qualifiers, attr)
	return nil
}

func requireName(node vfs.Node, el *etree.Element) (string, error) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return "", fmt.Errorf("%s: <%s> without name", node, el.Tag)
	}
	return name, nil
}

// innerText concatenates the character data of el and its descendants.
func innerText(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

// formatSpec matches printf-style specifiers: an optional argument index,
// flags, width and precision, then a conversion. "%%" and "%n" are matched
// so they can be skipped.
var formatSpec = regexp.MustCompile(`%(\d+\$)?([-#+0,(<]*\d*(?:\.\d+)?)([tT][a-zA-Z]|[bBhHsScCdoxXeEfgGaAn%])`)

// checkFormat rejects strings whose format specifiers cannot be reordered
// by translators: several without explicit argument indexes, or a mix of
// indexed and unindexed ones.
func checkFormat(node vfs.Node, name, text string) error {
	var positional, sequential int
	for _, m := range formatSpec.FindAllStringSubmatchIndex(text, -1) {
		conversion := text[m[6]:m[7]]
		if conversion == "%" || conversion == "n" {
			continue
		}
		if m[2] >= 0 {
			positional++
			continue
		}
		if m[4] == m[5] && literalPercent(text, m[0], m[1]) {
			continue
		}
		sequential++
	}
	switch {
	case positional > 0 && sequential > 0:
		return &ValidationError{
			Source:  node.String(),
			Message: fmt.Sprintf("string %q mixes positional and sequential format arguments", name),
		}
	case sequential > 1:
		return &ValidationError{
			Source:  node.String(),
			Message: fmt.Sprintf("string %q has %d format arguments without positions", name, sequential),
		}
	}
	return nil
}

// literalPercent reports whether the bare specifier text[start:end] is a
// percent sign inside prose, as in "50%off": it follows a digit and runs
// straight into a letter.
func literalPercent(text string, start, end int) bool {
	return start > 0 && isDigit(text[start-1]) && end < len(text) && isLetter(text[end])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
