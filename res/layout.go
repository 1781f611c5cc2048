package res

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"

	"github.com/meigma/resfs/vfs"
)

// androidNamespace is the namespace URI of the framework attributes.
const androidNamespace = "http://schemas.android.com/apk/res/android"

// localizedAttrs are the layout attributes that must reference string
// resources under strict i18n.
var localizedAttrs = []string{"text", "hint", "contentDescription"}

// LayoutLoader stores layout documents into Index.Layouts.
type LayoutLoader struct {
	index  *Index
	pkg    string
	strict bool
}

// NewLayoutLoader returns a layout loader. With strict set, literal text in
// localized attributes is a *ValidationError.
func NewLayoutLoader(index *Index, pkg string, strict bool) *LayoutLoader {
	return &LayoutLoader{index: index, pkg: pkg, strict: strict}
}

// Handle stores the document under layout/<basename>.
func (l *LayoutLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	if content.Doc.Root() == nil {
		return fmt.Errorf("%s: layout has no root element", node)
	}
	if l.strict {
		if err := checkLiteralText(node, content.Doc.Root()); err != nil {
			return err
		}
	}
	name := ResName{Package: l.pkg, Type: TypeLayout, Name: node.BaseName()}
	l.index.Layouts.Put(name, content.Qualifiers, Document{Doc: content.Doc, Source: node})
	return nil
}

func checkLiteralText(node vfs.Node, el *etree.Element) error {
	for i := range el.Attr {
		attr := &el.Attr[i]
		if attr.Value == "" || attr.NamespaceURI() != androidNamespace {
			continue
		}
		if !slices.Contains(localizedAttrs, attr.Key) {
			continue
		}
		if attr.Value[0] == '@' || attr.Value[0] == '?' {
			continue
		}
		return &ValidationError{
			Source:  node.String(),
			Message: fmt.Sprintf("<%s> has literal %s=%q", el.Tag, attr.FullKey(), attr.Value),
		}
	}
	for _, child := range el.ChildElements() {
		if err := checkLiteralText(node, child); err != nil {
			return err
		}
	}
	return nil
}

// MenuLoader builds menu item trees into Index.Menus.
type MenuLoader struct {
	index *Index
	pkg   string
}

// NewMenuLoader returns a menu loader.
func NewMenuLoader(index *Index, pkg string) *MenuLoader {
	return &MenuLoader{index: index, pkg: pkg}
}

// Handle parses the <menu> document into a Menu.
func (l *MenuLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	root := content.Doc.Root()
	if root == nil || root.Tag != "menu" {
		return fmt.Errorf("%s: root element is not <menu>", node)
	}
	menu := Menu{Items: menuItems(root), Source: node}
	l.index.Menus.Put(ResName{Package: l.pkg, Type: TypeMenu, Name: node.BaseName()}, content.Qualifiers, menu)
	return nil
}

func menuItems(parent *etree.Element) []MenuItem {
	var items []MenuItem
	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "item":
			item := MenuItem{
				ID:    el.SelectAttrValue("android:id", ""),
				Title: el.SelectAttrValue("android:title", ""),
			}
			if sub := el.SelectElement("menu"); sub != nil {
				item.Children = menuItems(sub)
			}
			items = append(items, item)
		case "group":
			items = append(items, MenuItem{
				ID:       el.SelectAttrValue("android:id", ""),
				Group:    true,
				Children: menuItems(el),
			})
		}
	}
	return items
}
