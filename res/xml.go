package res

import "github.com/meigma/resfs/vfs"

// preferenceRoot is the root element of preference screen documents.
const preferenceRoot = "PreferenceScreen"

// PreferenceLoader stores preference screen documents found in the xml
// phase into Index.Preferences.
type PreferenceLoader struct {
	index *Index
	pkg   string
}

// NewPreferenceLoader returns a preference loader.
func NewPreferenceLoader(index *Index, pkg string) *PreferenceLoader {
	return &PreferenceLoader{index: index, pkg: pkg}
}

// Handle stores the document when its root is a PreferenceScreen.
func (l *PreferenceLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	root := content.Doc.Root()
	if root == nil || root.Tag != preferenceRoot {
		return nil
	}
	name := ResName{Package: l.pkg, Type: TypeXML, Name: node.BaseName()}
	l.index.Preferences.Put(name, content.Qualifiers, Document{Doc: content.Doc, Source: node})
	return nil
}

// XMLFileLoader stores every XML document of the xml phase into
// Index.XMLFiles.
type XMLFileLoader struct {
	index *Index
	pkg   string
}

// NewXMLFileLoader returns an XML file loader.
func NewXMLFileLoader(index *Index, pkg string) *XMLFileLoader {
	return &XMLFileLoader{index: index, pkg: pkg}
}

// Handle stores the document under xml/<basename>.
func (l *XMLFileLoader) Handle(node vfs.Node, content Content) error {
	if content.Doc == nil {
		return nil
	}
	name := ResName{Package: l.pkg, Type: TypeXML, Name: node.BaseName()}
	l.index.XMLFiles.Put(name, content.Qualifiers, Document{Doc: content.Doc, Source: node})
	return nil
}
