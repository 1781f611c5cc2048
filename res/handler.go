package res

import (
	"github.com/beevik/etree"

	"github.com/meigma/resfs/vfs"
)

// Content is what a Handler receives for one file.
type Content struct {
	// Qualifiers is the directory name suffix after the phase name,
	// e.g. "fr" for values-fr. It is "" for the unqualified directory.
	Qualifiers string

	// Doc is the parsed document of an XML file, shared by every handler of
	// the phase. It is nil for other files and for raw scans.
	Doc *etree.Document

	// Bytes holds the content of XML files. Other files are not read;
	// handlers that need them read through the node.
	Bytes []byte
}

// Handler consumes the files of a phase and writes into an index.
//
// Returning a *ValidationError aborts the load and reaches the caller
// unchanged; any other error aborts the load as a *LoadError.
type Handler interface {
	Handle(node vfs.Node, content Content) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(node vfs.Node, content Content) error

// Handle calls f.
func (f HandlerFunc) Handle(node vfs.Node, content Content) error {
	return f(node, content)
}
