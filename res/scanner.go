package res

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/meigma/resfs/vfs"
)

// Phase names.
const (
	PhaseValues   = "values"
	PhaseLayout   = "layout"
	PhaseMenu     = "menu"
	PhaseDrawable = "drawable"
	PhaseXML      = "xml"
	PhaseRaw      = "raw"
)

// Scanner walks the phase directories of one resource root.
type Scanner struct {
	path   ResourcePath
	logger *slog.Logger
	files  int
}

func newScanner(path ResourcePath, logger *slog.Logger) *Scanner {
	return &Scanner{path: path, logger: logger}
}

// Files returns the number of files visited so far.
func (s *Scanner) Files() int {
	return s.files
}

// Scan visits every file of phase, parsing XML files once and invoking
// handlers in order for each file. A missing phase directory visits nothing.
func (s *Scanner) Scan(phase string, handlers ...Handler) error {
	return s.scan(phase, true, handlers)
}

// ScanFiles visits every file of phase without reading or parsing it.
func (s *Scanner) ScanFiles(phase string, handlers ...Handler) error {
	return s.scan(phase, false, handlers)
}

func (s *Scanner) scan(phase string, parse bool, handlers []Handler) error {
	dirs, err := PhaseDirs(s.path.Root, phase)
	if err != nil {
		return err
	}
	s.logger.Debug("scanning phase", "phase", phase, "dirs", len(dirs), "handlers", len(handlers))

	for _, dir := range dirs {
		files, err := dir.Node.ListFunc(vfs.Node.IsFile)
		if err != nil {
			return fmt.Errorf("list %s: %w", dir.Node, err)
		}
		for _, file := range files {
			content := Content{Qualifiers: dir.Qualifiers}
			if parse && isXML(file) {
				if content.Bytes, content.Doc, err = parseXML(file); err != nil {
					return err
				}
			}
			s.files++
			for _, h := range handlers {
				if err := h.Handle(file, content); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// PhaseDir is a directory belonging to a phase.
type PhaseDir struct {
	Node       vfs.Node
	Qualifiers string
}

// PhaseDirs returns the immediate child directories of root named phase or
// phase followed by "-" and a qualifier string, in listing order.
func PhaseDirs(root vfs.Node, phase string) ([]PhaseDir, error) {
	children, err := root.ListFunc(vfs.Node.IsDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var dirs []PhaseDir
	for _, child := range children {
		name := child.Name()
		if name == phase {
			dirs = append(dirs, PhaseDir{Node: child})
			continue
		}
		if qualifiers, ok := strings.CutPrefix(name, phase+"-"); ok && qualifiers != "" {
			dirs = append(dirs, PhaseDir{Node: child, Qualifiers: qualifiers})
		}
	}
	return dirs, nil
}

func isXML(n vfs.Node) bool {
	return strings.HasSuffix(n.Name(), ".xml")
}

func parseXML(n vfs.Node) ([]byte, *etree.Document, error) {
	data, err := n.ReadBytes()
	if err != nil {
		return nil, nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", n, err)
	}
	return data, doc, nil
}
