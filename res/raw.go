package res

import (
	_ "crypto/sha256" // registers the canonical digest algorithm
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/resfs/vfs"
)

// RawLoader records raw files with their content digest into Index.Raw.
type RawLoader struct {
	index *Index
	pkg   string
}

// NewRawLoader returns a raw resource loader.
func NewRawLoader(index *Index, pkg string) *RawLoader {
	return &RawLoader{index: index, pkg: pkg}
}

// Handle digests the file and stores it under raw/<basename>.
func (l *RawLoader) Handle(node vfs.Node, content Content) error {
	rc, err := node.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	counter := &countingReader{r: rc}
	dgst, err := digest.FromReader(counter)
	if err != nil {
		return fmt.Errorf("digest %s: %w", node, err)
	}
	name := ResName{Package: l.pkg, Type: TypeRaw, Name: node.BaseName()}
	l.index.Raw.Put(name, content.Qualifiers, Raw{Digest: dgst, Size: counter.n, Source: node})
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
