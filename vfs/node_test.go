package vfs_test

import (
	"bytes"
	"io"
	"io/fs"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/resfs/vfs"
)

// memBackend is a minimal Backend over a path to content map. Directories are
// every proper prefix of a file path.
type memBackend struct {
	location string
	files    map[string]string
}

func (m *memBackend) Location() string { return m.location }

func (m *memBackend) IsFile(p string) bool {
	_, ok := m.files[p]
	return ok
}

func (m *memBackend) IsDir(p string) bool {
	if p == "" {
		return true
	}
	for name := range m.files {
		if strings.HasPrefix(name, p+"/") {
			return true
		}
	}
	return false
}

func (m *memBackend) Children(p string) ([]string, error) {
	if !m.IsDir(p) {
		return nil, nil
	}
	prefix := vfs.DirPrefix(p)
	var out []string
	for name := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		child, _ := vfs.Child(name, prefix)
		if !slices.Contains(out, prefix+child) {
			out = append(out, prefix+child)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (m *memBackend) Open(p string) (io.ReadCloser, error) {
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (m *memBackend) ReadFile(p string) ([]byte, error) {
	rc, err := m.Open(p)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(rc)
}

func (m *memBackend) Display(p string) string { return "mem:" + m.location + "/" + p }

func newMem(location string) *memBackend {
	return &memBackend{
		location: location,
		files: map[string]string{
			"res/values/strings.xml":    "<resources/>",
			"res/drawable/icon.9.png":   "png",
			"res/drawable/nested/x.png": "png",
			"README":                    "readme",
		},
	}
}

func TestNode_BaseName(t *testing.T) {
	t.Parallel()

	root := vfs.Root(newMem("m"))
	tests := []struct {
		path string
		want string
	}{
		{"res/drawable/icon.9.png", "icon"},
		{"README", "README"},
		{"res/values/strings.xml", "strings"},
		{".hidden", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, root.Join(tt.path).BaseName(), tt.path)
	}
}

func TestNode_JoinAssociativity(t *testing.T) {
	t.Parallel()

	root := vfs.Root(newMem("m"))
	stepwise := root.Join("a").Join("b")
	assert.True(t, stepwise.Equal(root.Join("a", "b")))
	assert.True(t, stepwise.Equal(root.Join("a/b")))
	assert.True(t, stepwise.Equal(root.Join("/a//b/")))
	assert.Equal(t, "a/b", stepwise.Path())
	assert.False(t, stepwise.Exists())
}

func TestNode_Parent(t *testing.T) {
	t.Parallel()

	root := vfs.Root(newMem("m"))
	file := root.Join("res", "values", "strings.xml")
	assert.Equal(t, "res/values", file.Parent().Path())
	assert.Equal(t, "res", file.Parent().Parent().Path())
	assert.True(t, root.Join("res").Parent().Equal(root))
	assert.True(t, root.Parent().Equal(root))
}

func TestNode_Equality(t *testing.T) {
	t.Parallel()

	a := vfs.Root(newMem("same")).Join("res")
	b := vfs.Root(newMem("same")).Join("res")
	c := vfs.Root(newMem("other")).Join("res")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.Join("values")))

	index := map[vfs.Key]string{a.Key(): "found"}
	assert.Equal(t, "found", index[b.Key()])
}

func TestNode_ListAndFilter(t *testing.T) {
	t.Parallel()

	root := vfs.Root(newMem("m"))
	children, err := root.Join("res", "drawable").List()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "icon.9.png", children[0].Name())
	assert.Equal(t, "nested", children[1].Name())
	for _, c := range children {
		assert.Same(t, root.Backend(), c.Backend())
	}

	files, err := root.Join("res", "drawable").ListFunc(vfs.Node.IsFile)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "res/drawable/icon.9.png", files[0].Path())

	none, err := root.Join("README").List()
	require.NoError(t, err)
	assert.Nil(t, none)

	empty, err := root.Join("res").ListFunc(func(vfs.Node) bool { return false })
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestNode_Read(t *testing.T) {
	t.Parallel()

	root := vfs.Root(newMem("m"))
	data, err := root.Join("README").ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, "readme", string(data))

	rc, err := root.Join("README").Open()
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	assert.Equal(t, "readme", buf.String())

	_, err = root.Join("res").ReadBytes()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNode_String(t *testing.T) {
	t.Parallel()

	n := vfs.Root(newMem("m")).Join("res", "values")
	assert.Equal(t, "mem:m/res/values", n.String())
	assert.Equal(t, "values", n.Name())
}
