package archive

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/resfs/internal/testutil"
	"github.com/meigma/resfs/vfs"
)

func newTestArchive(t *testing.T, location string, entries []testutil.Entry, opts ...Option) *Archive {
	t.Helper()
	data := testutil.BuildZip(t, entries...)
	a, err := New(location, bytes.NewReader(data), int64(len(data)), opts...)
	require.NoError(t, err)
	return a
}

func names(nodes []vfs.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestArchive_ListImmediateChildren(t *testing.T) {
	t.Parallel()

	// Insertion order is deliberately scrambled.
	entries := []testutil.Entry{
		{Name: "res/values/deep/nested.xml", Data: "n", Method: testutil.Deflate},
		{Name: "res/values/strings.xml", Data: "<resources/>", Method: testutil.Deflate},
		{Name: "res/"},
		{Name: "res/values/deep/"},
		{Name: "res/values-fr/"},
		{Name: "res/values/"},
		{Name: "res/a.txt", Data: "a", Method: testutil.Store},
		{Name: "res0.txt", Data: "sibling", Method: testutil.Store},
		{Name: "res-extra/"},
	}
	a := newTestArchive(t, "app.jar", entries)

	children, err := vfs.Root(a).Join("res").List()
	require.NoError(t, err)
	// "-" sorts below "/", so values-fr precedes values.
	assert.Equal(t, []string{"a.txt", "values-fr", "values"}, names(children))

	values, err := vfs.Root(a).Join("res", "values").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"deep", "strings.xml"}, names(values))
	for _, n := range values {
		assert.Equal(t, "res/values/"+n.Name(), n.Path())
	}

	rootChildren, err := vfs.Root(a).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"res-extra", "res", "res0.txt"}, names(rootChildren))
}

func TestArchive_ResListingScenario(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		{Name: "res/"},
		{Name: "res/values/"},
		{Name: "res/values/strings.xml", Data: "<resources/>", Method: testutil.Deflate},
		{Name: "res/drawable/"},
		{Name: "res/drawable/icon.png", Data: "png", Method: testutil.Store},
	}
	a := newTestArchive(t, "app.jar", entries)
	res := vfs.Root(a).Join("res")

	children, err := res.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"values", "drawable"}, names(children))
	for _, c := range children {
		assert.True(t, c.IsDir())
	}

	values, err := res.Join("values").List()
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "strings.xml", values[0].Name())
	assert.True(t, values[0].IsFile())
}

func TestArchive_MissingDirectoryEntries(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		{Name: "res/values/"},
		{Name: "res/values/strings.xml", Data: "<resources/>", Method: testutil.Deflate},
		{Name: "res/drawable/icon.png", Data: "png", Method: testutil.Store},
	}

	t.Run("explicit only", func(t *testing.T) {
		t.Parallel()
		a := newTestArchive(t, "app.jar", entries)
		res := vfs.Root(a).Join("res")

		assert.False(t, res.IsDir())
		assert.False(t, res.Exists())
		children, err := res.List()
		require.NoError(t, err)
		assert.Empty(t, children)

		assert.False(t, res.Join("drawable").IsDir())
		assert.True(t, res.Join("drawable", "icon.png").IsFile())
	})

	t.Run("synthesized", func(t *testing.T) {
		t.Parallel()
		a := newTestArchive(t, "app.jar", entries, WithSynthesizedDirs(true))
		res := vfs.Root(a).Join("res")

		assert.True(t, res.IsDir())
		children, err := res.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"drawable", "values"}, names(children))

		values, err := res.Join("values").List()
		require.NoError(t, err)
		assert.Equal(t, []string{"strings.xml"}, names(values))
	})
}

func TestArchive_FileAndDirectoryQueries(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, "app.jar", []testutil.Entry{
		{Name: "res/"},
		{Name: "res/values/"},
		{Name: "res/values/strings.xml", Data: "<resources/>", Method: testutil.Deflate},
	})
	root := vfs.Root(a)

	tests := []struct {
		path         string
		isFile       bool
		isDir        bool
		shouldExists bool
	}{
		{"", false, true, true},
		{"res", false, true, true},
		{"res/values", false, true, true},
		{"res/values/strings.xml", true, false, true},
		{"res/values/missing.xml", false, false, false},
		{"res/val", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			n := root.Join(tt.path)
			assert.Equal(t, tt.isFile, n.IsFile())
			assert.Equal(t, tt.isDir, n.IsDir())
			assert.Equal(t, tt.shouldExists, n.Exists())
		})
	}

	files, err := root.Join("res/values/strings.xml").List()
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestArchive_ConcurrentClose(t *testing.T) {
	t.Parallel()

	path := testutil.WriteZip(t, t.TempDir(), "app.jar",
		testutil.Entry{Name: "a.txt", Data: "a", Method: testutil.Store})
	a, err := Open(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Close())
		}()
	}
	wg.Wait()
	require.NoError(t, a.Close())

	_, err = vfs.Root(a).Join("a.txt").ReadBytes()
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestArchive_ReadBytes(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, "app.jar", []testutil.Entry{
		{Name: "res/"},
		{Name: "stored.txt", Data: "stored", Method: testutil.Store},
		{Name: "deflated.txt", Data: "deflated content", Method: testutil.Deflate},
		{Name: "zstd.txt", Data: "zstd content zstd content", Method: testutil.Zstd},
	})
	root := vfs.Root(a)

	for name, want := range map[string]string{
		"stored.txt":   "stored",
		"deflated.txt": "deflated content",
		"zstd.txt":     "zstd content zstd content",
	} {
		got, err := root.Join(name).ReadBytes()
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got))

		rc, err := root.Join(name).Open()
		require.NoError(t, err, name)
		streamed, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, want, string(streamed))
	}

	_, err := root.Join("missing.txt").ReadBytes()
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = root.Join("res").ReadBytes()
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = root.Open()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestArchive_MaxFileSize(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, "app.jar", []testutil.Entry{
		{Name: "big.txt", Data: "0123456789", Method: testutil.Deflate},
	}, WithMaxFileSize(4))

	_, err := vfs.Root(a).Join("big.txt").ReadBytes()
	assert.ErrorIs(t, err, vfs.ErrSizeOverflow)
}

func TestArchive_DisplayPath(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, "app.jar", []testutil.Entry{{Name: "res/"}})
	n := vfs.Root(a).Join("res/values/strings.xml")
	assert.Equal(t, "archive:app.jar!/res/values/strings.xml", n.String())
}

func TestArchive_EqualityAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteZip(t, dir, "app.jar", testutil.Entry{Name: "res/"})

	first, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { first.Close() })
	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	a := vfs.Root(first).Join("res", "values")
	b := vfs.Root(second).Join("res").Join("values")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())

	seen := map[vfs.Key]bool{a.Key(): true}
	assert.True(t, seen[b.Key()])

	other := newTestArchive(t, "other.jar", []testutil.Entry{{Name: "res/"}})
	assert.False(t, a.Equal(vfs.Root(other).Join("res", "values")))
}

func TestArchive_DuplicateNamesLastWins(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, "app.jar", []testutil.Entry{
		{Name: "a.txt", Data: "first", Method: testutil.Store},
		{Name: "a.txt", Data: "second", Method: testutil.Store},
	})
	assert.Equal(t, 1, a.Len())

	got, err := vfs.Root(a).Join("a.txt").ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestOpen_NotAnArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"plain.txt": "not a zip"})

	_, err := Open(dir + "/plain.txt")
	require.Error(t, err)

	_, err = Open(dir + "/missing.jar")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
