package res_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/resfs/internal/testutil"
	"github.com/meigma/resfs/res"
	"github.com/meigma/resfs/vfs"
	"github.com/meigma/resfs/vfs/archive"
	"github.com/meigma/resfs/vfs/disk"
)

const pkg = "com.example.app"

const androidNS = `xmlns:android="http://schemas.android.com/apk/res/android"`

// appRes is a resource tree relative to the resource root.
var appRes = map[string]string{
	"values/strings.xml": `<resources>
  <string name="app_name">Demo</string>
  <string name="greeting">Hello <b>%1$s</b>, you have %2$d messages</string>
  <string-array name="planets"><item>Mercury</item><item> Venus </item></string-array>
  <plurals name="songs">
    <item quantity="one">%d song</item>
    <item quantity="other">%d songs</item>
  </plurals>
</resources>`,
	"values/values.xml": `<resources>
  <bool name="is_tablet">false</bool>
  <color name="accent">#ff0000</color>
  <dimen name="margin">16dp</dimen>
  <integer name="max_items">3</integer>
  <integer-array name="primes"><item>2</item><item>3</item><item>5</item></integer-array>
  <attr name="shape" format="enum">
    <enum name="circle" value="0"/>
    <enum name="square" value="1"/>
  </attr>
  <declare-styleable name="ShapeView">
    <attr name="shape"/>
    <attr name="radius" format="dimension"/>
  </declare-styleable>
</resources>`,
	"values/notes.txt":      "not a resource file",
	"values-fr/strings.xml": `<resources><string name="app_name">Démo</string></resources>`,
	"layout/main.xml": `<LinearLayout ` + androidNS + `>
  <TextView android:text="@string/app_name" android:id="@+id/title"/>
</LinearLayout>`,
	"layout-land/main.xml": `<FrameLayout ` + androidNS + `/>`,
	"menu/options.xml": `<menu ` + androidNS + `>
  <item android:id="@+id/search" android:title="@string/search"/>
  <group android:id="@+id/edit">
    <item android:id="@+id/cut" android:title="Cut"/>
    <item android:id="@+id/copy" android:title="Copy"/>
  </group>
  <item android:id="@+id/more" android:title="More">
    <menu><item android:id="@+id/about" android:title="About"/></menu>
  </item>
</menu>`,
	"drawable/icon.png":      "png",
	"drawable/button.9.png":  "nine-patch png",
	"drawable/shape.xml":     `<shape/>`,
	"drawable/README":        "ignored",
	"drawable-hdpi/icon.png": "hdpi png",
	"xml/prefs.xml":          `<PreferenceScreen/>`,
	"xml/config.xml":         `<config debug="true"/>`,
	"raw/data.bin":           "raw bytes",
	"raw-en/data.bin":        "english raw bytes",
}

// withPrefix returns files with every name placed below prefix.
func withPrefix(prefix string, files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for name, data := range files {
		out[prefix+name] = data
	}
	return out
}

// backendFactory builds a resource root holding files.
type backendFactory struct {
	name  string
	build func(t *testing.T, files map[string]string) vfs.Node
}

var backends = []backendFactory{
	{name: "archive", build: archiveRoot},
	{name: "disk", build: diskRoot},
}

// archiveRoot returns the res directory of an archive holding files below res/.
func archiveRoot(t *testing.T, files map[string]string) vfs.Node {
	t.Helper()
	entries := testutil.Tree(withPrefix("res/", files))
	if len(files) == 0 {
		entries = testutil.Dirs("res")
	}
	data := testutil.BuildZip(t, entries...)
	a, err := archive.New("app.apk", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return vfs.Root(a).Join("res")
}

// diskRoot returns a directory holding files.
func diskRoot(t *testing.T, files map[string]string) vfs.Node {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, files)
	d, err := disk.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return vfs.Root(d)
}

func load(t *testing.T, root vfs.Node, opts ...res.Option) (*res.Index, *res.PackageLoader, error) {
	t.Helper()
	index := res.NewIndex()
	loader := res.NewPackageLoader(res.NewResourcePath(pkg, root), index, opts...)
	return index, loader, loader.Load()
}

func name(typ, n string) res.ResName {
	return res.ResName{Package: pkg, Type: typ, Name: n}
}
