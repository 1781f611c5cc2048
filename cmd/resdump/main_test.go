package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/meigma/resfs/internal/testutil"
	"github.com/meigma/resfs/res"
)

var resFiles = map[string]string{
	"res/values/strings.xml": `<resources><string name="app_name">Demo</string></resources>`,
	"res/layout/main.xml":    `<LinearLayout xmlns:android="http://schemas.android.com/apk/res/android"><TextView android:text="Hi"/></LinearLayout>`,
	"res/raw/data.bin":       "raw",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoadManifest_Defaults(t *testing.T) {
	t.Parallel()

	m, err := LoadManifest(strings.NewReader(`
packages:
  - location: archive:app.apk!/res
  - name: com.example.lib
    location: file:/src/lib/res
    strict: true
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(268435456), m.MaxFileSize)
	assert.False(t, m.SynthesizeDirs)
	require.Len(t, m.Packages, 2)
	assert.Equal(t, Package{Name: "app", Location: "archive:app.apk!/res"}, m.Packages[0])
	assert.Equal(t, Package{Name: "com.example.lib", Location: "file:/src/lib/res", Strict: true}, m.Packages[1])
}

func TestLoadManifest_Empty(t *testing.T) {
	t.Parallel()

	m, err := LoadManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, uint64(268435456), m.MaxFileSize)
	assert.Empty(t, m.Packages)
}

func TestLoadManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "packages: []\nfoo: bar\n"},
		{"missing location", "packages:\n  - name: x\n"},
		{"not yaml", "packages: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadManifest(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestRun_PrintsSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteZip(t, dir, "app.apk", testutil.Tree(resFiles)...)
	testutil.WriteTree(t, filepath.Join(dir, "tree"), resFiles)

	m := Manifest{Packages: []Package{
		{Name: "com.example.app", Location: "archive:" + path + "!/res"},
		{Name: "com.example.disk", Location: "file:" + filepath.Join(dir, "tree", "res")},
	}}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), m, &out, discardLogger()))

	var got []summary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, res.StateCompleted.String(), s.State)
		assert.Equal(t, 1, s.Counts["values"])
		assert.Equal(t, 1, s.Counts["layouts"])
		assert.Equal(t, 1, s.Counts["raw"])
		assert.Empty(t, s.Error)
	}
	assert.Equal(t, "archive:"+path+"!/res", got[0].Root)
}

func TestRun_ReportsFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteZip(t, dir, "app.apk", testutil.Tree(resFiles)...)

	m := Manifest{Packages: []Package{
		{Name: "strict", Location: "archive:" + path + "!/res", Strict: true},
		{Name: "broken", Location: "jar:" + path + "!/res"},
		{Name: "ok", Location: "archive:" + path + "!/res"},
	}}
	var out bytes.Buffer
	err := run(context.Background(), m, &out, discardLogger())
	require.Error(t, err)

	var verr *res.ValidationError
	assert.ErrorAs(t, err, &verr)

	var got []summary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, res.StateFailed.String(), got[0].State)
	assert.Contains(t, got[0].Error, "literal")
	assert.Equal(t, res.StateNotStarted.String(), got[1].State)
	assert.Contains(t, got[1].Error, "malformed location")
	assert.Equal(t, res.StateCompleted.String(), got[2].State)
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteZip(t, dir, "app.apk", testutil.Tree(resFiles)...)
	manifest := filepath.Join(dir, "resdump.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("packages:\n  - name: lib\n    location: archive:"+path+"!/res\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--manifest", manifest, "--package", "cli", "archive:" + path + "!/res"})
	require.NoError(t, cmd.Execute())

	var got []summary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "lib", got[0].Package)
	assert.Equal(t, "cli", got[1].Package)

	strict := newRootCmd()
	var strictErr bytes.Buffer
	strict.SetOut(io.Discard)
	strict.SetErr(&strictErr)
	strict.SetArgs([]string{"--strict", "archive:" + path + "!/res"})
	require.Error(t, strict.Execute())
	assert.Contains(t, strictErr.String(), "level=ERROR")
	assert.Contains(t, strictErr.String(), `msg="resdump failed"`)

	empty := newRootCmd()
	var emptyErr bytes.Buffer
	empty.SetOut(io.Discard)
	empty.SetErr(&emptyErr)
	empty.SetArgs([]string{})
	require.Error(t, empty.Execute())
	assert.Contains(t, emptyErr.String(), "no locations given")

	badFlag := newRootCmd()
	var badFlagErr bytes.Buffer
	badFlag.SetOut(io.Discard)
	badFlag.SetErr(&badFlagErr)
	badFlag.SetArgs([]string{"--no-such-flag"})
	require.Error(t, badFlag.Execute())
	assert.Contains(t, badFlagErr.String(), "unknown flag")
}
