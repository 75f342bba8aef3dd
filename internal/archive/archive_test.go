package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/IPDSnelting/velcom/internal/logger"
	"github.com/IPDSnelting/velcom/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	typ     byte
	content string
	link    string
}

func readArchive(t *testing.T, r io.Reader) map[string]entry {
	t.Helper()

	gzr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gzr.Close()

	entries := map[string]entry{}
	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = entry{typ: hdr.Typeflag, content: string(data), link: hdr.Linkname}
	}
	return entries
}

func names(entries map[string]entry) []string {
	out := make([]string, 0, len(entries))
	for name := range entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func TestWrite_EntriesAreRelative(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	testutil.WriteTree(t, dir, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})

	var buf bytes.Buffer
	stats, err := New(logger.Discard()).Write(context.Background(), dir, &buf)
	require.NoError(t, err)

	entries := readArchive(t, &buf)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, names(entries))
	assert.Equal(t, "alpha", entries["a.txt"].content)
	assert.Equal(t, "beta", entries["sub/b.txt"].content)
	assert.Equal(t, byte(tar.TypeReg), entries["a.txt"].typ)

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, int64(len("alpha")+len("beta")), stats.Bytes)
}

func TestWrite_EmptyDirectoryKept(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"results/":    "",
		"src/main.go": "package main",
		"src/nested/": "",
	})

	var buf bytes.Buffer
	stats, err := New(nil).Write(context.Background(), dir, &buf)
	require.NoError(t, err)

	entries := readArchive(t, &buf)
	assert.Equal(t, []string{"results/", "src/main.go", "src/nested/"}, names(entries))
	assert.Equal(t, byte(tar.TypeDir), entries["results/"].typ)
	assert.Equal(t, 2, stats.Dirs)
}

func TestWrite_EmptySourceDirectory(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(nil).Write(context.Background(), t.TempDir(), &buf)
	require.NoError(t, err)

	assert.Empty(t, readArchive(t, &buf))
}

func TestWrite_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"bench.sh": "#!/bin/sh\n"})
	require.NoError(t, os.Symlink("bench.sh", filepath.Join(dir, "run")))

	var buf bytes.Buffer
	stats, err := New(nil).Write(context.Background(), dir, &buf)
	require.NoError(t, err)

	entries := readArchive(t, &buf)
	require.Contains(t, entries, "run")
	assert.Equal(t, byte(tar.TypeSymlink), entries["run"].typ)
	assert.Equal(t, "bench.sh", entries["run"].link)
	assert.Equal(t, 1, stats.Links)
}

func TestWrite_SymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	base := t.TempDir()
	target := filepath.Join(base, "real")
	testutil.WriteTree(t, target, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})
	link := filepath.Join(base, "bench")
	require.NoError(t, os.Symlink(target, link))

	var buf bytes.Buffer
	stats, err := New(nil).Write(context.Background(), link, &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, names(readArchive(t, &buf)))
	assert.Equal(t, 2, stats.Files)
}

func TestWrite_MissingDirectory(t *testing.T) {
	_, err := New(nil).Write(context.Background(), filepath.Join(t.TempDir(), "missing"), io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArchive))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWrite_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"file.txt": "x"})

	_, err := New(nil).Write(context.Background(), filepath.Join(dir, "file.txt"), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWrite_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Write(ctx, dir, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"secret.txt": "x"})
	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { os.Chmod(path, 0644) })

	_, err := New(nil).Write(context.Background(), dir, io.Discard)
	require.Error(t, err)

	want, err2 := filepath.EvalSymlinks(path)
	require.NoError(t, err2)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, want, ae.Path)
}

func TestBuild_RewoundTempFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})

	f, err := New(nil).Build(context.Background(), dir)
	require.NoError(t, err)

	tmpName := f.Name()
	assert.Greater(t, f.Size, int64(0))
	assert.Equal(t, 2, f.Stats.Files)

	entries := readArchive(t, f)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, names(entries))

	require.NoError(t, f.Close())
	_, err = os.Stat(tmpName)
	assert.True(t, os.IsNotExist(err), "temp archive should be removed on close")
}
