package workspace_test

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/runner/internal/paths"
	"github.com/programme-lv/runner/internal/workspace"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreCrud(t *testing.T) {
	store, err := workspace.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Create()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	names, err := store.List(id)
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, store.Write(id, "main.py", []byte("print('hi')\n")))
	require.NoError(t, store.Write(id, "util.py", []byte("x = 1\n")))

	names, err = store.List(id)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main.py", "util.py"}, names)

	data, err := store.Read(id, "main.py")
	require.NoError(t, err)
	require.Equal(t, "print('hi')\n", string(data))

	require.NoError(t, store.Delete(id, "util.py"))
	names, err = store.List(id)
	require.NoError(t, err)
	require.Equal(t, []string{"main.py"}, names)
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store, err := workspace.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Create()
	require.NoError(t, err)

	err = store.Write(id, "../escape.txt", []byte("nope"))
	require.ErrorIs(t, err, paths.ErrInvalidPath)

	_, err = store.Read("../"+id, "main.py")
	require.ErrorIs(t, err, paths.ErrInvalidPath)

	err = store.Delete(id, "/etc/passwd")
	require.ErrorIs(t, err, paths.ErrInvalidPath)
}

func TestDiskStoreWriteToMissingWorkspace(t *testing.T) {
	store, err := workspace.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	err = store.Write("no-such-workspace", "main.py", []byte("x"))
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	store, err := workspace.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Write(id, "a.txt", []byte("alpha")))
	require.NoError(t, store.Write(id, "b.txt", []byte("beta")))

	var buf bytes.Buffer
	require.NoError(t, store.Export(id, &buf))

	zr, err := zstd.NewReader(&buf)
	require.NoError(t, err)
	defer zr.Close()

	tr := tar.NewReader(zr)
	got := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		got[hdr.Name] = string(data)
	}
	require.Equal(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"}, got)
}
