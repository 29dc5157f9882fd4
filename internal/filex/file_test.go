package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

// t.TempDir may sit behind a symlink (macOS), so compare resolved paths.
func resolved(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir(ExportsDir)
	require.NoError(t, err)

	want := filepath.Join(resolved(t, tmp), ExportsDir)
	require.Equal(t, want, resolved(t, got))

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}

	again, err := EnsureSubDir(ExportsDir)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile(ExportsDir, []byte("x"), 0o660))

	_, err := EnsureSubDir(ExportsDir)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestExportPath(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	dir := filepath.Join(resolved(t, tmp), ExportsDir)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "march", "march.csv"},
		{"keeps extension", "march.CSV", "march.CSV"},
		{"drops directories", "../../etc/march.csv", "march.csv"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExportPath(tc.in)
			require.NoError(t, err)
			require.Equal(t, filepath.Join(dir, tc.want), resolved(t, filepath.Dir(got))+string(filepath.Separator)+filepath.Base(got))
		})
	}

	_, err := ExportPath("  ")
	require.Error(t, err)
}
