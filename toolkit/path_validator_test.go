package toolkit

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	t.Run("CreatesValidatorWithGivenWorkspace", func(t *testing.T) {
		dir := t.TempDir()
		v, err := NewPathValidator(dir)
		require.NoError(t, err)
		require.NotEmpty(t, v.WorkspaceDir)
	})

	t.Run("DefaultsToCwdWhenWorkspaceEmpty", func(t *testing.T) {
		v, err := NewPathValidator("")
		require.NoError(t, err)
		cwd, err := os.Getwd()
		require.NoError(t, err)
		realCwd, err := filepath.EvalSymlinks(cwd)
		require.NoError(t, err)
		require.Equal(t, realCwd, v.WorkspaceDir)
	})

	t.Run("CarriesDenyPatterns", func(t *testing.T) {
		v, err := NewPathValidator(t.TempDir(), "*.pem", "secrets/**")
		require.NoError(t, err)
		require.Equal(t, []string{"*.pem", "secrets/**"}, v.DenyPatterns)
	})
}

func TestPathValidator_ResolvePath(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	t.Run("RelativePathJoinsWorkspace", func(t *testing.T) {
		resolved, err := v.ResolvePath("notes/today.txt")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(v.WorkspaceDir, "notes", "today.txt"), resolved)
	})

	t.Run("NonexistentPathResolvesThroughParents", func(t *testing.T) {
		resolved, err := v.ResolvePath(filepath.Join(dir, "missing", "file.txt"))
		require.NoError(t, err)
		require.Equal(t, filepath.Join(v.WorkspaceDir, "missing", "file.txt"), resolved)
	})
}

func TestPathValidator_IsInWorkspace(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	t.Run("PathInsideWorkspace", func(t *testing.T) {
		ok, err := v.IsInWorkspace(filepath.Join(dir, "subdir", "file.txt"))
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("WorkspaceRootItself", func(t *testing.T) {
		ok, err := v.IsInWorkspace(dir)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("PathOutsideWorkspace", func(t *testing.T) {
		ok, err := v.IsInWorkspace(t.TempDir())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("DotDotTraversal", func(t *testing.T) {
		path := filepath.Join(dir, "subdir", "..", "..", "etc", "passwd")
		ok, err := v.IsInWorkspace(path)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("SymlinkEscapeDetected", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("Skipping on Windows - symlink creation requires privileges")
		}
		outside := t.TempDir()
		target := filepath.Join(outside, "real.txt")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

		link := filepath.Join(dir, "sneaky.txt")
		require.NoError(t, os.Symlink(target, link))

		ok, err := v.IsInWorkspace(link)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestPathValidator_Validate(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir, "*.pem", "secrets/**")
	require.NoError(t, err)

	t.Run("ReadInsideWorkspace", func(t *testing.T) {
		resolved, err := v.ValidateRead(filepath.Join(dir, "file.txt"))
		require.NoError(t, err)
		require.Equal(t, filepath.Join(v.WorkspaceDir, "file.txt"), resolved)
	})

	t.Run("RelativePathReturnsWorkspacePath", func(t *testing.T) {
		resolved, err := v.ValidateWrite("out.txt")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(v.WorkspaceDir, "out.txt"), resolved)
	})

	t.Run("OutsideWorkspaceRejected", func(t *testing.T) {
		_, err := v.ValidateRead("/etc/passwd")
		require.Error(t, err)
		require.True(t, IsPathAccessError(err))

		var accessErr *PathAccessError
		require.True(t, errors.As(err, &accessErr))
		require.Equal(t, "read", accessErr.Operation)
		require.Contains(t, err.Error(), "outside workspace")
	})

	t.Run("WriteErrorNamesOperation", func(t *testing.T) {
		_, err := v.ValidateWrite("/etc/passwd")
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot write")
	})

	t.Run("DenyPatternMatchesName", func(t *testing.T) {
		_, err := v.ValidateRead("server.pem")
		require.Error(t, err)
		require.True(t, IsPathAccessError(err))
		require.Contains(t, err.Error(), `deny pattern "*.pem"`)
	})

	t.Run("DenyPatternMatchesNestedPath", func(t *testing.T) {
		_, err := v.ValidateWrite(filepath.Join(dir, "secrets", "prod", "key.txt"))
		require.Error(t, err)
		require.Contains(t, err.Error(), `deny pattern "secrets/**"`)
	})

	t.Run("NonDeniedPathPasses", func(t *testing.T) {
		_, err := v.ValidateRead("readme.md")
		require.NoError(t, err)
	})
}
