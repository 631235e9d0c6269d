package textfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteMode selects how Commit writes content to the target path.
type WriteMode int

const (
	// Overwrite replaces the whole file via write-to-temp-then-rename. A
	// crash mid-write leaves either the old content or the complete new
	// content on disk, never a mixture.
	Overwrite WriteMode = iota

	// Append adds content at end of file under a single exclusive open.
	// This is best effort at the single-process level only; no
	// cross-process lock is taken.
	Append
)

// Commit writes content to path under the given mode. The parent directory
// must already exist; a missing parent fails with ErrWrite rather than
// being created. All failures wrap ErrWrite and the target file is never
// left partially written.
func Commit(path, content string, mode WriteMode) error {
	switch mode {
	case Overwrite:
		return commitOverwrite(path, content)
	case Append:
		return commitAppend(path, content)
	default:
		return writeError(path, fmt.Errorf("unknown write mode %d", mode))
	}
}

func commitOverwrite(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".commit-*")
	if err != nil {
		return writeError(path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return writeError(path, err)
	}
	// Carry over the permissions of an existing target; otherwise widen the
	// temp file's 0600 to a regular create mode.
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return writeError(path, err)
	}
	return nil
}

func commitAppend(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return writeError(path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return writeError(path, err)
	}
	if err := f.Close(); err != nil {
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) error {
	return NewFileError("commit", path, fmt.Errorf("%w: %v", ErrWrite, err))
}
