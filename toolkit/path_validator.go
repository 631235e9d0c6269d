package toolkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathValidator provides workspace-based path validation for tools.
// Operations are restricted to the workspace directory, and paths matching
// a deny pattern are rejected even inside the workspace.
type PathValidator struct {
	// WorkspaceDir is the base directory for workspace operations.
	// Defaults to current working directory if empty.
	WorkspaceDir string

	// DenyPatterns are doublestar patterns matched against the
	// workspace-relative path. Patterns are expected to be validated at
	// configuration load time; invalid ones are skipped here.
	DenyPatterns []string
}

// NewPathValidator creates a PathValidator with the given workspace directory.
// If workspaceDir is empty, it defaults to the current working directory.
func NewPathValidator(workspaceDir string, denyPatterns ...string) (*PathValidator, error) {
	if workspaceDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workspaceDir = cwd
	}

	absWorkspace, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path: %w", err)
	}

	// Resolve symlinks for the workspace directory
	realWorkspace, err := filepath.EvalSymlinks(absWorkspace)
	if err != nil {
		// If workspace doesn't exist yet, use the absolute path
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to resolve workspace symlinks: %w", err)
		}
		realWorkspace = absWorkspace
	}

	return &PathValidator{
		WorkspaceDir: realWorkspace,
		DenyPatterns: denyPatterns,
	}, nil
}

// ResolvePath resolves a path to its absolute, symlink-resolved form.
// Relative paths are resolved against the workspace directory.
func (v *PathValidator) ResolvePath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.WorkspaceDir, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Resolve symlinks to prevent traversal attacks
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If file doesn't exist, resolve parent directory symlinks recursively
		if os.IsNotExist(err) {
			return v.resolveNonExistentPath(absPath)
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return realPath, nil
}

// resolveNonExistentPath resolves symlinks in a path where the final component
// doesn't exist yet (for new file creation)
func (v *PathValidator) resolveNonExistentPath(absPath string) (string, error) {
	// Walk up the directory tree until we find an existing directory
	dir := absPath
	var parts []string

	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}

		parts = append([]string{filepath.Base(dir)}, parts...)
		dir = parent

		// Check if this directory exists
		if _, err := os.Stat(dir); err == nil {
			// Found an existing directory, resolve its symlinks
			realDir, err := filepath.EvalSymlinks(dir)
			if err != nil {
				return "", fmt.Errorf("failed to resolve symlinks: %w", err)
			}
			// Rejoin with the remaining path parts
			return filepath.Join(append([]string{realDir}, parts...)...), nil
		}
	}

	// Nothing exists, return the absolute path as-is
	return absPath, nil
}

// IsInWorkspace checks if the given path is within the workspace directory.
// It resolves symlinks before checking to prevent symlink-based attacks.
func (v *PathValidator) IsInWorkspace(path string) (bool, error) {
	realPath, err := v.ResolvePath(path)
	if err != nil {
		return false, err
	}

	// Check if the resolved path is within the workspace
	rel, err := filepath.Rel(v.WorkspaceDir, realPath)
	if err != nil {
		return false, nil // Different drives on Windows, etc.
	}

	// Path is outside workspace if relative path starts with ".."
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return false, nil
	}

	// Also check for absolute paths that don't share the workspace prefix
	if filepath.IsAbs(rel) {
		return false, nil
	}

	return true, nil
}

// deniedBy returns the first deny pattern matching the workspace-relative
// path, or "" when none match.
func deniedBy(patterns []string, rel string) string {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return pattern
		}
	}
	return ""
}

// ValidateRead checks if reading from the given path is allowed. It returns
// the resolved absolute path to operate on, or an error describing why
// access is denied.
func (v *PathValidator) ValidateRead(path string) (string, error) {
	return v.validate(path, "read")
}

// ValidateWrite checks if writing to the given path is allowed. It returns
// the resolved absolute path to operate on, or an error describing why
// access is denied.
func (v *PathValidator) ValidateWrite(path string) (string, error) {
	return v.validate(path, "write")
}

func (v *PathValidator) validate(path, operation string) (string, error) {
	realPath, err := v.ResolvePath(path)
	if err != nil {
		return "", fmt.Errorf("failed to validate path: %w", err)
	}

	rel, err := filepath.Rel(v.WorkspaceDir, realPath)
	if err != nil || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." || filepath.IsAbs(rel) {
		return "", &PathAccessError{
			Path:      path,
			Operation: operation,
			Reason:    "path is outside workspace",
			Workspace: v.WorkspaceDir,
		}
	}

	if pattern := deniedBy(v.DenyPatterns, rel); pattern != "" {
		return "", &PathAccessError{
			Path:      path,
			Operation: operation,
			Reason:    fmt.Sprintf("path matches deny pattern %q", pattern),
			Workspace: v.WorkspaceDir,
		}
	}

	return realPath, nil
}

// PathAccessError is returned when a path access is denied.
type PathAccessError struct {
	Path      string
	Operation string
	Reason    string
	Workspace string
}

func (e *PathAccessError) Error() string {
	return fmt.Sprintf("access denied: cannot %s %q - %s (workspace: %s)",
		e.Operation, e.Path, e.Reason, e.Workspace)
}

// IsPathAccessError returns true if the error is a PathAccessError.
func IsPathAccessError(err error) bool {
	_, ok := err.(*PathAccessError)
	return ok
}
