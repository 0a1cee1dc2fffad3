// Package git drives the git binary for worktree management. Every
// operation is an independent subprocess; git's own worktree registry is
// the single source of truth, nothing is cached between calls.
package git

import (
	"context"
	"path/filepath"
	"strings"
)

// RepoInfo identifies a repository by its root path and directory name.
type RepoInfo struct {
	Root string
	Name string
}

// ValidateRepo reports whether dir is inside a git repository.
func ValidateRepo(ctx context.Context, dir string) bool {
	return runGit(ctx, dir, "rev-parse", "--git-dir") == nil
}

// GetRepoInfo returns the repository root and name for dir.
// Returns ErrNotARepository when dir isn't inside a repository.
func GetRepoInfo(ctx context.Context, dir string) (RepoInfo, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoInfo{}, ErrNotARepository
	}
	root := strings.TrimSpace(string(out))
	return RepoInfo{Root: root, Name: filepath.Base(root)}, nil
}

// CommonDir returns the main repository's .git directory for a worktree
// path, resolved to an absolute path. Returns "" if path isn't a
// repository.
func CommonDir(ctx context.Context, path string) string {
	out, err := outputGit(ctx, path, "rev-parse", "--git-common-dir")
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(string(out))
	if dir == "" {
		return ""
	}
	return resolvePath(path, dir)
}

// IsLinkedWorktree reports whether dir is a linked worktree rather than
// the main checkout. git-dir and git-common-dir diverge exactly in
// linked worktrees.
func IsLinkedWorktree(ctx context.Context, dir string) bool {
	gitDirOut, err := outputGit(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	commonOut, err := outputGit(ctx, dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return false
	}

	gitDir := resolvePath(dir, strings.TrimSpace(string(gitDirOut)))
	commonDir := resolvePath(dir, strings.TrimSpace(string(commonOut)))
	return gitDir != commonDir
}

// resolvePath makes p absolute relative to base and resolves symlinks
// where possible, so paths from different git invocations compare equal.
func resolvePath(base, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
