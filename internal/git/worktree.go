package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibecoding/vibe/internal/log"
)

// WorktreeStatus describes the state of a prospective worktree path.
type WorktreeStatus int

const (
	// StatusNotExists means the directory does not exist.
	StatusNotExists WorktreeStatus = iota
	// StatusValid means the directory exists and is a registered worktree.
	StatusValid
	// StatusInvalid means the directory exists but git doesn't know it.
	StatusInvalid
)

func (s WorktreeStatus) String() string {
	switch s {
	case StatusValid:
		return "exists_valid"
	case StatusInvalid:
		return "exists_invalid"
	default:
		return "not_exists"
	}
}

// WorktreePath returns where a worktree for the given repo and name
// lives under the worktree base. The origin/ prefix is stripped so a
// remote ref and its local tracking branch share one path.
func WorktreePath(worktreeBase, repoName, name string) string {
	return filepath.Join(worktreeBase, repoName, strings.TrimPrefix(name, "origin/"))
}

// CheckWorktreeExists classifies the worktree path for name: absent,
// registered with git, or an unmanaged directory. The filesystem check
// is combined with git's registry so a stale directory left behind by a
// manual delete is reported as invalid rather than reused.
func CheckWorktreeExists(ctx context.Context, dir, worktreeBase, repoName, name string) WorktreeStatus {
	path := WorktreePath(worktreeBase, repoName, name)

	if _, err := os.Stat(path); err != nil {
		return StatusNotExists
	}

	resolved := resolvePath(dir, path)
	for _, wt := range WorktreeList(ctx, dir) {
		if resolvePath(dir, wt) == resolved {
			return StatusValid
		}
	}
	return StatusInvalid
}

// WorktreeList returns the paths of all worktrees registered for the
// repository at dir, main checkout included. Errors yield an empty list.
func WorktreeList(ctx context.Context, dir string) []string {
	out, err := outputGit(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		if p, ok := strings.CutPrefix(line, "worktree "); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// HasUncommittedChanges reports whether the worktree at path has any
// uncommitted changes (staged, unstaged, or untracked). A missing or
// broken worktree reports false; cleanup treats those separately.
func HasUncommittedChanges(ctx context.Context, path string) bool {
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return false
	}
	out, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(out))) > 0
}

// CreateWorktree creates a worktree for name under the worktree base and
// returns its path. Three scenarios, checked in order:
//
//  1. name has an origin/ prefix: a local tracking branch is created
//     from the remote ref.
//  2. a local branch called name exists: the worktree checks it out.
//  3. otherwise a new branch is created, from baseBranch if given
//     (validated against local and remote branches) or from HEAD.
func CreateWorktree(ctx context.Context, dir, worktreeBase, repoName, name, baseBranch string) (string, error) {
	logger := log.FromContext(ctx)

	repoDir := filepath.Join(worktreeBase, repoName)
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return "", fmt.Errorf("create worktree dir: %w", err)
	}

	if localBranch, ok := strings.CutPrefix(name, "origin/"); ok {
		path := filepath.Join(repoDir, localBranch)

		if !BranchExistsRemote(ctx, dir, name) {
			return "", &RemoteBranchNotFoundError{Branch: name, Available: RemoteBranches(ctx, dir)}
		}

		logger.Printf("Found remote branch '%s', creating local tracking branch '%s'...\n", name, localBranch)
		if err := runGit(ctx, dir, "worktree", "add", "-b", localBranch, path, name); err != nil {
			return "", &WorktreeCreationError{Name: localBranch, Path: path, Base: name, Err: err}
		}
		return path, nil
	}

	path := filepath.Join(repoDir, name)

	if BranchExistsLocal(ctx, dir, name) {
		if err := runGit(ctx, dir, "worktree", "add", path, name); err != nil {
			return "", &WorktreeCreationError{Name: name, Path: path, Err: err}
		}
		return path, nil
	}

	if baseBranch != "" {
		if !BranchExistsLocal(ctx, dir, baseBranch) && !BranchExistsRemote(ctx, dir, baseBranch) {
			return "", &BaseBranchNotFoundError{
				Branch: baseBranch,
				Local:  LocalBranches(ctx, dir),
				Remote: RemoteBranches(ctx, dir),
			}
		}

		logger.Printf("Creating branch '%s' from '%s'...\n", name, baseBranch)
		if err := runGit(ctx, dir, "worktree", "add", "-b", name, path, baseBranch); err != nil {
			return "", &WorktreeCreationError{Name: name, Path: path, Base: baseBranch, Err: err}
		}
		return path, nil
	}

	if err := runGit(ctx, dir, "worktree", "add", "-b", name, path); err != nil {
		return "", &WorktreeCreationError{Name: name, Path: path, Err: err}
	}

	logger.Printf("Worktree created successfully at: %s\n", path)
	return path, nil
}

// RemoveWorktree removes a registered worktree. Dirty or locked
// worktrees make git refuse; the error carries git's explanation.
func RemoveWorktree(ctx context.Context, dir, path string) error {
	return runGit(ctx, dir, "worktree", "remove", path)
}
