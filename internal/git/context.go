package git

import (
	"context"
	"path/filepath"
	"strings"
)

// ContextType classifies where the user is running from.
type ContextType int

const (
	// ContextNone means not inside any git repository.
	ContextNone ContextType = iota
	// ContextMainRepo means inside a primary repository checkout.
	ContextMainRepo
	// ContextWorktree means inside a linked worktree.
	ContextWorktree
)

func (t ContextType) String() string {
	switch t {
	case ContextMainRepo:
		return "main_repo"
	case ContextWorktree:
		return "worktree"
	default:
		return "none"
	}
}

// ContextBases holds the local and remote base directories needed to map
// a local checkout onto its remote counterpart.
type ContextBases struct {
	RepoBase           string
	WorktreeBase       string
	RemoteRepoBase     string
	RemoteWorktreeBase string
}

// Context describes the current git surroundings. RemotePath is empty
// when the checkout lives outside the configured bases and no remote
// mapping exists.
type Context struct {
	Type         ContextType
	LocalPath    string
	RemotePath   string
	RepoName     string
	WorktreeName string
}

// CurrentContext detects whether dir is in a main repo, a worktree, or
// neither, and maps the location to its remote equivalent.
func CurrentContext(ctx context.Context, dir string, bases ContextBases) Context {
	if !ValidateRepo(ctx, dir) {
		return Context{Type: ContextNone}
	}

	info, err := GetRepoInfo(ctx, dir)
	if err != nil {
		return Context{Type: ContextNone}
	}

	if IsLinkedWorktree(ctx, dir) {
		// Managed worktrees live at <worktree_base>/<repo>/<name>.
		if rel, ok := relativeTo(info.Root, bases.WorktreeBase); ok {
			parts := strings.Split(rel, string(filepath.Separator))
			if len(parts) >= 2 {
				return Context{
					Type:         ContextWorktree,
					LocalPath:    info.Root,
					RemotePath:   filepath.Join(bases.RemoteWorktreeBase, parts[0], parts[1]),
					RepoName:     parts[0],
					WorktreeName: parts[1],
				}
			}
		}
		// Worktree outside the managed base: no remote mapping.
		return Context{Type: ContextWorktree, LocalPath: info.Root, RepoName: info.Name}
	}

	if _, ok := relativeTo(info.Root, bases.RepoBase); ok {
		return Context{
			Type:       ContextMainRepo,
			LocalPath:  info.Root,
			RemotePath: filepath.Join(bases.RemoteRepoBase, info.Name),
			RepoName:   info.Name,
		}
	}
	return Context{Type: ContextMainRepo, LocalPath: info.Root, RepoName: info.Name}
}

// relativeTo returns path relative to base when path is inside base.
func relativeTo(path, base string) (string, bool) {
	if base == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
