package git

import (
	"context"
	"strings"
)

// BranchExistsLocal reports whether a local branch exists.
func BranchExistsLocal(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// BranchExistsRemote reports whether a branch exists on origin.
// branch may be given with or without the origin/ prefix.
func BranchExistsRemote(ctx context.Context, dir, branch string) bool {
	ref := "refs/remotes/origin/" + branch
	if strings.HasPrefix(branch, "origin/") {
		ref = "refs/remotes/" + branch
	}
	return runGit(ctx, dir, "show-ref", "--verify", "--quiet", ref) == nil
}

// LocalBranches returns the local branch names. Errors yield an empty
// list; callers use this for suggestions and completions only.
func LocalBranches(ctx context.Context, dir string) []string {
	return branchList(ctx, dir, "branch", "--format=%(refname:short)")
}

// RemoteBranches returns the remote branch names, origin/ prefix included.
func RemoteBranches(ctx context.Context, dir string) []string {
	return branchList(ctx, dir, "branch", "-r", "--format=%(refname:short)")
}

func branchList(ctx context.Context, dir string, args ...string) []string {
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return nil
	}

	var branches []string
	for _, line := range strings.Split(string(out), "\n") {
		if b := strings.TrimSpace(line); b != "" {
			branches = append(branches, b)
		}
	}
	return branches
}
