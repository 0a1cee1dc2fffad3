package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/vibecoding/vibe/internal/config"
	"github.com/vibecoding/vibe/internal/git"
)

// completeBranches offers local and remote branch names from the
// repository the user is standing in. Prefix matches come first; when
// nothing matches by prefix, fuzzy matches are offered instead.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()

	dir, err := os.Getwd()
	if err != nil || !git.ValidateRepo(ctx, dir) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	seen := make(map[string]bool)
	var branches []string
	for _, b := range git.LocalBranches(ctx, dir) {
		if !seen[b] {
			seen[b] = true
			branches = append(branches, b)
		}
	}
	for _, b := range git.RemoteBranches(ctx, dir) {
		if !seen[b] {
			seen[b] = true
			branches = append(branches, b)
		}
	}

	return filterCandidates(branches, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completePositional completes the branch argument. With --clean set it
// offers the existing worktree names for the current repo instead,
// since that's what --clean operates on.
func completePositional(opts *runOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		if opts.clean {
			return completeWorktreeNames(cmd, toComplete)
		}
		return completeBranches(cmd, args, toComplete)
	}
}

// completeWorktreeNames lists the managed worktree directories for the
// current repository.
func completeWorktreeNames(cmd *cobra.Command, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	dir, err := os.Getwd()
	if err != nil || !git.ValidateRepo(ctx, dir) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	info, err := git.GetRepoInfo(ctx, dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	entries, err := os.ReadDir(filepath.Join(cfg.WorktreeBase, info.Name))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return filterCandidates(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// filterCandidates keeps prefix matches, falling back to fuzzy ranking
// when the prefix eliminates everything.
func filterCandidates(candidates []string, toComplete string) []string {
	if toComplete == "" {
		return candidates
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			matches = append(matches, c)
		}
	}
	if len(matches) > 0 {
		return matches
	}

	for _, m := range fuzzy.Find(toComplete, candidates) {
		matches = append(matches, m.Str)
	}
	return matches
}
