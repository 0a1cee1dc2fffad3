package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vibecoding/vibe/internal/config"
	"github.com/vibecoding/vibe/internal/git"
	"github.com/vibecoding/vibe/internal/log"
	"github.com/vibecoding/vibe/internal/remote"
	"github.com/vibecoding/vibe/internal/ui/prompt"
)

// setupWorktree ensures a worktree for branch exists and returns its
// local path. An existing valid worktree is reused; an unmanaged
// directory at the worktree path is an error the user has to resolve.
func setupWorktree(cmd *cobra.Command, cfg config.Config, info git.RepoInfo, branch, fromBranch string) (string, error) {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	switch git.CheckWorktreeExists(ctx, info.Root, cfg.WorktreeBase, info.Name, branch) {
	case git.StatusInvalid:
		path := git.WorktreePath(cfg.WorktreeBase, info.Name, branch)
		return "", fmt.Errorf("directory exists at %s but is not a registered worktree; remove it or run 'vibe --clean %s'", path, worktreeName(branch))

	case git.StatusValid:
		path := git.WorktreePath(cfg.WorktreeBase, info.Name, branch)
		logger.Printf("Worktree already exists at: %s\n", path)
		if fromBranch != "" {
			logger.Printf("Warning: --from %s is ignored because the worktree already exists\n", fromBranch)
			if isInteractive() {
				res, err := prompt.Confirm("Continue anyway?", true)
				if err != nil {
					return "", err
				}
				if res.Cancelled || !res.Confirmed {
					return "", errAborted
				}
			}
		}
		return path, nil
	}

	logger.Printf("Creating worktree for '%s'...\n", branch)
	return git.CreateWorktree(ctx, info.Root, cfg.WorktreeBase, info.Name, branch, fromBranch)
}

// resolveRemoteShell decides which shell the remote session should use.
// When the remote is Windows and stdin is a terminal the user picks
// between WSL and PowerShell; otherwise the configured default applies.
func resolveRemoteShell(cfg config.Config) (remote.Dialect, error) {
	if cfg.RemoteIsWindows && isInteractive() {
		res, err := prompt.Select("Select remote shell:", []string{"WSL", "PowerShell"})
		if err != nil {
			return remote.Posix, err
		}
		if res.Cancelled {
			return remote.Posix, errAborted
		}
		if res.Index == 1 {
			return remote.PowerShell, nil
		}
		return remote.WSL, nil
	}
	return remote.ParseDialect(cfg.DefaultRemoteShell)
}

// resolveCodingTool returns the tool command for the session, from the
// tool flags or an interactive prompt.
func resolveCodingTool(cfg config.Config, opts runOptions, d remote.Dialect) (string, error) {
	if tool := toolFromFlags(cfg, opts, d); tool != "" {
		return tool, nil
	}
	return promptCodingTool(cfg, d)
}

// toolFromFlags maps the --claude/--codex/--oc flags to the configured
// command for the given shell dialect. PowerShell sessions use the
// direct commands because the wrapper scripts only exist in POSIX
// environments. Returns "" when no tool flag is set.
func toolFromFlags(cfg config.Config, opts runOptions, d remote.Dialect) string {
	direct := d == remote.PowerShell
	switch {
	case opts.claude:
		if direct {
			return cfg.Tools.ClaudeDirect
		}
		return cfg.Tools.Claude
	case opts.codex:
		if direct {
			return cfg.Tools.CodexDirect
		}
		return cfg.Tools.Codex
	case opts.oc:
		if direct {
			return cfg.Tools.OpenCodeDirect
		}
		return cfg.Tools.OpenCode
	}
	return ""
}

// promptCodingTool asks which coding tool to start. Non-interactive
// sessions fall back to Claude.
func promptCodingTool(cfg config.Config, d remote.Dialect) (string, error) {
	direct := d == remote.PowerShell

	if !isInteractive() {
		if direct {
			return cfg.Tools.ClaudeDirect, nil
		}
		return cfg.Tools.Claude, nil
	}

	res, err := prompt.Select("Select coding tool:", []string{"Claude", "Codex", "OpenCode"})
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errAborted
	}

	switch res.Index {
	case 1:
		if direct {
			return cfg.Tools.CodexDirect, nil
		}
		return cfg.Tools.Codex, nil
	case 2:
		if direct {
			return cfg.Tools.OpenCodeDirect, nil
		}
		return cfg.Tools.OpenCode, nil
	default:
		if direct {
			return cfg.Tools.ClaudeDirect, nil
		}
		return cfg.Tools.Claude, nil
	}
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
