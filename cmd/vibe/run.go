package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vibecoding/vibe/internal/cleanup"
	"github.com/vibecoding/vibe/internal/config"
	"github.com/vibecoding/vibe/internal/git"
	"github.com/vibecoding/vibe/internal/log"
	"github.com/vibecoding/vibe/internal/remote"
)

type runOptions struct {
	cli        bool
	local      bool
	clean      bool
	fromBranch string
	oc         bool
	codex      bool
	claude     bool
	copyPath   bool
}

// run dispatches the root command's four modes: cleanup, shell-only,
// local, and the default create-and-connect flow.
func run(cmd *cobra.Command, branch string, opts runOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx)

	if countTrue(opts.oc, opts.codex, opts.claude) > 1 {
		return errors.New("cannot use multiple coding tool flags (--oc, --codex, --claude)")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if opts.clean {
		return runClean(cmd, cfg, branch, workDir)
	}

	if opts.cli {
		if branch == "" {
			shell, err := resolveRemoteShell(cfg)
			if err != nil {
				return err
			}
			return exitWithCode(newConnector(cfg, shell).Home(ctx))
		}

		if !git.ValidateRepo(ctx, workDir) {
			return errors.New("not in a git repository")
		}
		info, err := git.GetRepoInfo(ctx, workDir)
		if err != nil {
			return err
		}
		path, err := setupWorktree(cmd, cfg, info, branch, opts.fromBranch)
		if err != nil {
			return err
		}
		copyToClipboard(cmd, opts, path)

		shell, err := resolveRemoteShell(cfg)
		if err != nil {
			return err
		}
		conn := newConnector(cfg, shell)
		return exitWithCode(conn.Worktree(ctx, info.Name, worktreeName(branch), ""))
	}

	if opts.local {
		if branch == "" {
			logger.Println("Error: --local requires a branch name")
			logger.Println("Usage: vibe --local <worktree_name> [--from base_branch]")
			return &exitError{code: 1}
		}

		if !git.ValidateRepo(ctx, workDir) {
			return errors.New("not in a git repository")
		}
		info, err := git.GetRepoInfo(ctx, workDir)
		if err != nil {
			return err
		}
		path, err := setupWorktree(cmd, cfg, info, branch, opts.fromBranch)
		if err != nil {
			return err
		}
		copyToClipboard(cmd, opts, path)

		// Local sessions always use the wrapper commands.
		tool := toolFromFlags(cfg, opts, remote.Posix)
		if tool == "" {
			tool, err = promptCodingTool(cfg, remote.Posix)
			if err != nil {
				return err
			}
		}
		return exitWithCode(newConnector(cfg, remote.Posix).Locally(ctx, path, tool))
	}

	if branch == "" {
		return runContextConnect(cmd, cfg, workDir, opts)
	}

	if !git.ValidateRepo(ctx, workDir) {
		return errors.New("not in a git repository")
	}
	info, err := git.GetRepoInfo(ctx, workDir)
	if err != nil {
		return err
	}

	// Inside a worktree with no --from, the new branch starts at the
	// worktree's HEAD; CreateWorktree does that when no base is given.
	path, err := setupWorktree(cmd, cfg, info, branch, opts.fromBranch)
	if err != nil {
		return err
	}
	copyToClipboard(cmd, opts, path)

	shell, err := resolveRemoteShell(cfg)
	if err != nil {
		return err
	}
	tool, err := resolveCodingTool(cfg, opts, shell)
	if err != nil {
		return err
	}
	conn := newConnector(cfg, shell)
	return exitWithCode(conn.Worktree(ctx, info.Name, worktreeName(branch), tool))
}

// runContextConnect handles `vibe` with no branch: connect to whatever
// repo or worktree the user is standing in.
func runContextConnect(cmd *cobra.Command, cfg config.Config, workDir string, opts runOptions) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	cur := git.CurrentContext(ctx, workDir, git.ContextBases{
		RepoBase:           cfg.RepoBase,
		WorktreeBase:       cfg.WorktreeBase,
		RemoteRepoBase:     cfg.RemoteRepoBase,
		RemoteWorktreeBase: cfg.RemoteWorktreeBase,
	})

	if cur.Type == git.ContextNone {
		return errors.New("not in a git repository")
	}
	if cur.RemotePath == "" {
		return fmt.Errorf("repository is not in the expected location (%s)", cfg.RepoBase)
	}

	if cur.Type == git.ContextMainRepo {
		logger.Printf("Connecting to main repository '%s'...\n", cur.RepoName)
	} else {
		logger.Printf("Connecting to worktree '%s' in '%s'...\n", cur.WorktreeName, cur.RepoName)
	}
	copyToClipboard(cmd, opts, cur.LocalPath)

	shell, err := resolveRemoteShell(cfg)
	if err != nil {
		return err
	}
	tool, err := resolveCodingTool(cfg, opts, shell)
	if err != nil {
		return err
	}
	return exitWithCode(newConnector(cfg, shell).Path(ctx, cur.RemotePath, tool))
}

// runClean handles --clean: everything, or one named worktree.
func runClean(cmd *cobra.Command, cfg config.Config, branch, workDir string) error {
	ctx := cmd.Context()
	engine := &cleanup.Engine{WorktreeBase: cfg.WorktreeBase, JunkFiles: cfg.JunkFiles}

	if branch == "" {
		engine.CleanAll(ctx)
		return nil
	}

	if !git.ValidateRepo(ctx, workDir) {
		return errors.New("not in a git repository")
	}
	info, err := git.GetRepoInfo(ctx, workDir)
	if err != nil {
		return err
	}
	if !engine.CleanSpecific(ctx, info.Root, info.Name, worktreeName(branch)) {
		return &exitError{code: 1}
	}
	return nil
}

// worktreeName strips the origin/ prefix so remote refs and their local
// tracking branches address the same worktree.
func worktreeName(branch string) string {
	return strings.TrimPrefix(branch, "origin/")
}

// copyToClipboard copies a path when --copy is set. Clipboard failures
// only warn; the session continues.
func copyToClipboard(cmd *cobra.Command, opts runOptions, path string) {
	if !opts.copyPath || path == "" {
		return
	}
	logger := log.FromContext(cmd.Context())
	if err := clipboard.WriteAll(path); err != nil {
		logger.Printf("Warning: failed to copy path to clipboard: %v\n", err)
		return
	}
	logger.Printf("Copied worktree path to clipboard: %s\n", path)
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func newConnector(cfg config.Config, shell remote.Dialect) *remote.Connector {
	return &remote.Connector{
		SSHKey:          cfg.SSHKey,
		UserHost:        cfg.SSHUserHost,
		Shell:           shell,
		LoginShell:      cfg.RemoteLoginShell,
		UnlockKeychain:  cfg.UnlockKeychain,
		KeychainCommand: cfg.KeychainCommand,
		WorktreeBase:    cfg.RemoteWorktreeBase,
	}
}
