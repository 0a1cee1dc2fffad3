package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vibecoding/vibe/internal/config"
	"github.com/vibecoding/vibe/internal/log"
	"github.com/vibecoding/vibe/internal/output"
	"github.com/vibecoding/vibe/internal/platform"
)

// exitError carries a session's exit code through cobra unchanged.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitWithCode converts a session exit code into an error cobra can
// bubble up. Zero means success and returns nil.
func exitWithCode(code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}

// errAborted is returned when the user cancels an interactive prompt.
var errAborted = errors.New("aborted")

func newRootCmd(cfg config.Config) *cobra.Command {
	var (
		verbose bool
		quiet   bool
		opts    runOptions
	)

	cmd := &cobra.Command{
		Use:   "vibe [branch]",
		Short: "Git worktree manager for remote development sessions",
		Long: `vibe creates and manages git worktrees, then connects to the remote
development machine (or works locally) with your coding tool of choice.

Context-aware behavior:
  - In a main repo, 'vibe' connects to that repo on the remote
  - In a worktree, 'vibe' connects to that worktree on the remote
  - In a worktree, 'vibe new-branch' branches from the worktree's HEAD`,
		Example: `  vibe                              # connect to current context
  vibe feature-branch --codex       # create worktree, use Codex
  vibe feature-branch --claude      # create worktree, use Claude Code
  vibe feature-branch --from main   # create from main branch
  vibe --cli                        # SSH to home directory
  vibe --cli feature-branch         # create worktree, SSH shell only
  vibe --local feature-branch       # work locally (prompts for tool)
  vibe --clean                      # clean all worktrees
  vibe --clean feature-branch       # clean specific worktree`,
		Args:                       cobra.MaximumNArgs(1),
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
			ctx = output.WithPrinter(ctx, os.Stdout)
			ctx = config.WithConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}
			return run(cmd, branch, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress diagnostic output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Flags().BoolVar(&opts.cli, "cli", false, "Connect to remote shell only, without a coding tool. Without a branch, connects to the home directory")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Work locally instead of SSH to remote. Requires a branch name")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "Clean worktrees. Without a branch, cleans all; with a branch, cleans that worktree")
	cmd.Flags().StringVar(&opts.fromBranch, "from", "", "Base branch to create the new branch from")
	cmd.Flags().BoolVar(&opts.oc, "oc", false, "Use OpenCode as the coding tool")
	cmd.Flags().BoolVar(&opts.codex, "codex", false, "Use Codex as the coding tool")
	cmd.Flags().BoolVar(&opts.claude, "claude", false, "Use Claude Code as the coding tool")
	cmd.Flags().BoolVar(&opts.copyPath, "copy", false, "Copy the local worktree path to the clipboard")

	if err := cmd.RegisterFlagCompletionFunc("from", completeBranches); err != nil {
		panic(err)
	}
	cmd.ValidArgsFunction = completePositional(&opts)

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	plat := platform.Detect()

	cfg, err := config.Load(plat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(cfg)
	root.SetContext(ctx)

	err = root.Execute()
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	if errors.Is(err, errAborted) {
		fmt.Fprintln(os.Stderr, "Aborted")
		return 1
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
