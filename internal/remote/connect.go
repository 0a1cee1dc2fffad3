package remote

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vibecoding/vibe/internal/log"
)

// Runner executes a prepared command and reports its exit code. The
// default runner attaches the terminal; tests substitute a fake so no
// subprocess is spawned.
type Runner interface {
	Run(cmd *exec.Cmd) (int, error)
}

// interactiveRunner attaches the user's terminal to the command.
type interactiveRunner struct{}

func (interactiveRunner) Run(cmd *exec.Cmd) (int, error) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The session's own exit code, passed through verbatim.
		return exitErr.ExitCode(), nil
	}
	return 1, err
}

// Connector starts development sessions on the configured remote host
// or locally.
type Connector struct {
	SSHKey          string
	UserHost        string
	Shell           Dialect
	LoginShell      string
	UnlockKeychain  bool
	KeychainCommand string
	WorktreeBase    string // remote worktree base

	Runner Runner // nil means run interactively
}

func (c *Connector) runner() Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return interactiveRunner{}
}

// Worktree connects to the managed worktree for repoName/worktreeName.
// tool empty means an interactive shell. Returns the session exit code.
func (c *Connector) Worktree(ctx context.Context, repoName, worktreeName, tool string) int {
	return c.Path(ctx, filepath.Join(c.WorktreeBase, repoName, worktreeName), tool)
}

// Path connects to an arbitrary remote path, worktree or main repo.
func (c *Connector) Path(ctx context.Context, remotePath, tool string) int {
	logger := log.FromContext(ctx)

	if !c.validateKey(ctx) {
		return 1
	}

	if tool != "" {
		logger.Printf("Connecting to %s and starting %s...\n", c.UserHost, tool)
	} else {
		logger.Printf("Connecting to %s and navigating to worktree...\n", c.UserHost)
	}

	cmd := Command{
		Path:       remotePath,
		Tool:       tool,
		LoginShell: c.LoginShell,
		// Keychain unlock only exists on the macOS remote.
		UnlockKeychain:  c.UnlockKeychain && c.Shell == Posix,
		KeychainCommand: c.KeychainCommand,
	}
	return c.ssh(ctx, cmd.Render(c.Shell))
}

// Home connects to the remote home directory with an interactive shell.
func (c *Connector) Home(ctx context.Context) int {
	logger := log.FromContext(ctx)

	if !c.validateKey(ctx) {
		return 1
	}

	logger.Printf("Connecting to %s...\n", c.UserHost)

	cmd := Command{
		LoginShell:      c.LoginShell,
		UnlockKeychain:  c.UnlockKeychain && c.Shell == Posix,
		KeychainCommand: c.KeychainCommand,
	}
	return c.ssh(ctx, cmd.Render(c.Shell))
}

// Locally runs the coding tool in a local worktree directory.
func (c *Connector) Locally(ctx context.Context, worktreePath, tool string) int {
	logger := log.FromContext(ctx)

	logger.Printf("Switching to local worktree and starting %s...\n", tool)

	if info, err := os.Stat(worktreePath); err != nil || !info.IsDir() {
		logger.Printf("Error: worktree path does not exist: %s\n", worktreePath)
		return 1
	}

	cmd := exec.CommandContext(ctx, tool)
	cmd.Dir = worktreePath

	code, err := c.runner().Run(cmd)
	if err != nil {
		logger.Printf("Error: %v\n", err)
	}
	logger.Println("Returning to original directory...")
	return code
}

// validateKey checks the SSH key exists before any subprocess runs.
func (c *Connector) validateKey(ctx context.Context) bool {
	if _, err := os.Stat(c.SSHKey); err != nil {
		log.FromContext(ctx).Printf("Error: SSH key not found: %s\n", c.SSHKey)
		return false
	}
	return true
}

// ssh runs `ssh -i <key> <user@host> -t <remoteCmd>` and passes the exit
// code through verbatim. 255 is SSH's own failure code and gets a hint,
// but the code is still returned unchanged.
func (c *Connector) ssh(ctx context.Context, remoteCmd string) int {
	logger := log.FromContext(ctx)

	cmd := exec.CommandContext(ctx, "ssh", "-i", c.SSHKey, c.UserHost, "-t", remoteCmd)
	code, err := c.runner().Run(cmd)
	if err != nil {
		logger.Printf("Error: %v\n", err)
	}

	if code == 255 {
		logger.Println()
		logger.Println("SSH connection failed. Common causes:")
		logger.Printf("  - Host '%s' is unreachable\n", c.UserHost)
		logger.Printf("  - SSH key '%s' is not authorized\n", c.SSHKey)
		logger.Println("  - Network connectivity issues")
	}
	return code
}
