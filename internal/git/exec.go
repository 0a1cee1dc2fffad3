package git

import (
	"context"
	"time"

	"github.com/vibecoding/vibe/internal/cmd"
)

// opTimeout bounds every git subprocess. A hung git (network remote,
// locked index) must not wedge the whole session.
const opTimeout = 60 * time.Second

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command with timeout and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputGit executes a git command with timeout and verbose logging,
// returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}
