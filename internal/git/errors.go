package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotARepository is returned when an operation requires a git
// repository and the working directory isn't inside one.
var ErrNotARepository = errors.New("not in a git repository")

// RemoteBranchNotFoundError indicates an origin/-prefixed branch that
// doesn't exist on the remote.
type RemoteBranchNotFoundError struct {
	Branch    string // the requested origin/... name
	Available []string
}

func (e *RemoteBranchNotFoundError) Error() string {
	return fmt.Sprintf("remote branch %q does not exist\navailable remote branches: %s",
		e.Branch, strings.Join(e.Available, ", "))
}

// BaseBranchNotFoundError indicates a --from branch that exists neither
// locally nor on the remote.
type BaseBranchNotFoundError struct {
	Branch string
	Local  []string
	Remote []string
}

func (e *BaseBranchNotFoundError) Error() string {
	return fmt.Sprintf("base branch %q does not exist\navailable local branches: %s\navailable remote branches: %s",
		e.Branch, strings.Join(e.Local, ", "), strings.Join(e.Remote, ", "))
}

// WorktreeCreationError wraps a failed `git worktree add`, keeping the
// target path and git's own stderr for the user.
type WorktreeCreationError struct {
	Name string // worktree/branch name
	Path string
	Base string // base branch or remote ref, empty for plain add
	Err  error  // git stderr, folded by the cmd package
}

func (e *WorktreeCreationError) Error() string {
	msg := fmt.Sprintf("failed to create worktree %q", e.Name)
	if e.Base != "" {
		msg += fmt.Sprintf(" from %q", e.Base)
	}
	return fmt.Sprintf("%s\npath: %s\ngit error: %v", msg, e.Path, e.Err)
}

func (e *WorktreeCreationError) Unwrap() error { return e.Err }
