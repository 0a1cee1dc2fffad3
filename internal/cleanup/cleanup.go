// Package cleanup removes managed worktrees in bulk while refusing to
// touch uncommitted work. Directory layout: <base>/<repo>/<worktree>.
package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vibecoding/vibe/internal/git"
	"github.com/vibecoding/vibe/internal/output"
	"github.com/vibecoding/vibe/internal/ui/styles"
)

// Stats counts the outcomes of a cleanup run.
type Stats struct {
	Cleaned   int // worktrees removed
	Skipped   int // left alone because of uncommitted changes
	Lingering int // non-worktree directories deleted
	Failed    int // removals git refused
}

// RemoveResult is the outcome of removing a single worktree.
type RemoveResult int

const (
	RemoveFailed RemoveResult = iota
	Removed
	RemovedWithParent
)

// Engine runs cleanup against the managed worktree base.
type Engine struct {
	WorktreeBase string
	JunkFiles    []string // ignored when deciding whether a directory is empty
}

// RemoveWorktree removes a single worktree through git and reclaims the
// per-repo parent directory when the worktree was its last occupant.
func (e *Engine) RemoveWorktree(ctx context.Context, worktreePath, repoRoot string) RemoveResult {
	if info, err := os.Stat(repoRoot); err != nil || !info.IsDir() {
		return RemoveFailed
	}

	if err := git.RemoveWorktree(ctx, repoRoot, worktreePath); err != nil {
		return RemoveFailed
	}

	parent := filepath.Dir(worktreePath)
	if e.isDirectoryEmpty(parent) {
		e.removeJunk(parent)
		if err := os.Remove(parent); err == nil {
			return RemovedWithParent
		}
	}
	return Removed
}

// CleanAll removes every clean managed worktree across all repositories,
// deletes lingering directories git doesn't know about, and reclaims
// empty per-repo directories. A missing worktree base is not an error.
func (e *Engine) CleanAll(ctx context.Context) Stats {
	out := output.FromContext(ctx)

	out.Printf("Cleaning worktrees in %s\n\n", e.WorktreeBase)

	if info, err := os.Stat(e.WorktreeBase); err != nil || !info.IsDir() {
		out.Println("No worktree base directory found")
		return Stats{}
	}

	var stats Stats

	entries, err := os.ReadDir(e.WorktreeBase)
	if err != nil {
		out.Println("No worktree base directory found")
		return Stats{}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		e.cleanRepoDir(ctx, entry.Name(), &stats)
	}

	out.Println()
	e.printSummary(ctx, stats)
	return stats
}

// cleanRepoDir processes one <base>/<repo> directory.
func (e *Engine) cleanRepoDir(ctx context.Context, repoName string, stats *Stats) {
	out := output.FromContext(ctx)
	repoDir := filepath.Join(e.WorktreeBase, repoName)

	headerPrinted := false
	header := func() {
		if !headerPrinted {
			out.Println(styles.Bold.Render(repoName))
			headerPrinted = true
		}
	}

	// Any one worktree's common dir reveals the original repository; the
	// worktree base itself stores no state.
	originalRepo := e.findOriginalRepo(ctx, repoDir)

	valid := make(map[string]bool)
	if originalRepo != "" {
		for _, wtPath := range git.WorktreeList(ctx, originalRepo) {
			if !isUnder(wtPath, repoDir) {
				continue // main checkout or an unmanaged worktree
			}
			valid[wtPath] = true
			name := filepath.Base(wtPath)
			header()

			if git.HasUncommittedChanges(ctx, wtPath) {
				out.Printf("  %s %s — skipped (uncommitted changes)\n", styles.Skipped(), name)
				stats.Skipped++
				continue
			}

			switch e.RemoveWorktree(ctx, wtPath, originalRepo) {
			case Removed:
				out.Printf("  %s %s — cleaned\n", styles.Cleaned(), name)
				stats.Cleaned++
			case RemovedWithParent:
				out.Printf("  %s %s — cleaned + parent\n", styles.Cleaned(), name)
				stats.Cleaned++
			default:
				out.Printf("  %s %s — failed\n", styles.Failed(), name)
				stats.Failed++
			}
		}
	}

	// The repo dir may have vanished with its last worktree.
	if _, err := os.Stat(repoDir); err != nil {
		return
	}

	subdirs, err := os.ReadDir(repoDir)
	if err != nil {
		return
	}
	for _, sub := range subdirs {
		if !sub.IsDir() {
			continue
		}
		path := filepath.Join(repoDir, sub.Name())
		if valid[path] {
			continue
		}
		header()
		if e.cleanLingering(ctx, path) {
			stats.Lingering++
		}
	}

	if e.isDirectoryEmpty(repoDir) {
		e.removeJunk(repoDir)
		if err := os.Remove(repoDir); err == nil && headerPrinted {
			out.Printf("  %s\n", styles.MutedStyle.Render("(removed empty directory)"))
		}
	}
}

// findOriginalRepo locates the main repository by asking the first git
// worktree under repoDir for its common dir.
func (e *Engine) findOriginalRepo(ctx context.Context, repoDir string) string {
	entries, err := os.ReadDir(repoDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(repoDir, entry.Name())
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			continue
		}
		if commonDir := git.CommonDir(ctx, path); commonDir != "" {
			return filepath.Dir(commonDir)
		}
	}
	return ""
}

// cleanLingering deletes a directory that exists under the managed base
// but isn't a registered worktree.
func (e *Engine) cleanLingering(ctx context.Context, dir string) bool {
	out := output.FromContext(ctx)
	name := filepath.Base(dir)

	if e.isDirectoryEmpty(dir) {
		e.removeJunk(dir)
		if err := os.Remove(dir); err != nil {
			return false
		}
		out.Printf("  %s %s — cleaned (empty)\n", styles.Cleaned(), name)
		return true
	}

	if err := os.RemoveAll(dir); err != nil {
		out.Printf("  %s %s — failed (lingering)\n", styles.Failed(), name)
		return false
	}
	out.Printf("  %s %s — cleaned (lingering)\n", styles.Cleaned(), name)
	return true
}

// CleanSpecific removes one named worktree. Returns false when the
// worktree is missing, unregistered, dirty, or git refuses the removal.
func (e *Engine) CleanSpecific(ctx context.Context, repoRoot, repoName, worktreeName string) bool {
	out := output.FromContext(ctx)
	worktreePath := filepath.Join(e.WorktreeBase, repoName, worktreeName)

	out.Printf("Cleaning worktree: %s\n\n", styles.Bold.Render(worktreeName))

	if info, err := os.Stat(worktreePath); err != nil || !info.IsDir() {
		out.Printf("%s Worktree '%s' does not exist\n", styles.Failed(), worktreeName)
		return false
	}

	if !slices.Contains(git.WorktreeList(ctx, repoRoot), worktreePath) {
		out.Printf("%s '%s' is not a valid git worktree\n", styles.Failed(), worktreeName)
		return false
	}

	if git.HasUncommittedChanges(ctx, worktreePath) {
		out.Printf("%s %s — skipped (uncommitted changes)\n", styles.Skipped(), worktreeName)
		out.Println("  Please commit or stash changes first")
		return false
	}

	switch e.RemoveWorktree(ctx, worktreePath, repoRoot) {
	case Removed:
		out.Printf("%s %s — cleaned\n", styles.Cleaned(), worktreeName)
		return true
	case RemovedWithParent:
		out.Printf("%s %s — cleaned + parent\n", styles.Cleaned(), worktreeName)
		return true
	default:
		out.Printf("%s %s — failed\n", styles.Failed(), worktreeName)
		return false
	}
}

func (e *Engine) printSummary(ctx context.Context, stats Stats) {
	out := output.FromContext(ctx)

	var parts []string
	if stats.Cleaned > 0 {
		parts = append(parts, styles.SuccessStyle.Render(fmt.Sprintf("%d cleaned", stats.Cleaned)))
	}
	if stats.Skipped > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%d skipped", stats.Skipped)))
	}
	if stats.Failed > 0 {
		parts = append(parts, styles.ErrorStyle.Render(fmt.Sprintf("%d failed", stats.Failed)))
	}
	if stats.Lingering > 0 {
		parts = append(parts, fmt.Sprintf("%d lingering", stats.Lingering))
	}

	if len(parts) > 0 {
		out.Println("Summary: " + strings.Join(parts, " · "))
	} else {
		out.Println(styles.MutedStyle.Render("Nothing to clean"))
	}
}

// isDirectoryEmpty reports whether dir contains nothing but junk files.
func (e *Engine) isDirectoryEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !slices.Contains(e.JunkFiles, entry.Name()) {
			return false
		}
	}
	return true
}

// removeJunk deletes known junk files so an rmdir can succeed.
func (e *Engine) removeJunk(dir string) {
	for _, junk := range e.JunkFiles {
		os.Remove(filepath.Join(dir, junk))
	}
}

// isUnder reports whether path is inside dir.
func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
