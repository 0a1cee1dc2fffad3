package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateWorktreeNewBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	path, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}

	want := filepath.Join(base, "test-repo", "feature")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("worktree dir should exist: %v", err)
	}
	if !BranchExistsLocal(ctx, repoPath, "feature") {
		t.Error("branch feature should have been created")
	}
}

func TestCreateWorktreeExistingBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	if err := runGit(ctx, repoPath, "branch", "existing"); err != nil {
		t.Fatalf("branch: %v", err)
	}

	path, err := CreateWorktree(ctx, repoPath, base, "test-repo", "existing", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("worktree dir should exist: %v", err)
	}
}

func TestCreateWorktreeFromRemote(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	// Publish a branch, then drop the local copy so only origin has it.
	if err := runGit(ctx, repoPath, "branch", "remote-only"); err != nil {
		t.Fatalf("branch: %v", err)
	}
	if err := runGit(ctx, repoPath, "push", "origin", "remote-only"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := runGit(ctx, repoPath, "branch", "-D", "remote-only"); err != nil {
		t.Fatalf("branch -D: %v", err)
	}

	path, err := CreateWorktree(ctx, repoPath, base, "repo", "origin/remote-only", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}

	// The origin/ prefix is stripped from the path.
	want := filepath.Join(base, "repo", "remote-only")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !BranchExistsLocal(ctx, repoPath, "remote-only") {
		t.Error("local tracking branch should have been created")
	}
}

func TestCreateWorktreeRemoteBranchMissing(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")

	_, err := CreateWorktree(context.Background(), repoPath, base, "repo", "origin/ghost", "")

	var notFound *RemoteBranchNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want RemoteBranchNotFoundError", err)
	}
	if notFound.Branch != "origin/ghost" {
		t.Errorf("Branch = %q", notFound.Branch)
	}
	assertContains(t, notFound.Available, "origin/main")
}

func TestCreateWorktreeFromBaseBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	if err := runGit(ctx, repoPath, "branch", "develop"); err != nil {
		t.Fatalf("branch: %v", err)
	}

	if _, err := CreateWorktree(ctx, repoPath, base, "test-repo", "topic", "develop"); err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}
	if !BranchExistsLocal(ctx, repoPath, "topic") {
		t.Error("branch topic should have been created")
	}
}

func TestCreateWorktreeBaseBranchMissing(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")

	_, err := CreateWorktree(context.Background(), repoPath, base, "test-repo", "topic", "ghost")

	var notFound *BaseBranchNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want BaseBranchNotFoundError", err)
	}
	assertContains(t, notFound.Local, "main")
}

func TestCreateWorktreeGitFailure(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	// main is already checked out in the primary worktree; adding it
	// again makes git refuse.
	_, err := CreateWorktree(ctx, repoPath, base, "test-repo", "main", "")

	var creation *WorktreeCreationError
	if !errors.As(err, &creation) {
		t.Fatalf("err = %v, want WorktreeCreationError", err)
	}
	if creation.Name != "main" {
		t.Errorf("Name = %q", creation.Name)
	}
}

func TestCheckWorktreeExists(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	if got := CheckWorktreeExists(ctx, repoPath, base, "test-repo", "feature"); got != StatusNotExists {
		t.Errorf("status = %v, want not_exists", got)
	}

	if _, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", ""); err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}
	if got := CheckWorktreeExists(ctx, repoPath, base, "test-repo", "feature"); got != StatusValid {
		t.Errorf("status = %v, want exists_valid", got)
	}

	// A directory git doesn't know about is invalid, not reusable.
	stale := filepath.Join(base, "test-repo", "stale")
	if err := os.MkdirAll(stale, 0755); err != nil {
		t.Fatal(err)
	}
	if got := CheckWorktreeExists(ctx, repoPath, base, "test-repo", "stale"); got != StatusInvalid {
		t.Errorf("status = %v, want exists_invalid", got)
	}
}

func TestWorktreeList(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	wtPath, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}

	assertContains(t, WorktreeList(ctx, repoPath), repoPath, wtPath)

	if got := WorktreeList(ctx, resolveTempDir(t)); len(got) != 0 {
		t.Errorf("WorktreeList outside repo = %v", got)
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	wtPath, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}

	if HasUncommittedChanges(ctx, wtPath) {
		t.Error("fresh worktree should be clean")
	}

	makeDirty(t, wtPath)
	if !HasUncommittedChanges(ctx, wtPath) {
		t.Error("untracked file should count as uncommitted changes")
	}

	if HasUncommittedChanges(ctx, filepath.Join(base, "missing")) {
		t.Error("missing path should report false")
	}
}

func TestRemoveWorktree(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	wtPath, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}

	if err := RemoveWorktree(ctx, repoPath, wtPath); err != nil {
		t.Fatalf("RemoveWorktree failed: %v", err)
	}
	if _, err := os.Stat(wtPath); !os.IsNotExist(err) {
		t.Error("worktree dir should be gone")
	}
}

func TestRemoveWorktreeRefusesDirty(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	base := filepath.Join(filepath.Dir(repoPath), "_vibecoding")
	ctx := context.Background()

	wtPath, err := CreateWorktree(ctx, repoPath, base, "test-repo", "feature", "")
	if err != nil {
		t.Fatalf("CreateWorktree failed: %v", err)
	}
	makeDirty(t, wtPath)

	if err := RemoveWorktree(ctx, repoPath, wtPath); err == nil {
		t.Error("expected git to refuse removing a dirty worktree")
	}
}
