package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

func initRepo(t *testing.T, branch string) (string, plumbing.Hash) {
	t.Helper()
	repoPath := filepath.Join(t.TempDir(), "src")

	repo, err := git.PlainInitWithOptions(repoPath, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}

	docsDir := filepath.Join(repoPath, "docs", "cli-tutorial")
	if mkdirErr := os.MkdirAll(docsDir, 0o750); mkdirErr != nil {
		t.Fatalf("Failed to create docs dir: %v", mkdirErr)
	}
	if writeErr := os.WriteFile(filepath.Join(docsDir, "topic-list.txt"), []byte("intro.html\n"), 0o600); writeErr != nil {
		t.Fatalf("Failed to write file: %v", writeErr)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, addErr := w.Add("."); addErr != nil {
		t.Fatalf("Failed to add files: %v", addErr)
	}
	commit, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return repoPath, commit
}

func TestCurrentRef_Branch(t *testing.T) {
	repoPath, _ := initRepo(t, "main")

	// Lookup starts from a nested directory, as the tool runs from docs/.
	ref, err := CurrentRef(filepath.Join(repoPath, "docs", "cli-tutorial"))
	if err != nil {
		t.Fatalf("CurrentRef: %v", err)
	}
	if ref != "main" {
		t.Fatalf("expected main, got %q", ref)
	}
}

func TestCurrentRef_Detached(t *testing.T) {
	repoPath, commit := initRepo(t, "main")

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := w.Checkout(&git.CheckoutOptions{Hash: commit}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	ref, err := CurrentRef(repoPath)
	if err != nil {
		t.Fatalf("CurrentRef: %v", err)
	}
	if ref != commit.String() {
		t.Fatalf("expected detached hash %s, got %q", commit, ref)
	}
}

func TestCurrentRef_NotARepository(t *testing.T) {
	_, err := CurrentRef(t.TempDir())
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
	if !derrors.HasCategory(err, derrors.CategoryGit) {
		t.Fatalf("expected git category, got %v", derrors.GetCategory(err))
	}
}
