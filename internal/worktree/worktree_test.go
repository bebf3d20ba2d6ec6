package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@localhost")
	run("config", "user.name", "test")
}

func TestCreateBootstrapsUnbornRepo(t *testing.T) {
	repo := t.TempDir()
	initRepo(t, repo)

	m := New(filepath.Join(t.TempDir(), "worktrees"))
	path, branch, err := m.Create(t.Context(), "task-1", repo, "demo project")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if branch != "task/task-1" {
		t.Errorf("branch = %q, want %q", branch, "task/task-1")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("worktree path missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo, "README.md")); err != nil {
		t.Errorf("expected bootstrap README.md in repo: %v", err)
	}
}

func TestCreateOnRepoWithHistorySkipsBootstrap(t *testing.T) {
	repo := t.TempDir()
	initRepo(t, repo)
	if err := os.WriteFile(filepath.Join(repo, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command("git", "add", "existing.txt")
	cmd.Dir = repo
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git add: %v: %s", err, out)
	}
	cmd = exec.Command("git", "commit", "-q", "-m", "seed")
	cmd.Dir = repo
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git commit: %v: %s", err, out)
	}

	m := New(filepath.Join(t.TempDir(), "worktrees"))
	_, _, err := m.Create(t.Context(), "task-2", repo, "demo")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(repo, "README.md")); statErr == nil {
		t.Error("did not expect bootstrap README.md when HEAD already born")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := t.TempDir()
	initRepo(t, repo)
	m := New(filepath.Join(t.TempDir(), "worktrees"))
	if _, _, err := m.Create(t.Context(), "task-3", repo, "demo"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Remove(t.Context(), "task-3", repo); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := m.Remove(t.Context(), "task-3", repo); err != nil {
		t.Errorf("second Remove should also succeed: %v", err)
	}
}

func TestCreateRepoNotFound(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "worktrees"))
	_, _, err := m.Create(t.Context(), "task-4", filepath.Join(t.TempDir(), "missing"), "demo")
	if err != ErrRepoNotFound {
		t.Errorf("got %v, want ErrRepoNotFound", err)
	}
}

func TestListEmptyRootSucceeds(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "worktrees"))
	entries, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestSweepOnceLogsOrphansWithoutDeleting(t *testing.T) {
	repo := t.TempDir()
	initRepo(t, repo)
	m := New(filepath.Join(t.TempDir(), "worktrees"))
	if _, _, err := m.Create(t.Context(), "owned", repo, "demo"); err != nil {
		t.Fatalf("Create owned: %v", err)
	}
	if _, _, err := m.Create(t.Context(), "orphan", repo, "demo"); err != nil {
		t.Fatalf("Create orphan: %v", err)
	}

	owned := func(taskID string) bool { return taskID == "owned" }
	m.sweepOnce(t.Context(), owned)

	for _, taskID := range []string{"owned", "orphan"} {
		if _, err := os.Stat(m.worktreePath(taskID)); err != nil {
			t.Errorf("sweepOnce must never delete %s: %v", taskID, err)
		}
	}
}
