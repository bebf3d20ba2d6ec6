package worktree

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// ideCandidates is an ordered list of editor launchers to probe before
// falling back to a bare command name. Mirrors the profile command-candidate
// idiom used for agent CLIs (spec §4.D.1): on some platforms the editor may
// not be on PATH under its common name.
var ideCandidates = []string{"code", "code-insiders", "cursor", "windsurf"}

// OpenFolder launches a platform file-manager opener for path.
func OpenFolder(ctx context.Context, path string) error {
	candidates := folderOpenerCandidates()
	return runFirstSuccessful(ctx, candidates, path)
}

// OpenIDE probes candidate editor launchers in order, reporting failure only
// if every candidate fails to start.
func OpenIDE(ctx context.Context, path string) error {
	return runFirstSuccessful(ctx, ideCandidates, path)
}

func folderOpenerCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"explorer"}
	default:
		return []string{"xdg-open"}
	}
}

func runFirstSuccessful(ctx context.Context, candidates []string, arg string) error {
	var lastErr error
	for _, cand := range candidates {
		cmd := exec.CommandContext(ctx, cand, arg) //nolint:gosec // candidate list is fixed, arg is a worktree path, not arbitrary input.
		if err := cmd.Start(); err != nil {
			lastErr = err
			continue
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
	if lastErr == nil {
		return fmt.Errorf("worktree: no opener candidates configured")
	}
	return fmt.Errorf("worktree: all opener candidates failed: %w", lastErr)
}
