package runner

import (
	"context"
	"os/exec"
)

// execCommand builds a child-process command rooted at dir with stdin
// closed, matching the initial-spawn contract (spec §4.D.2) reused for
// reply spawns.
func execCommand(ctx context.Context, cmdPath string, args []string, dir string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, cmdPath, args...) //nolint:gosec // cmdPath/args come from a resolved profile candidate, not user input.
	cmd.Dir = dir
	cmd.Stdin = nil
	return cmd
}
