package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/agent-board/backend/internal/dto"
)

// InitializeGitRepo runs `git init` against path, for project creation flows
// that point at a plain directory rather than an existing repository.
func (c *Core) InitializeGitRepo(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dto.NotFound("directory")
		}
		return dto.InternalError("stat directory").Wrap(err)
	}
	if !info.IsDir() {
		return dto.BadRequest("path is not a directory")
	}

	cmd := exec.CommandContext(ctx, "git", "init") //nolint:gosec // fixed command, path comes from a stat'd local directory.
	cmd.Dir = path
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return dto.InternalError("git init failed").Wrap(fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())))
	}
	return nil
}

// ValidateGitRepository reports whether path is a directory containing a git
// repository, without mutating anything.
func (c *Core) ValidateGitRepository(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, dto.InternalError("stat directory").Wrap(err)
	}
	if !info.IsDir() {
		return false, nil
	}

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree") //nolint:gosec // fixed command.
	cmd.Dir = path
	if err := cmd.Run(); err != nil {
		return false, nil
	}
	return true, nil
}
