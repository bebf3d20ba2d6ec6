package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

func (d *Dispatcher) registerWorktreeCommands() {
	register(d, "create_task_worktree", func(ctx context.Context, c *core.Core, in *taskIDReq) (dto.Task, error) {
		return c.CreateTaskWorktree(ctx, in.ProjectID, in.TaskID)
	})
	register(d, "remove_task_worktree", func(ctx context.Context, c *core.Core, in *taskIDReq) (dto.Task, error) {
		return c.RemoveTaskWorktree(ctx, in.ProjectID, in.TaskID)
	})
	register(d, "open_worktree_location", func(ctx context.Context, c *core.Core, in *taskIDReq) (okResp, error) {
		if err := c.OpenWorktreeLocation(ctx, in.ProjectID, in.TaskID); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "open_worktree_in_ide", func(ctx context.Context, c *core.Core, in *taskIDReq) (okResp, error) {
		if err := c.OpenWorktreeInIDE(ctx, in.ProjectID, in.TaskID); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "list_app_worktrees", func(ctx context.Context, c *core.Core, _ *noArgsReq) ([]dto.WorktreeEntry, error) {
		return c.ListAppWorktrees()
	})
}
