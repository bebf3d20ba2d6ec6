package core

import (
	"context"

	"github.com/agent-board/backend/internal/dto"
	"github.com/agent-board/backend/internal/worktree"
)

// CreateTaskWorktree carves out a worktree/branch pair for a task and
// records the result on the task record (spec §4.C.1).
func (c *Core) CreateTaskWorktree(ctx context.Context, projectID, taskID string) (dto.Task, error) {
	proj, err := c.getProject(projectID)
	if err != nil {
		return dto.Task{}, err
	}
	task, err := c.GetTask(projectID, taskID)
	if err != nil {
		return dto.Task{}, err
	}
	if task.WorktreePath != "" {
		return task, nil // already started; idempotent from the caller's view.
	}

	path, branch, err := c.Worktrees.Create(ctx, taskID, proj.RepoPath, proj.Name)
	if err != nil {
		return dto.Task{}, err
	}
	task.WorktreePath = path
	task.Branch = branch
	return c.UpdateTask(projectID, task)
}

// RemoveTaskWorktree tears down a task's worktree and branch and clears the
// task's worktree fields. Removing an already-worktree-less task succeeds.
func (c *Core) RemoveTaskWorktree(ctx context.Context, projectID, taskID string) (dto.Task, error) {
	proj, err := c.getProject(projectID)
	if err != nil {
		return dto.Task{}, err
	}
	task, err := c.GetTask(projectID, taskID)
	if err != nil {
		return dto.Task{}, err
	}
	if task.WorktreePath == "" {
		return task, nil
	}
	if err := c.Worktrees.Remove(ctx, taskID, proj.RepoPath); err != nil {
		return dto.Task{}, err
	}
	task.WorktreePath = ""
	task.Branch = ""
	return c.UpdateTask(projectID, task)
}

// OpenWorktreeLocation launches the platform file-manager opener on a task's
// worktree directory.
func (c *Core) OpenWorktreeLocation(ctx context.Context, projectID, taskID string) error {
	task, err := c.GetTask(projectID, taskID)
	if err != nil {
		return err
	}
	if task.WorktreePath == "" {
		return dto.BadRequest("task has no worktree")
	}
	return worktree.OpenFolder(ctx, task.WorktreePath)
}

// OpenWorktreeInIDE launches the first available editor launcher on a task's
// worktree directory.
func (c *Core) OpenWorktreeInIDE(ctx context.Context, projectID, taskID string) error {
	task, err := c.GetTask(projectID, taskID)
	if err != nil {
		return err
	}
	if task.WorktreePath == "" {
		return dto.BadRequest("task has no worktree")
	}
	return worktree.OpenIDE(ctx, task.WorktreePath)
}

// ListAppWorktrees enumerates every worktree directory known to the app and
// cross-references it against all tasks across all projects, flagging any
// directory with no owning task as orphaned (supplemental to spec.md, see
// SPEC_FULL.md "Worktree Manager" additions — orphan sweep).
func (c *Core) ListAppWorktrees() ([]dto.WorktreeEntry, error) {
	entries, err := c.Worktrees.List()
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool)
	projects, err := c.LoadProjects()
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		tasks, err := c.LoadTasks(p.ID)
		if err != nil {
			continue
		}
		for _, t := range tasks {
			if t.WorktreePath != "" {
				owned[t.ID] = true
			}
		}
	}

	out := make([]dto.WorktreeEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.WorktreeEntry{
			TaskID: e.TaskID,
			Path:   e.Path,
			Orphan: !owned[e.TaskID],
		})
	}
	return out, nil
}

// TaskExists reports whether taskID belongs to any known task across all
// projects. Used as the ownership check driving the Worktree Manager's
// background orphan sweep (see cmd/agent-board's wiring of worktree.Sweep).
func (c *Core) TaskExists(taskID string) bool {
	projects, err := c.LoadProjects()
	if err != nil {
		return true // can't tell; don't flag anything as orphaned on a read failure.
	}
	for _, p := range projects {
		tasks, err := c.LoadTasks(p.ID)
		if err != nil {
			continue
		}
		for _, t := range tasks {
			if t.ID == taskID {
				return true
			}
		}
	}
	return false
}

func (c *Core) getProject(projectID string) (dto.Project, error) {
	projects, err := c.LoadProjects()
	if err != nil {
		return dto.Project{}, err
	}
	for _, p := range projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return dto.Project{}, dto.NotFound("project")
}
