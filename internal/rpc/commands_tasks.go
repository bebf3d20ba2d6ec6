package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

type loadTasksReq struct {
	ProjectID string `json:"project_id"`
}

func (r *loadTasksReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	return nil
}

type saveTasksReq struct {
	ProjectID string     `json:"project_id"`
	Tasks     []dto.Task `json:"tasks"`
}

func (r *saveTasksReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	return nil
}

type createTaskReq struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *createTaskReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	if r.Title == "" {
		return dto.BadRequest("title is required")
	}
	return nil
}

type updateTaskReq struct {
	ProjectID string   `json:"project_id"`
	Task      dto.Task `json:"task"`
}

func (r *updateTaskReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	if r.Task.ID == "" {
		return dto.BadRequest("task.id is required")
	}
	return nil
}

type taskIDReq struct {
	ProjectID string `json:"project_id"`
	TaskID    string `json:"task_id"`
}

func (r *taskIDReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	if r.TaskID == "" {
		return dto.BadRequest("task_id is required")
	}
	return nil
}

func (d *Dispatcher) registerTaskCommands() {
	register(d, "load_tasks", func(ctx context.Context, c *core.Core, in *loadTasksReq) ([]dto.Task, error) {
		return c.LoadTasks(in.ProjectID)
	})
	register(d, "save_tasks", func(ctx context.Context, c *core.Core, in *saveTasksReq) (okResp, error) {
		if err := c.SaveTasks(in.ProjectID, in.Tasks); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "create_task", func(ctx context.Context, c *core.Core, in *createTaskReq) (dto.Task, error) {
		return c.CreateTask(in.ProjectID, in.Title, in.Description)
	})
	register(d, "update_task", func(ctx context.Context, c *core.Core, in *updateTaskReq) (dto.Task, error) {
		return c.UpdateTask(in.ProjectID, in.Task)
	})
	register(d, "get_task", func(ctx context.Context, c *core.Core, in *taskIDReq) (dto.Task, error) {
		return c.GetTask(in.ProjectID, in.TaskID)
	})
}
