package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

type emptyArgs struct{}

func (emptyArgs) Validate() error { return nil }

type okResp struct {
	OK bool `json:"ok"`
}

type loadProjectsReq struct{ emptyArgs }

// noArgsReq is reused by every command that takes no arguments at all.
type noArgsReq struct{ emptyArgs }

type saveProjectsReq struct {
	Projects []dto.Project `json:"projects"`
}

func (r *saveProjectsReq) Validate() error { return nil }

type createProjectReq struct {
	Name     string `json:"name"`
	RepoPath string `json:"repo_path"`
}

func (r *createProjectReq) Validate() error {
	if r.Name == "" {
		return dto.BadRequest("name is required")
	}
	if r.RepoPath == "" {
		return dto.BadRequest("repo_path is required")
	}
	return nil
}

type projectIDReq struct {
	ProjectID string `json:"project_id"`
}

func (r *projectIDReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	return nil
}

func (d *Dispatcher) registerProjectCommands() {
	register(d, "load_projects", func(ctx context.Context, c *core.Core, _ *loadProjectsReq) ([]dto.Project, error) {
		return c.LoadProjects()
	})
	register(d, "save_projects", func(ctx context.Context, c *core.Core, in *saveProjectsReq) (okResp, error) {
		if err := c.SaveProjects(in.Projects); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "create_project", func(ctx context.Context, c *core.Core, in *createProjectReq) (dto.Project, error) {
		return c.CreateProject(in.Name, in.RepoPath)
	})
	register(d, "delete_project", func(ctx context.Context, c *core.Core, in *projectIDReq) (okResp, error) {
		if err := c.DeleteProject(ctx, in.ProjectID); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
}
