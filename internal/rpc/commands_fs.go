package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

type pathResp struct {
	Path string `json:"path"`
}

type createProjectDirectoryReq struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

func (r *createProjectDirectoryReq) Validate() error {
	if r.Parent == "" {
		return dto.BadRequest("parent is required")
	}
	if r.Name == "" {
		return dto.BadRequest("name is required")
	}
	return nil
}

func (d *Dispatcher) registerFSCommands() {
	register(d, "list_directory", func(ctx context.Context, c *core.Core, in *pathReq) ([]core.DirEntry, error) {
		return c.ListDirectory(in.Path)
	})
	register(d, "get_parent_directory", func(ctx context.Context, c *core.Core, in *pathReq) (pathResp, error) {
		return pathResp{Path: c.GetParentDirectory(in.Path)}, nil
	})
	register(d, "get_home_directory", func(ctx context.Context, c *core.Core, _ *noArgsReq) (pathResp, error) {
		home, err := c.GetHomeDirectory()
		if err != nil {
			return pathResp{}, err
		}
		return pathResp{Path: home}, nil
	})
	register(d, "create_project_directory", func(ctx context.Context, c *core.Core, in *createProjectDirectoryReq) (pathResp, error) {
		dir, err := c.CreateProjectDirectory(in.Parent, in.Name)
		if err != nil {
			return pathResp{}, err
		}
		return pathResp{Path: dir}, nil
	})
}
