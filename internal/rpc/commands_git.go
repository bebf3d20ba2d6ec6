package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

type pathReq struct {
	Path string `json:"path"`
}

func (r *pathReq) Validate() error {
	if r.Path == "" {
		return dto.BadRequest("path is required")
	}
	return nil
}

type validReq struct {
	Valid bool `json:"valid"`
}

func (d *Dispatcher) registerGitCommands() {
	register(d, "initialize_git_repo", func(ctx context.Context, c *core.Core, in *pathReq) (okResp, error) {
		if err := c.InitializeGitRepo(ctx, in.Path); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "validate_git_repository", func(ctx context.Context, c *core.Core, in *pathReq) (validReq, error) {
		ok, err := c.ValidateGitRepository(ctx, in.Path)
		if err != nil {
			return validReq{}, err
		}
		return validReq{Valid: ok}, nil
	})
}
