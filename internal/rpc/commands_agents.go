package rpc

import (
	"context"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

type startAgentProcessReq struct {
	ProjectID string      `json:"project_id"`
	TaskID    string      `json:"task_id"`
	Profile   dto.Harness `json:"profile"`
	Model     string      `json:"model"`
	MaxTurns  int         `json:"max_turns"`
}

func (r *startAgentProcessReq) Validate() error {
	if r.ProjectID == "" {
		return dto.BadRequest("project_id is required")
	}
	if r.TaskID == "" {
		return dto.BadRequest("task_id is required")
	}
	return nil
}

type sendAgentMessageReq struct {
	PriorProcessID string `json:"prior_process_id"`
	Message        string `json:"message"`
	WorktreePath   string `json:"worktree_path"`
	Model          string `json:"model"`
	MaxTurns       int    `json:"max_turns"`
}

func (r *sendAgentMessageReq) Validate() error {
	if r.PriorProcessID == "" {
		return dto.BadRequest("prior_process_id is required")
	}
	if r.Message == "" {
		return dto.BadRequest("message is required")
	}
	return nil
}

type processIDResp struct {
	ProcessID string `json:"process_id"`
}

type getProcessListReq struct {
	TaskID string `json:"task_id"`
}

func (r *getProcessListReq) Validate() error {
	if r.TaskID == "" {
		return dto.BadRequest("task_id is required")
	}
	return nil
}

type processIDReq struct {
	ProcessID string `json:"process_id"`
}

func (r *processIDReq) Validate() error {
	if r.ProcessID == "" {
		return dto.BadRequest("process_id is required")
	}
	return nil
}

type getAgentMessagesReq struct {
	TaskID    string `json:"task_id"`
	ProcessID string `json:"process_id"`
}

func (r *getAgentMessagesReq) Validate() error {
	if r.TaskID == "" {
		return dto.BadRequest("task_id is required")
	}
	if r.ProcessID == "" {
		return dto.BadRequest("process_id is required")
	}
	return nil
}

type saveAgentSettingsReq struct {
	Settings dto.AgentSettings `json:"settings"`
}

func (r *saveAgentSettingsReq) Validate() error { return nil }

func (d *Dispatcher) registerAgentCommands() {
	register(d, "start_agent_process", func(ctx context.Context, c *core.Core, in *startAgentProcessReq) (processIDResp, error) {
		id, err := c.StartAgentProcess(ctx, in.ProjectID, in.TaskID, in.Profile, in.Model, in.MaxTurns)
		if err != nil {
			return processIDResp{}, err
		}
		return processIDResp{ProcessID: id}, nil
	})
	register(d, "send_agent_message", func(ctx context.Context, c *core.Core, in *sendAgentMessageReq) (processIDResp, error) {
		id, err := c.SendAgentMessage(ctx, in.PriorProcessID, in.Message, in.WorktreePath, in.Model, in.MaxTurns)
		if err != nil {
			return processIDResp{}, err
		}
		return processIDResp{ProcessID: id}, nil
	})
	register(d, "get_process_list", func(ctx context.Context, c *core.Core, in *getProcessListReq) ([]dto.Process, error) {
		return c.GetProcessList(in.TaskID)
	})
	register(d, "get_process_details", func(ctx context.Context, c *core.Core, in *processIDReq) (dto.Process, error) {
		return c.GetProcessDetails(in.ProcessID)
	})
	register(d, "get_agent_messages", func(ctx context.Context, c *core.Core, in *getAgentMessagesReq) ([]dto.Message, error) {
		return c.GetAgentMessages(in.TaskID, in.ProcessID), nil
	})
	register(d, "kill_agent_process", func(ctx context.Context, c *core.Core, in *processIDReq) (okResp, error) {
		if err := c.KillAgentProcess(in.ProcessID); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
	register(d, "get_agent_settings", func(ctx context.Context, c *core.Core, _ *noArgsReq) (dto.AgentSettings, error) {
		return c.GetAgentSettings()
	})
	register(d, "save_agent_settings", func(ctx context.Context, c *core.Core, in *saveAgentSettingsReq) (okResp, error) {
		if err := c.SaveAgentSettings(in.Settings); err != nil {
			return okResp{}, err
		}
		return okResp{OK: true}, nil
	})
}
