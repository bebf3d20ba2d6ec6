package core

import (
	"context"

	"github.com/agent-board/backend/internal/dto"
)

// StartAgentProcess starts the initial agent process for a task, using the
// task's worktree as the working directory. The task must already have a
// worktree (spec §4.D.2 assumes create_task_worktree ran first).
func (c *Core) StartAgentProcess(ctx context.Context, projectID, taskID string, profile dto.Harness, model string, maxTurns int) (string, error) {
	task, err := c.GetTask(projectID, taskID)
	if err != nil {
		return "", err
	}
	if task.WorktreePath == "" {
		return "", dto.BadRequest("task has no worktree")
	}
	return c.Runner.StartAgent(ctx, task, profile, model, maxTurns)
}

// SendAgentMessage spawns a reply process continuing priorProcessID's
// conversation (spec §4.D.3).
func (c *Core) SendAgentMessage(ctx context.Context, priorProcessID, message, worktreePath, model string, maxTurns int) (string, error) {
	return c.Runner.SendReply(ctx, priorProcessID, message, worktreePath, model, maxTurns)
}

// GetProcessList returns a task's agent processes ordered oldest-first.
func (c *Core) GetProcessList(taskID string) ([]dto.Process, error) {
	return c.Runner.GetProcessList(taskID)
}

// GetProcessDetails returns one agent process record.
func (c *Core) GetProcessDetails(processID string) (dto.Process, error) {
	return c.Runner.GetProcessDetails(processID)
}

// GetAgentMessages returns one process's normalized message log.
func (c *Core) GetAgentMessages(taskID, processID string) []dto.Message {
	return c.Runner.GetAgentMessages(taskID, processID)
}

// KillAgentProcess signals a live agent process to terminate.
func (c *Core) KillAgentProcess(processID string) error {
	return c.Runner.KillAgent(processID)
}
