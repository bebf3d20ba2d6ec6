package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

// SendReply continues a conversation by reconstructing the full transcript
// of priorProcessID and its parent chain, then spawning a new child of the
// same profile (spec §4.D.3). The new process id is returned synchronously;
// all further updates arrive over the event bus and the store.
func (r *Runner) SendReply(ctx context.Context, priorProcessID, message, worktreePath string, model string, maxTurns int) (string, error) {
	prior, err := r.GetProcessDetails(priorProcessID)
	if err != nil {
		return "", err
	}
	if err := r.refuseIfAlreadyLive(prior.TaskID); err != nil {
		return "", err
	}

	transcript, err := r.buildTranscript(priorProcessID)
	if err != nil {
		return "", fmt.Errorf("send reply: build transcript: %w", err)
	}

	proc := dto.Process{
		ID:              uuid.NewString(),
		TaskID:          prior.TaskID,
		Profile:         prior.Profile,
		Kind:            dto.KindReply,
		ParentProcessID: priorProcessID,
		StartTime:       time.Now().UTC(),
		Status:          dto.ProcessStarting,
		WorktreePath:    worktreePath,
	}
	lp := &liveProcess{process: proc, parseState: agent.NewParseState()}

	r.mu.Lock()
	r.live[proc.ID] = lp
	r.byTask[prior.TaskID] = proc.ID
	r.mu.Unlock()

	if err := r.persistProcess(proc); err != nil {
		slog.Error("runner: persist starting reply process", "err", err)
	}
	r.Bus.Publish("agent_process_status", statusPayload(proc))

	r.appendMessage(lp, dto.SenderUser, dto.MessageText, message, nil, "")

	profile, err := agent.Resolve(proc.Profile)
	if err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	cmdPath, prefixArgs, err := profile.ResolveCommand(ctx)
	if err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	fullTranscript := transcript + "\n\n" + message
	args := append(append([]string(nil), prefixArgs...), profile.ReplyArgs(model, maxTurns, fullTranscript)...)

	detached := context.WithoutCancel(ctx)
	cmd := execCommand(detached, cmdPath, args, worktreePath)
	if err := r.spawn(lp, cmd); err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	r.markRunning(lp)
	return proc.ID, nil
}

// buildTranscript loads priorProcessID's messages and, recursively, those
// of its parent chain, into a single flattened transcript oldest-first. The
// chain is a linear list, never a tree (spec §9).
func (r *Runner) buildTranscript(processID string) (string, error) {
	var chain []dto.Process
	id := processID
	for id != "" {
		proc, err := r.GetProcessDetails(id)
		if err != nil {
			return "", err
		}
		chain = append(chain, proc)
		id = proc.ParentProcessID
	}
	// chain is newest-first; reverse to oldest-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var sb strings.Builder
	for _, proc := range chain {
		for _, m := range r.GetAgentMessages(proc.TaskID, proc.ID) {
			fmt.Fprintf(&sb, "[%s] %s\n", m.Sender, m.Content)
		}
	}
	return sb.String(), nil
}
