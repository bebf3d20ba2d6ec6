// Package runner implements the Agent Runner: spawning and supervising
// agent CLI child processes, parsing their streaming output into the
// normalized message model, and persisting/broadcasting the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/store"
)

const (
	processesFile = "agent_processes.json"
	saveInterval  = 100 * time.Millisecond
)

// Runner owns OS process handles and their standard output readers — the
// exclusive owner named in spec §3's ownership rules.
type Runner struct {
	Store *store.Store
	Bus   *eventbus.Bus

	mu     sync.RWMutex
	live   map[string]*liveProcess // processID -> live process
	byTask map[string]string       // taskID -> processID of its current live (Starting/Running) process
}

// New returns a Runner backed by st and bus.
func New(st *store.Store, bus *eventbus.Bus) *Runner {
	return &Runner{
		Store:  st,
		Bus:    bus,
		live:   make(map[string]*liveProcess),
		byTask: make(map[string]string),
	}
}

// liveProcess is the in-memory state of one spawned agent process.
type liveProcess struct {
	mu       sync.RWMutex
	process  dto.Process
	messages []dto.Message

	cmd        *exec.Cmd
	killed     bool
	parseState *agent.ParseState

	saveMu    sync.Mutex
	saveTimer *time.Timer

	// flushMu serializes writes of this process's message files so the
	// termination flush and a pending debounce-timer flush never race —
	// each flush call waits its turn and then saves the latest in-memory
	// snapshot, instead of being collapsed away by singleflight (which
	// could drop the newest snapshot entirely).
	flushMu sync.Mutex
}

// StartAgent spawns the initial process for a task (spec §4.D.2). It always
// returns the new process id, even when the spawn itself fails, so the
// caller can inspect the failed record.
func (r *Runner) StartAgent(ctx context.Context, task dto.Task, profileName dto.Harness, model string, maxTurns int) (string, error) {
	if err := r.refuseIfAlreadyLive(task.ID); err != nil {
		return "", err
	}

	proc := dto.Process{
		ID:           uuid.NewString(),
		TaskID:       task.ID,
		Profile:      profileName,
		Kind:         dto.KindInitial,
		StartTime:    time.Now().UTC(),
		Status:       dto.ProcessStarting,
		WorktreePath: task.WorktreePath,
	}
	lp := &liveProcess{process: proc, parseState: agent.NewParseState()}

	r.mu.Lock()
	r.live[proc.ID] = lp
	r.byTask[task.ID] = proc.ID
	r.mu.Unlock()

	if err := r.persistProcess(proc); err != nil {
		slog.Error("runner: persist starting process failed", "err", err)
	}
	r.Bus.Publish("agent_process_status", statusPayload(proc))

	prompt := task.Title + "\n\n" + task.Description
	r.appendMessage(lp, dto.SenderUser, dto.MessageText, prompt, nil, "")

	profile, err := agent.Resolve(profileName)
	if err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	cmdPath, prefixArgs, err := profile.ResolveCommand(ctx)
	if err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	args := append(append([]string(nil), prefixArgs...), profile.InitialArgs(model, maxTurns)...)

	detached := context.WithoutCancel(ctx)
	cmd := exec.CommandContext(detached, cmdPath, args...) //nolint:gosec // cmdPath/args are resolved from a fixed profile candidate list, not user input.
	cmd.Dir = task.WorktreePath
	cmd.Stdin = nil

	if err := r.spawn(lp, cmd); err != nil {
		return proc.ID, r.failStart(lp, err)
	}
	r.markRunning(lp)
	return proc.ID, nil
}

// refuseIfAlreadyLive enforces "at most one process per task is Starting or
// Running at any moment" (spec §3, invariant 2 of §8).
func (r *Runner) refuseIfAlreadyLive(taskID string) error {
	r.mu.RLock()
	pid, ok := r.byTask[taskID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	r.mu.RLock()
	lp, ok := r.live[pid]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	lp.mu.RLock()
	status := lp.process.Status
	lp.mu.RUnlock()
	if !status.Terminal() {
		return fmt.Errorf("%w: task already has a live agent process", errConflict)
	}
	return nil
}

var errConflict = errors.New("runner")

func (r *Runner) failStart(lp *liveProcess, err error) error {
	lp.mu.Lock()
	lp.process.Status = dto.ProcessFailed
	now := time.Now().UTC()
	lp.process.EndTime = &now
	lp.process.ExitInfo = err.Error()
	proc := lp.process
	lp.mu.Unlock()

	r.flushMessages(lp)
	if perr := r.persistProcess(proc); perr != nil {
		slog.Error("runner: persist failed-start process", "err", perr)
	}
	r.Bus.Publish("agent_process_status", statusPayload(proc))
	return fmt.Errorf("start agent: %w", err)
}

// spawn starts cmd, wiring its stdout to a line reader goroutine and its
// stderr to the log (spec: stderr is never parsed semantically, only
// logged).
func (r *Runner) spawn(lp *liveProcess, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = newLineLogger(lp.process.ID)

	if err := cmd.Start(); err != nil {
		return err
	}
	lp.mu.Lock()
	lp.cmd = cmd
	lp.mu.Unlock()

	profile, _ := agent.Resolve(lp.process.Profile)
	stdoutDone := make(chan struct{})
	go func() {
		defer close(stdoutDone)
		r.readLoop(lp, stdout, profile)
	}()
	go r.waitLoop(lp, cmd, stdoutDone)
	return nil
}

func (r *Runner) markRunning(lp *liveProcess) {
	lp.mu.Lock()
	lp.process.Status = dto.ProcessRunning
	proc := lp.process
	lp.mu.Unlock()
	if err := r.persistProcess(proc); err != nil {
		slog.Error("runner: persist running process", "err", err)
	}
	r.Bus.Publish("agent_process_status", statusPayload(proc))
}

// KillAgent signals the child and marks the expected terminal status as
// Killed. Idempotent if the process is already terminal.
func (r *Runner) KillAgent(processID string) error {
	r.mu.RLock()
	lp, ok := r.live[processID]
	r.mu.RUnlock()
	if !ok {
		return dto.NotFound("process")
	}

	lp.mu.Lock()
	if lp.process.Status.Terminal() {
		lp.mu.Unlock()
		return nil
	}
	lp.killed = true
	cmd := lp.cmd
	lp.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			slog.Warn("runner: kill signal failed", "process", processID, "err", err)
		}
	}
	return nil
}

func statusPayload(p dto.Process) map[string]any {
	return map[string]any{"task_id": p.TaskID, "process_id": p.ID, "status": p.Status}
}
