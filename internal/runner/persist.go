package runner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agent-board/backend/internal/dto"
)

// appendMessage records one normalized event as a dto.Message. An event
// carrying a non-empty turnKey that matches an already-open message updates
// that message's content in place instead of creating a new one (assistant
// delta coalescing, spec §4.D.4); the update is still broadcast as its own
// agent_message_update event.
func (r *Runner) appendMessage(lp *liveProcess, sender dto.Sender, mtype dto.MessageType, content string, metadata map[string]any, turnKey string) {
	lp.mu.Lock()
	var msg dto.Message
	if turnKey != "" {
		for i := range lp.messages {
			if key, _ := lp.messages[i].Metadata["turn_key"].(string); key == turnKey {
				lp.messages[i].Content = content
				if metadata != nil {
					for k, v := range metadata {
						lp.messages[i].Metadata[k] = v
					}
				}
				msg = lp.messages[i]
				lp.mu.Unlock()
				r.scheduleSave(lp)
				r.Bus.Publish("agent_message_update", messagePayload(msg))
				return
			}
		}
	}

	meta := metadata
	if turnKey != "" {
		if meta == nil {
			meta = make(map[string]any)
		}
		meta["turn_key"] = turnKey
	}
	msg = dto.Message{
		ID:          uuid.NewString(),
		ProcessID:   lp.process.ID,
		TaskID:      lp.process.TaskID,
		Sender:      sender,
		Timestamp:   time.Now().UTC(),
		MessageType: mtype,
		Content:     content,
		Metadata:    meta,
	}
	lp.messages = append(lp.messages, msg)
	lp.mu.Unlock()

	r.scheduleSave(lp)
	r.Bus.Publish("agent_message_update", messagePayload(msg))
}

func messagePayload(m dto.Message) map[string]any {
	return map[string]any{"process_id": m.ProcessID, "task_id": m.TaskID, "message": m}
}

// scheduleSave coalesces store writes for a process to at most one save per
// saveInterval (spec §5). Events are never coalesced — only the persisted
// copy is.
func (r *Runner) scheduleSave(lp *liveProcess) {
	lp.saveMu.Lock()
	defer lp.saveMu.Unlock()
	if lp.saveTimer != nil {
		return // a flush is already scheduled; it will pick up the latest state.
	}
	lp.saveTimer = time.AfterFunc(saveInterval, func() {
		lp.saveMu.Lock()
		lp.saveTimer = nil
		lp.saveMu.Unlock()
		r.flushMessages(lp)
	})
}

// flushMessages durably saves a process's message log, both to its
// authoritative per-process file and to the task-level snapshot used for
// early-load UI hydration (spec §4.A). Concurrent flushes for the same
// process are serialized on lp.flushMu: each caller waits its turn and then
// takes a fresh snapshot under lp.mu before writing, so the termination
// flush and a pending timer flush never overlap and neither ever discards
// the other's (possibly newer) snapshot — unlike singleflight, which
// collapses a concurrent call into the in-flight one's stale result.
func (r *Runner) flushMessages(lp *liveProcess) {
	lp.flushMu.Lock()
	defer lp.flushMu.Unlock()

	lp.mu.RLock()
	taskID := lp.process.TaskID
	processID := lp.process.ID
	snapshot := append([]dto.Message(nil), lp.messages...)
	lp.mu.RUnlock()

	if err := r.writeMessageFiles(taskID, processID, snapshot); err != nil {
		slog.Error("runner: flush messages failed", "process", processID, "err", err)
	}
}

func (r *Runner) writeMessageFiles(taskID, processID string, messages []dto.Message) error {
	perProcessFile := fmt.Sprintf("agent_messages_%s_%s.json", taskID, processID)
	if err := r.Store.Set(perProcessFile, "messages", messages); err != nil {
		return err
	}
	if err := r.Store.Save(perProcessFile); err != nil {
		return fmt.Errorf("runner: save per-process messages: %w", err)
	}

	snapshotFile := fmt.Sprintf("agent_messages_%s.json", taskID)
	if err := r.Store.Set(snapshotFile, "messages", messages); err != nil {
		return err
	}
	if err := r.Store.Save(snapshotFile); err != nil {
		return fmt.Errorf("runner: save task snapshot: %w", err)
	}
	return nil
}

// persistProcess appends or updates proc in the process-wide registry file
// and saves it unconditionally — process status transitions are never
// coalesced (spec §5).
func (r *Runner) persistProcess(proc dto.Process) error {
	var all []dto.Process
	if _, err := r.Store.GetInto(processesFile, "processes", &all); err != nil {
		slog.Warn("runner: existing processes list unreadable, starting fresh", "err", err)
	}
	replaced := false
	for i := range all {
		if all[i].ID == proc.ID {
			all[i] = proc
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, proc)
	}
	if err := r.Store.Set(processesFile, "processes", all); err != nil {
		return err
	}
	return r.Store.Save(processesFile)
}
