package runner

import (
	"fmt"
	"sort"

	"github.com/agent-board/backend/internal/dto"
)

// GetProcessList returns a task's processes ordered by start_time ascending
// (spec §4.D.6).
func (r *Runner) GetProcessList(taskID string) ([]dto.Process, error) {
	var all []dto.Process
	if _, err := r.Store.GetInto(processesFile, "processes", &all); err != nil {
		return nil, err
	}
	out := make([]dto.Process, 0, len(all))
	for _, p := range all {
		if p.TaskID == taskID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// GetProcessDetails returns the full record for a process id, or a
// not-found error.
func (r *Runner) GetProcessDetails(processID string) (dto.Process, error) {
	var all []dto.Process
	if _, err := r.Store.GetInto(processesFile, "processes", &all); err != nil {
		return dto.Process{}, err
	}
	for _, p := range all {
		if p.ID == processID {
			return p, nil
		}
	}
	return dto.Process{}, dto.NotFound("process")
}

// GetAgentMessages returns a process's message log: the in-memory log while
// the process is live, otherwise the per-process store file, otherwise an
// empty slice. It never errors, and an empty in-memory log is never mistaken
// for "no messages" — the hydration rule in spec §4.D.6.
func (r *Runner) GetAgentMessages(taskID, processID string) []dto.Message {
	r.mu.RLock()
	lp, live := r.live[processID]
	r.mu.RUnlock()

	if live {
		lp.mu.RLock()
		msgs := append([]dto.Message(nil), lp.messages...)
		lp.mu.RUnlock()
		if len(msgs) > 0 {
			return msgs
		}
		// Fall through without overwriting: the store may hold a save from
		// just before this read raced the in-memory append.
	}

	var stored []dto.Message
	file := fmt.Sprintf("agent_messages_%s_%s.json", taskID, processID)
	if _, err := r.Store.GetInto(file, "messages", &stored); err != nil {
		return nil
	}
	return stored
}
