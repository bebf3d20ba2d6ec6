package runner

import (
	"testing"

	"github.com/agent-board/backend/internal/dto"
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/store"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return New(store.New(t.TempDir()), eventbus.New())
}

func TestPersistProcessAppendsThenUpdates(t *testing.T) {
	r := newTestRunner(t)
	proc := dto.Process{ID: "p1", TaskID: "t1", Status: dto.ProcessStarting}
	if err := r.persistProcess(proc); err != nil {
		t.Fatal(err)
	}
	proc.Status = dto.ProcessRunning
	if err := r.persistProcess(proc); err != nil {
		t.Fatal(err)
	}

	all, err := r.GetProcessList("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d processes, want 1 (update, not append)", len(all))
	}
	if all[0].Status != dto.ProcessRunning {
		t.Errorf("status = %v, want Running", all[0].Status)
	}
}

func TestGetProcessDetailsNotFound(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.GetProcessDetails("missing")
	if err == nil {
		t.Error("expected not-found error")
	}
}

func TestAppendMessageCoalescesByTurnKey(t *testing.T) {
	r := newTestRunner(t)
	lp := &liveProcess{process: dto.Process{ID: "p1", TaskID: "t1"}}

	r.appendMessage(lp, dto.SenderAssistant, dto.MessageText, "hel", nil, "turn-a")
	r.appendMessage(lp, dto.SenderAssistant, dto.MessageText, "hello", nil, "turn-a")

	lp.mu.RLock()
	defer lp.mu.RUnlock()
	if len(lp.messages) != 1 {
		t.Fatalf("got %d messages, want 1 (coalesced)", len(lp.messages))
	}
	if lp.messages[0].Content != "hello" {
		t.Errorf("content = %q, want %q", lp.messages[0].Content, "hello")
	}
}

func TestAppendMessageWithoutTurnKeyNeverCoalesces(t *testing.T) {
	r := newTestRunner(t)
	lp := &liveProcess{process: dto.Process{ID: "p1", TaskID: "t1"}}

	r.appendMessage(lp, dto.SenderUser, dto.MessageText, "first", nil, "")
	r.appendMessage(lp, dto.SenderUser, dto.MessageText, "second", nil, "")

	lp.mu.RLock()
	defer lp.mu.RUnlock()
	if len(lp.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(lp.messages))
	}
}

func TestGetAgentMessagesFallsBackToStoreWhenNotLive(t *testing.T) {
	r := newTestRunner(t)
	want := []dto.Message{{ID: "m1", ProcessID: "p1", TaskID: "t1", Content: "hi"}}
	if err := r.writeMessageFiles("t1", "p1", want); err != nil {
		t.Fatal(err)
	}

	got := r.GetAgentMessages("t1", "p1")
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("got %+v, want one message m1", got)
	}
}

func TestGetAgentMessagesUnknownProcessIsEmptyNotError(t *testing.T) {
	r := newTestRunner(t)
	got := r.GetAgentMessages("t1", "missing")
	if len(got) != 0 {
		t.Errorf("got %d messages, want 0", len(got))
	}
}

func TestKillAgentUnknownProcessNotFound(t *testing.T) {
	r := newTestRunner(t)
	if err := r.KillAgent("missing"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestKillAgentIdempotentOnTerminalProcess(t *testing.T) {
	r := newTestRunner(t)
	lp := &liveProcess{process: dto.Process{ID: "p1", Status: dto.ProcessCompleted}}
	r.mu.Lock()
	r.live["p1"] = lp
	r.mu.Unlock()

	if err := r.KillAgent("p1"); err != nil {
		t.Errorf("killing a terminal process should be a no-op success: %v", err)
	}
}
