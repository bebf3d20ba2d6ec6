package codex

import (
	"testing"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

func TestParseLineThreadStarted(t *testing.T) {
	line := []byte(`{"type":"thread_started","thread_id":"t1","cwd":"/repo"}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageSystemInit {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineAgentMessage(t *testing.T) {
	line := []byte(`{"type":"item.agent_message","item_id":"i1","text":"on it"}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Content != "on it" || events[0].TurnKey != "i1" {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineCommandExecution(t *testing.T) {
	line := []byte(`{"type":"item.command_execution","item_id":"i2","command":"go test ./..."}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageToolRun {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineUnknownJSONFallsThrough(t *testing.T) {
	line := []byte(`{"type":"something_new","foo":"bar"}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Sender != dto.SenderSystem {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineHeuristicShellPrefix(t *testing.T) {
	events, err := Profile{}.ParseLine([]byte("$ go build ./..."), agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageToolRun {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineHeuristicNarration(t *testing.T) {
	events, err := Profile{}.ParseLine([]byte("Let me check the test output."), agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageText || events[0].Sender != dto.SenderAssistant {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineEmptyIgnored(t *testing.T) {
	events, err := Profile{}.ParseLine([]byte("  "), agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
