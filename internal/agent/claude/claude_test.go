package claude

import (
	"testing"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

func TestParseLineSystemInit(t *testing.T) {
	line := []byte(`{"type":"system","subtype":"init","session_id":"s1","model":"claude-opus-4","cwd":"/repo"}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].MessageType != dto.MessageSystemInit {
		t.Errorf("type = %v, want SystemInit", events[0].MessageType)
	}
	if events[0].Metadata["session_id"] != "s1" {
		t.Errorf("session_id = %v, want s1", events[0].Metadata["session_id"])
	}
}

func TestParseLineAssistantText(t *testing.T) {
	line := []byte(`{"type":"assistant","message":{"id":"turn1","content":[{"type":"text","text":"hello there"}]}}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Content != "hello there" {
		t.Errorf("content = %q", events[0].Content)
	}
	if events[0].TurnKey != "turn1" {
		t.Errorf("turnKey = %q, want turn1", events[0].TurnKey)
	}
}

func TestParseLineToolUseBash(t *testing.T) {
	line := []byte(`{"type":"assistant","message":{"id":"turn2","content":[{"type":"tool_use","id":"tu1","name":"Bash","input":{"command":"ls -la"}}]}}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageToolRun {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Content != "ls -la" {
		t.Errorf("content = %q", events[0].Content)
	}
}

func TestParseLineResult(t *testing.T) {
	line := []byte(`{"type":"result","subtype":"result","result":"done","num_turns":3,"total_cost_usd":0.05}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].MessageType != dto.MessageResult {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Metadata["num_turns"] != 3 {
		t.Errorf("num_turns = %v", events[0].Metadata["num_turns"])
	}
}

func TestParseLineUnknownFallsThroughToSystemText(t *testing.T) {
	line := []byte(`{"type":"queue_operation","op":"enqueue"}`)
	events, err := Profile{}.ParseLine(line, agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Sender != dto.SenderSystem {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseLineEmptyIgnored(t *testing.T) {
	events, err := Profile{}.ParseLine([]byte("   "), agent.NewParseState())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
