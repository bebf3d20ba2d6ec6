// Package agent defines the Profile abstraction bridging the uniform
// conversation model onto heterogeneous agent CLIs, plus the parsed-event
// type each profile's line parser produces. Concrete profiles live in the
// claude and codex subpackages.
package agent

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/agent-board/backend/internal/dto"
)

// ParsedEvent is what a profile's line parser emits for one line of raw
// output. The Runner assigns it an id and timestamp and turns it into a
// dto.Message.
type ParsedEvent struct {
	Sender      dto.Sender
	MessageType dto.MessageType
	Content     string
	Metadata    map[string]any

	// TurnKey, when non-empty, identifies an in-progress assistant turn:
	// subsequent events with the same TurnKey update the same message
	// instead of creating a new one (spec §4.D.4, delta coalescing).
	TurnKey string
}

// ParseState carries per-process accumulation state across calls to
// ParseLine: the pending file edits awaiting their tool_result, keyed by
// tool-use id, for ToolEdit diff synthesis. Assistant-turn coalescing is
// done by the Runner from TurnKey, not here. Each Runner process owns
// exactly one ParseState.
type ParseState struct {
	// PendingEdits holds the "before" content of a file a ToolEdit tool call
	// is about to modify, keyed by tool-use id, so the unified diff can be
	// synthesized once the "after" content is known.
	PendingEdits map[string]PendingEdit
}

// PendingEdit is the before-state of an in-flight file edit tool call.
type PendingEdit struct {
	FilePath string
	Before   string
}

// NewParseState returns an empty ParseState.
func NewParseState() *ParseState {
	return &ParseState{PendingEdits: make(map[string]PendingEdit)}
}

// Profile is a recipe for launching and parsing one agent CLI dialect.
type Profile interface {
	// Harness identifies this profile ("Claude", "Codex").
	Harness() dto.Harness

	// ResolveCommand probes the profile's command candidates in order and
	// returns the first one found on PATH (or a known install location)
	// along with any fixed prefix argv that candidate requires (e.g. codex
	// resolving to "npx" needs a "@openai/codex" prefix ahead of "exec").
	// Probing never blocks longer than a single lookup attempt.
	ResolveCommand(ctx context.Context) (cmd string, prefixArgs []string, err error)

	// InitialArgs returns the argv (excluding the resolved command itself)
	// for a fresh conversation.
	InitialArgs(model string, maxTurns int) []string

	// ReplyArgs returns the argv for continuing a conversation, given the
	// flattened prior transcript.
	ReplyArgs(model string, maxTurns int, transcript string) []string

	// ParseLine decodes one line of the child's stdout into zero or more
	// normalized events, updating state for any multi-line accumulation
	// (assistant deltas, tool-call pairing).
	ParseLine(line []byte, state *ParseState) ([]ParsedEvent, error)
}

// LookPath resolves the first candidate found on PATH. Shared by profile
// implementations so the "first successful candidate wins" rule (spec
// §4.D.1) is applied identically everywhere.
func LookPath(candidates ...string) (string, error) {
	for _, c := range candidates {
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("agent: no candidate resolved on PATH: %v", candidates)
}
