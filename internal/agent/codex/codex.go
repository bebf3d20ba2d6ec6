// Package codex implements the Codex CLI's mixed output dialect: each line
// is either a best-effort JSON object or free text, per spec §4.D.1/§4.D.4.
// Unlike the Claude dialect this one is explicitly under-specified, so the
// parser is heuristic and isolated behind this package boundary (spec §9
// Open Questions) so a future structured dialect can replace it without
// touching the Runner.
package codex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

func init() {
	agent.Register(Profile{})
}

// Profile implements agent.Profile for the Codex CLI.
type Profile struct{}

func (Profile) Harness() dto.Harness { return dto.HarnessCodex }

// ResolveCommand tries codex.cmd, then `npx @openai/codex`, then bare codex
// (spec §4.D.1's exact candidate order).
func (Profile) ResolveCommand(_ context.Context) (string, []string, error) {
	if cmd, err := agent.LookPath("codex.cmd"); err == nil {
		return cmd, nil, nil
	}
	if npx, err := agent.LookPath("npx"); err == nil {
		return npx, []string{"@openai/codex"}, nil
	}
	cmd, err := agent.LookPath("codex")
	return cmd, nil, err
}

// InitialArgs invokes codex in "exec" style for a fresh conversation.
func (Profile) InitialArgs(model string, _ int) []string {
	args := []string{"exec", "--json"}
	if model != "" {
		args = append(args, "--model", model)
	}
	return args
}

// ReplyArgs continues a conversation by passing the flattened transcript on
// argv, per spec §4.D.3's replay convention for Codex.
func (p Profile) ReplyArgs(model string, maxTurns int, transcript string) []string {
	return append(p.InitialArgs(model, maxTurns), transcript)
}

// ParseLine decodes one line of Codex output. JSON object lines with a
// recognized "type" dispatch to a normalized event; JSON object lines with an
// unrecognized or missing "type" fall through to a raw System/Text record;
// other lines use a prefix heuristic to distinguish shell output from
// free-text narration.
func (Profile) ParseLine(line []byte, state *agent.ParseState) ([]agent.ParsedEvent, error) {
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return nil, nil
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err == nil {
		return parseJSONLine(trimmed, probe.Type, state)
	}

	return []agent.ParsedEvent{heuristicEvent(trimmed)}, nil
}

func parseJSONLine(line, typ string, state *agent.ParseState) ([]agent.ParsedEvent, error) {
	switch typ {
	case TypeThreadStarted:
		var r ThreadStartedRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("codex: thread_started: %w", err)
		}
		return []agent.ParsedEvent{{
			Sender: dto.SenderSystem, MessageType: dto.MessageSystemInit,
			Content:  fmt.Sprintf("thread %s started", r.ThreadID),
			Metadata: map[string]any{"thread_id": r.ThreadID, "cwd": r.CWD},
		}}, nil

	case TypeTurnCompleted:
		var r TurnCompletedRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("codex: turn_completed: %w", err)
		}
		return []agent.ParsedEvent{{
			Sender: dto.SenderAssistant, MessageType: dto.MessageResult,
			Content: r.Status,
			Metadata: map[string]any{
				"status":        r.Status,
				"input_tokens":  r.Usage.InputTokens,
				"output_tokens": r.Usage.OutputTokens,
			},
		}}, nil

	case TypeItemAgentMessage:
		var r ItemTextRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("codex: agent_message: %w", err)
		}
		return []agent.ParsedEvent{{
			Sender: dto.SenderAssistant, MessageType: dto.MessageText,
			Content: r.Text, TurnKey: r.ItemID,
		}}, nil

	case TypeItemCommandExecution:
		var r ItemCommandRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("codex: command_execution: %w", err)
		}
		return []agent.ParsedEvent{{
			Sender: dto.SenderTool, MessageType: dto.MessageToolRun,
			Content:  r.Command,
			Metadata: map[string]any{"command": r.Command, "output": r.AggregatedOutput},
		}}, nil

	case TypeItemFileChange:
		var r ItemFileChangeRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("codex: file_change: %w", err)
		}
		return []agent.ParsedEvent{{
			Sender: dto.SenderTool, MessageType: dto.MessageToolEdit,
			Content:  r.FilePath,
			Metadata: map[string]any{"file_path": r.FilePath, "diff_unified": r.Diff},
		}}, nil

	default:
		return []agent.ParsedEvent{{Sender: dto.SenderSystem, MessageType: dto.MessageText, Content: line}}, nil
	}
}

// heuristicEvent classifies a non-JSON line: a `$ ` prefix or a
// `word/path:`-shaped prefix reads as shell/tool output; everything else is
// narration (spec §4.D.4).
func heuristicEvent(line string) agent.ParsedEvent {
	if strings.HasPrefix(line, "$ ") || looksLikePathPrefix(line) {
		return agent.ParsedEvent{Sender: dto.SenderTool, MessageType: dto.MessageToolRun, Content: line}
	}
	return agent.ParsedEvent{Sender: dto.SenderAssistant, MessageType: dto.MessageText, Content: line}
}

func looksLikePathPrefix(line string) bool {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return false
	}
	prefix := line[:colon]
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '/', r == '-':
		default:
			return false
		}
	}
	return true
}
