package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

// candidates are probed in order; the first one found on PATH wins (spec
// §4.D.1).
var candidates = []string{"claude", "claude.exe", "claude.cmd"}

// readToolNames are tool_use names that surface as Tool/ToolRead.
var readToolNames = map[string]bool{"Read": true, "View": true, "Glob": true, "Grep": true}

// editToolNames are tool_use names that surface as Tool/ToolEdit.
var editToolNames = map[string]bool{"Edit": true, "Write": true, "MultiEdit": true}

// runToolNames are tool_use names that surface as Tool/ToolRun.
var runToolNames = map[string]bool{"Bash": true, "BashOutput": true}

func init() {
	agent.Register(Profile{})
}

// Profile implements agent.Profile for the Claude Code CLI.
type Profile struct{}

func (Profile) Harness() dto.Harness { return dto.HarnessClaude }

func (Profile) ResolveCommand(_ context.Context) (string, []string, error) {
	cmd, err := agent.LookPath(candidates...)
	return cmd, nil, err
}

// InitialArgs requests newline-delimited JSON streaming and permits file
// edits without an interactive confirmation prompt.
func (Profile) InitialArgs(model string, maxTurns int) []string {
	args := []string{"--output-format", "stream-json", "--verbose", "--permission-mode", "acceptEdits"}
	if model != "" {
		args = append(args, "--model", model)
	}
	if maxTurns > 0 {
		args = append(args, "--max-turns", fmt.Sprint(maxTurns))
	}
	return args
}

// ReplyArgs resumes a conversation by dumping the flattened transcript via
// --resume, per spec §4.D.3's replay convention for Claude.
func (p Profile) ReplyArgs(model string, maxTurns int, transcript string) []string {
	args := p.InitialArgs(model, maxTurns)
	return append(args, "--resume", transcript)
}

// ParseLine decodes one NDJSON line into normalized events.
func (Profile) ParseLine(line []byte, state *agent.ParseState) ([]agent.ParsedEvent, error) {
	line = []byte(strings.TrimSpace(string(line)))
	if len(line) == 0 {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("claude: unmarshal line: %w", err)
	}

	switch rec.Type {
	case "system":
		if rec.Subtype == "init" {
			init, err := rec.AsSystemInit()
			if err != nil {
				return nil, err
			}
			return []agent.ParsedEvent{{
				Sender:      dto.SenderSystem,
				MessageType: dto.MessageSystemInit,
				Content:     fmt.Sprintf("session %s started (model %s)", init.SessionID, init.Model),
				Metadata: map[string]any{
					"model": init.Model, "session_id": init.SessionID, "cwd": init.CWD, "tools": init.Tools,
				},
			}}, nil
		}
		return []agent.ParsedEvent{{Sender: dto.SenderSystem, MessageType: dto.MessageText, Content: rec.Subtype}}, nil

	case "assistant":
		return parseAssistant(&rec, state)

	case "user":
		return parseUser(&rec, state)

	case "result":
		res, err := rec.AsResult()
		if err != nil {
			return nil, err
		}
		return []agent.ParsedEvent{{
			Sender:      dto.SenderAssistant,
			MessageType: dto.MessageResult,
			Content:     res.Result,
			Metadata: map[string]any{
				"cost_usd":      res.TotalCostUSD,
				"duration_ms":   res.DurationMs,
				"num_turns":     res.NumTurns,
				"is_error":      res.IsError,
				"input_tokens":  res.Usage.InputTokens,
				"output_tokens": res.Usage.OutputTokens,
			},
		}}, nil

	default:
		return []agent.ParsedEvent{{Sender: dto.SenderSystem, MessageType: dto.MessageText, Content: string(line)}}, nil
	}
}

func parseAssistant(rec *Record, state *agent.ParseState) ([]agent.ParsedEvent, error) {
	a, err := rec.AsAssistant()
	if err != nil {
		return nil, err
	}
	var events []agent.ParsedEvent
	for _, block := range a.Message.Content {
		switch block.Type {
		case "text":
			events = append(events, agent.ParsedEvent{
				Sender: dto.SenderAssistant, MessageType: dto.MessageText,
				Content: block.Text, TurnKey: a.Message.ID,
			})
		case "tool_use":
			events = append(events, toolUseEvent(block, state))
		}
	}
	return events, nil
}

func toolUseEvent(block contentBlock, state *agent.ParseState) agent.ParsedEvent {
	switch {
	case readToolNames[block.Name]:
		return agent.ParsedEvent{
			Sender: dto.SenderTool, MessageType: dto.MessageToolRead,
			Content:  block.Name,
			Metadata: map[string]any{"tool_name": block.Name, "input": rawToAny(block.Input)},
		}
	case editToolNames[block.Name]:
		filePath, before := editTargetFromInput(block.Input)
		if before != "" {
			state.PendingEdits[block.ID] = agent.PendingEdit{FilePath: filePath, Before: before}
		}
		return agent.ParsedEvent{
			Sender: dto.SenderTool, MessageType: dto.MessageToolEdit,
			Content:  filePath,
			Metadata: map[string]any{"file_path": filePath, "tool_use_id": block.ID},
		}
	case runToolNames[block.Name]:
		var input struct {
			Command string `json:"command"`
		}
		_ = json.Unmarshal(block.Input, &input)
		return agent.ParsedEvent{
			Sender: dto.SenderTool, MessageType: dto.MessageToolRun,
			Content:  input.Command,
			Metadata: map[string]any{"command": input.Command},
		}
	default:
		return agent.ParsedEvent{
			Sender: dto.SenderTool, MessageType: dto.MessageToolRun,
			Content:  block.Name,
			Metadata: map[string]any{"tool_name": block.Name, "input": rawToAny(block.Input)},
		}
	}
}

// editTargetFromInput extracts the file path and "before" content (when the
// tool call's input carries one, e.g. an Edit's old_string context) from a
// tool_use input payload. Write has no meaningful "before".
func editTargetFromInput(input json.RawMessage) (filePath, before string) {
	var in struct {
		FilePath  string `json:"file_path"`
		OldString string `json:"old_string"`
		Content   string `json:"content"`
	}
	_ = json.Unmarshal(input, &in)
	return in.FilePath, in.OldString
}

func parseUser(rec *Record, state *agent.ParseState) ([]agent.ParsedEvent, error) {
	u, err := rec.AsUser()
	if err != nil {
		return nil, err
	}
	var events []agent.ParsedEvent
	for _, block := range u.Message.Content {
		if block.Type != "tool_result" {
			continue
		}
		pending, ok := state.PendingEdits[block.ToolUseID]
		if !ok {
			continue
		}
		delete(state.PendingEdits, block.ToolUseID)
		after := resultText(block.Content)
		diff, added, removed := unifiedDiff(pending.FilePath, pending.Before, after)
		events = append(events, agent.ParsedEvent{
			Sender: dto.SenderTool, MessageType: dto.MessageToolEdit,
			Content: pending.FilePath,
			Metadata: map[string]any{
				"file_path":    pending.FilePath,
				"diff_unified": diff,
				"diff_stat":    dto.DiffStat{FilePath: pending.FilePath, Added: added, Removed: removed},
			},
		})
	}
	return events, nil
}

func resultText(content json.RawMessage) string {
	var s string
	if json.Unmarshal(content, &s) == nil {
		return s
	}
	var blocks []contentBlock
	if json.Unmarshal(content, &blocks) == nil {
		var sb strings.Builder
		for _, b := range blocks {
			sb.WriteString(b.Text)
		}
		return sb.String()
	}
	return string(content)
}

// unifiedDiff synthesizes a unified diff between before and after using
// diffmatchpatch, and counts added/removed lines from the line-level diff.
func unifiedDiff(filePath, before, after string) (diff string, added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", filePath, filePath)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+" + line)
				added++
			case diffmatchpatch.DiffDelete:
				sb.WriteString("-" + line)
				removed++
			default:
				sb.WriteString(" " + line)
			}
		}
	}
	return sb.String(), added, removed
}

func rawToAny(raw json.RawMessage) any {
	var v any
	_ = json.Unmarshal(raw, &v)
	return v
}
