// Package claude implements the Claude Code NDJSON output dialect: each
// line is a JSON object with a "type" discriminator. Unknown fields are
// preserved and logged rather than dropped, so a newer CLI version never
// silently loses data — the same forward-compatibility idiom Claude Code's
// own session logs use.
package claude

import (
	"encoding/json"
	"log/slog"
	"sort"
)

// Record is the raw envelope of one NDJSON line, probed just enough to
// dispatch to a concrete shape.
type Record struct {
	Type    string          `json:"type"`
	Subtype string          `json:"subtype,omitempty"`
	raw     json.RawMessage `json:"-"`
}

// UnmarshalJSON captures the full line alongside the probed fields so
// AsXxx can re-decode into a concrete shape on demand.
func (r *Record) UnmarshalJSON(data []byte) error {
	type probe struct {
		Type    string `json:"type"`
		Subtype string `json:"subtype,omitempty"`
	}
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.Type = p.Type
	r.Subtype = p.Subtype
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// contentBlock is one entry of an assistant message's content array.
type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result fields, present on "user" role content blocks.
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// SystemInitRecord is the "system"/"init" record announcing session start.
type SystemInitRecord struct {
	Overflow
	SessionID string   `json:"session_id"`
	Model     string   `json:"model"`
	CWD       string   `json:"cwd"`
	Tools     []string `json:"tools,omitempty"`
}

func (r *Record) AsSystemInit() (*SystemInitRecord, error) {
	var rec SystemInitRecord
	extra, err := unmarshalKnown(r.raw, &rec, "type", "subtype", "session_id", "model", "cwd", "tools")
	if err != nil {
		return nil, err
	}
	rec.Extra = extra
	warnUnknown("system.init", extra)
	return &rec, nil
}

// AssistantRecord wraps one assistant message's content blocks.
type AssistantRecord struct {
	Overflow
	Message struct {
		ID      string         `json:"id"`
		Content []contentBlock `json:"content"`
	} `json:"message"`
}

func (r *Record) AsAssistant() (*AssistantRecord, error) {
	var rec AssistantRecord
	extra, err := unmarshalKnown(r.raw, &rec, "type", "message")
	if err != nil {
		return nil, err
	}
	rec.Extra = extra
	warnUnknown("assistant", extra)
	return &rec, nil
}

// UserRecord wraps a user-role line, either genuine user input or a
// tool_result answering a prior tool_use.
type UserRecord struct {
	Overflow
	Message struct {
		Content []contentBlock `json:"content"`
	} `json:"message"`
}

func (r *Record) AsUser() (*UserRecord, error) {
	var rec UserRecord
	extra, err := unmarshalKnown(r.raw, &rec, "type", "message")
	if err != nil {
		return nil, err
	}
	rec.Extra = extra
	warnUnknown("user", extra)
	return &rec, nil
}

// ResultRecord is the final "result" record with cost/usage/turn totals.
type ResultRecord struct {
	Overflow
	Subtype      string  `json:"subtype"`
	IsError      bool    `json:"is_error"`
	Result       string  `json:"result"`
	NumTurns     int     `json:"num_turns"`
	DurationMs   int64   `json:"duration_ms"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	Usage        struct {
		InputTokens              int `json:"input_tokens"`
		OutputTokens             int `json:"output_tokens"`
		CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	} `json:"usage"`
}

func (r *Record) AsResult() (*ResultRecord, error) {
	var rec ResultRecord
	extra, err := unmarshalKnown(r.raw, &rec, "type", "subtype", "is_error", "result", "num_turns", "duration_ms", "total_cost_usd", "usage")
	if err != nil {
		return nil, err
	}
	rec.Extra = extra
	warnUnknown("result", extra)
	return &rec, nil
}

// unmarshalKnown decodes raw into out, then returns any top-level JSON
// fields not in known — the collectUnknown/Overflow idiom.
func unmarshalKnown(raw json.RawMessage, out any, known ...string) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	return collectUnknown(all, makeSet(known...)), nil
}

// makeSet builds a map[string]struct{} from keys for O(1) lookup.
func makeSet(keys ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// collectUnknown returns entries from raw whose keys are not in known.
func collectUnknown(raw map[string]json.RawMessage, known map[string]struct{}) map[string]json.RawMessage {
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := known[k]; !ok {
			if extra == nil {
				extra = make(map[string]json.RawMessage)
			}
			extra[k] = v
		}
	}
	return extra
}

// Overflow holds JSON fields not mapped to a struct field, embedded in every
// record type for forward compatibility with newer CLI versions.
type Overflow struct {
	Extra map[string]json.RawMessage `json:"-"`
}

// warnUnknown logs a warning for each key in extra, identified by context.
func warnUnknown(context string, extra map[string]json.RawMessage) {
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slog.Warn("unknown fields in Claude Code record", "context", context, "fields", keys)
}
