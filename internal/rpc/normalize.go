package rpc

import (
	"encoding/json"
	"strings"
	"unicode"
)

// normalizeArgs rewrites every object key in raw to snake_case so that
// camelCase or PascalCase callers (a browser client, a differently-cased
// scripting client) land on the same argument struct fields as a snake_case
// caller. Non-object top-level values pass through unchanged.
func normalizeArgs(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw // leave decoding to the caller, which will report the real error.
	}
	normalized := normalizeValue(v)
	out, err := json.Marshal(normalized)
	if err != nil {
		return raw
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[toSnakeCase(k)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}

// toSnakeCase converts camelCase, PascalCase, or already-snake_case keys to
// snake_case. kebab-case and space-separated keys are normalized too, since
// any of those could plausibly arrive from a loosely-typed client.
func toSnakeCase(s string) string {
	var sb strings.Builder
	prevLower := false
	for i, r := range s {
		switch {
		case r == '-' || r == ' ':
			sb.WriteByte('_')
			prevLower = false
			continue
		case unicode.IsUpper(r):
			if i > 0 && (prevLower || (i+1 < len(s) && unicode.IsLower(rune(s[i+1])))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			sb.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Trim(sb.String(), "_")
}
