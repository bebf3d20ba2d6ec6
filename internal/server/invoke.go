package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/agent-board/backend/internal/dto"
)

// invokeRequest is the body of POST /api/invoke.
type invokeRequest struct {
	Cmd        string          `json:"cmd"`
	Args       json.RawMessage `json:"args"`
	ArgsString string          `json:"args_string,omitempty"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, nil, dto.BadRequest("failed to read request body"))
		return
	}

	var req invokeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeEnvelope(w, nil, dto.BadRequest("invalid invoke request"))
		return
	}
	if req.Cmd == "" {
		writeEnvelope(w, nil, dto.BadRequest("cmd is required"))
		return
	}

	args := req.Args
	if !isCleanJSONObject(args) && req.ArgsString != "" {
		args = json.RawMessage(req.ArgsString)
	}

	data, err := s.dispatcher.Dispatch(r.Context(), req.Cmd, args)
	writeEnvelope(w, data, err)
}

// isCleanJSONObject reports whether raw decodes as a JSON object or array,
// the gateway's signal to prefer it over args_string (spec §4.E).
func isCleanJSONObject(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// logInvokeError logs a dispatcher error at a level matching its
// classification (spec §7): malformed input and not-found lookups are
// expected, client-facing outcomes and are not logged beyond debug;
// anything else (conflicts, internal errors) is logged at a level an
// operator actually wants surfaced.
func logInvokeError(err error, statusCode int, code dto.ErrorCode) {
	switch code {
	case dto.CodeBadRequest, dto.CodeNotFound:
		slog.Debug("invoke failed", "err", err, "statusCode", statusCode, "code", code)
	default:
		slog.Error("invoke failed", "err", err, "statusCode", statusCode, "code", code)
	}
}

func writeEnvelope(w http.ResponseWriter, data any, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		statusCode := http.StatusInternalServerError
		code := dto.CodeInternalError
		var details map[string]any

		var ews dto.ErrorWithStatus
		if errors.As(err, &ews) {
			statusCode = ews.StatusCode()
			code = ews.Code()
			details = ews.Details()
		}
		logInvokeError(err, statusCode, code)

		w.WriteHeader(http.StatusOK) // invoke envelope always reports HTTP 200; ok/error lives in the body.
		env := dto.InvokeEnvelope{OK: false, Error: &dto.ErrorBody{Code: code, Message: err.Error()}}
		if len(details) > 0 {
			if encErr := json.NewEncoder(w).Encode(struct {
				dto.InvokeEnvelope
				Details map[string]any `json:"details,omitempty"`
			}{env, details}); encErr != nil {
				slog.Warn("failed to encode invoke error envelope", "err", encErr)
			}
			return
		}
		if encErr := json.NewEncoder(w).Encode(env); encErr != nil {
			slog.Warn("failed to encode invoke error envelope", "err", encErr)
		}
		return
	}

	env := dto.InvokeEnvelope{OK: true, Data: data}
	if encErr := json.NewEncoder(w).Encode(env); encErr != nil {
		slog.Warn("failed to encode invoke envelope", "err", encErr)
	}
}
