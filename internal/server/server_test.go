package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/rpc"
	"github.com/agent-board/backend/internal/runner"
	"github.com/agent-board/backend/internal/store"
	"github.com/agent-board/backend/internal/worktree"
)

func newTestServer(t *testing.T) (*Server, *eventbus.Bus) {
	t.Helper()
	st := store.New(t.TempDir())
	bus := eventbus.New()
	wt := worktree.New(t.TempDir())
	rn := runner.New(st, bus)
	d := rpc.New(core.New(st, bus, wt, rn))
	return New(d, bus), bus
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestHandleInvokeUnknownCommandReturnsOKFalse(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"cmd":"no_such_command","args":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (errors ride in the envelope)", rec.Code)
	}
	var env struct {
		OK    bool `json:"ok"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.OK {
		t.Fatal("expected ok:false for an unknown command")
	}
	if env.Error == nil {
		t.Fatal("expected an error body")
	}
}

func TestHandleInvokeLoadProjects(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"cmd":"load_projects","args":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)

	var env struct {
		OK   bool  `json:"ok"`
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.OK {
		t.Fatalf("expected ok:true, body=%s", rec.Body.String())
	}
}

func TestHandleInvokeFallsBackToArgsString(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"cmd":"create_project","args":null,"args_string":"{\"name\":\"demo\",\"repo_path\":\"/tmp/demo\"}"}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)

	var env struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.OK {
		t.Fatalf("expected args_string fallback to succeed, body=%s", rec.Body.String())
	}
}
