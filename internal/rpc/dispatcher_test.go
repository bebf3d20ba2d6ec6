package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/runner"
	"github.com/agent-board/backend/internal/store"
	"github.com/agent-board/backend/internal/worktree"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	st := store.New(t.TempDir())
	bus := eventbus.New()
	wt := worktree.New(t.TempDir())
	rn := runner.New(st, bus)
	return New(core.New(st, bus, wt, rn))
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	if _, err := d.Dispatch(context.Background(), "no_such_command", nil); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestDispatchCreateAndLoadProjects(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	args, _ := json.Marshal(map[string]string{"name": "demo", "repo_path": "/tmp/demo"})
	out, err := d.Dispatch(ctx, "create_project", args)
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		t.Fatal("expected created project in response")
	}

	list, err := d.Dispatch(ctx, "load_projects", nil)
	if err != nil {
		t.Fatal(err)
	}
	projects, ok := list.([]dto.Project)
	if !ok {
		t.Fatalf("load_projects returned %T, want []dto.Project", list)
	}
	if len(projects) != 1 || projects[0].Name != "demo" {
		t.Fatalf("got %+v, want one project named demo", projects)
	}
}

func TestDispatchCreateProjectMissingNameIsBadRequest(t *testing.T) {
	d := newTestDispatcher(t)
	args, _ := json.Marshal(map[string]string{"repo_path": "/tmp/demo"})
	if _, err := d.Dispatch(context.Background(), "create_project", args); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDispatchAcceptsCamelCaseArgs(t *testing.T) {
	d := newTestDispatcher(t)
	args, _ := json.Marshal(map[string]string{"name": "demo", "repoPath": "/tmp/demo"})
	if _, err := d.Dispatch(context.Background(), "create_project", args); err != nil {
		t.Fatalf("camelCase args should normalize to snake_case fields: %v", err)
	}
}
