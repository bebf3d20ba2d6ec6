// Package core wires the Document Store, Event Bus, Worktree Manager, and
// Agent Runner into the Project/Task domain operations the RPC Dispatcher
// exposes. It holds no process-wide globals of its own — everything is
// injected so tests can build a fresh Core per case (spec §9, "Global
// state").
package core

import (
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/runner"
	"github.com/agent-board/backend/internal/store"
	"github.com/agent-board/backend/internal/worktree"
)

const (
	projectsFile = "projects.json"
	settingsFile = "agent_settings.json"
)

func tasksFile(projectID string) string {
	return "tasks_" + projectID + ".json"
}

// Core is the process-wide application core (one instance per running
// gateway), holding references to its four leaf components.
type Core struct {
	Store     *store.Store
	Bus       *eventbus.Bus
	Worktrees *worktree.Manager
	Runner    *runner.Runner
}

// New assembles a Core from its components.
func New(st *store.Store, bus *eventbus.Bus, wt *worktree.Manager, rn *runner.Runner) *Core {
	return &Core{Store: st, Bus: bus, Worktrees: wt, Runner: rn}
}
