package agent

import (
	"fmt"

	"github.com/agent-board/backend/internal/dto"
)

// Registry resolves a dto.Harness to its Profile implementation. Concrete
// profiles register themselves at init time via Register, so the agent
// package itself has no import-cycle dependency on claude/codex.
var registry = map[dto.Harness]Profile{}

// Register makes a profile available under its own Harness(). Intended to
// be called from each profile subpackage's init().
func Register(p Profile) {
	registry[p.Harness()] = p
}

// Resolve looks up the profile for a harness.
func Resolve(h dto.Harness) (Profile, error) {
	p, ok := registry[h]
	if !ok {
		return nil, fmt.Errorf("agent: unknown profile %q", h)
	}
	return p, nil
}
