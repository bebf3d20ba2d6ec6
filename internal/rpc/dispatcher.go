// Package rpc implements the RPC Dispatcher: a registry of named commands,
// each decoding its JSON arguments into a typed, validated request and
// delegating to the application core.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/dto"
)

// Validatable is implemented by every command's argument type.
type Validatable interface {
	Validate() error
}

type handlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher routes (cmd, args) pairs to registered handlers.
type Dispatcher struct {
	core     *core.Core
	handlers map[string]handlerFunc
}

// New builds a Dispatcher with every command wired against c.
func New(c *core.Core) *Dispatcher {
	d := &Dispatcher{core: c, handlers: make(map[string]handlerFunc)}
	d.registerProjectCommands()
	d.registerTaskCommands()
	d.registerWorktreeCommands()
	d.registerAgentCommands()
	d.registerGitCommands()
	d.registerFSCommands()
	return d
}

// register binds name to a handler built from a typed decode+validate+call
// pipeline. PtrIn must validate itself; fn receives the decoded request and
// returns the value to place in the invoke envelope's data field.
func register[In any, PtrIn interface {
	*In
	Validatable
}, Out any](d *Dispatcher, name string, fn func(ctx context.Context, c *core.Core, in PtrIn) (Out, error)) {
	d.handlers[name] = func(ctx context.Context, args json.RawMessage) (any, error) {
		in := PtrIn(new(In))
		if len(args) > 0 && string(args) != "null" {
			normalized := normalizeArgs(args)
			dec := json.NewDecoder(bytes.NewReader(normalized))
			if err := dec.Decode(in); err != nil {
				return nil, dto.BadRequest(fmt.Sprintf("invalid arguments for %s", name)).Wrap(err)
			}
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		return fn(ctx, d.core, in)
	}
}

// Dispatch looks up cmd and runs it against args, the decoded JSON object
// from the invoke request body.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd string, args json.RawMessage) (any, error) {
	h, ok := d.handlers[cmd]
	if !ok {
		return nil, dto.BadRequest(fmt.Sprintf("unknown command: %s", cmd))
	}
	return h(ctx, args)
}
