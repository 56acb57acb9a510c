// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/runtime"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

// Builder helper to set up a deployment.
type Builder struct {
	stateProcs []func(st *state.State) error
	calls      []call
}

type call struct {
	name   string
	caller sand.Address
	fn     func(caller sand.Address) error
}

// State add a state process, run before any call.
func (b *Builder) State(proc func(st *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(name string, caller sand.Address, fn func(caller sand.Address) error) *Builder {
	b.calls = append(b.calls, call{name, caller, fn})
	return b
}

// Build runs the state processes and the calls in order and commits.
// Any reverted call aborts the build.
func (b *Builder) Build(rt *runtime.Runtime) (events []*sand.Event, err error) {
	for _, proc := range b.stateProcs {
		if err := proc(rt.State()); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	for _, c := range b.calls {
		receipt, err := rt.Execute(c.name, c.caller, c.fn)
		if err != nil {
			return nil, err
		}
		if receipt.Reverted {
			return nil, errors.WithMessage(receipt.Revert, c.name)
		}
		events = append(events, receipt.Events...)
	}
	if _, err := rt.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return events, nil
}
