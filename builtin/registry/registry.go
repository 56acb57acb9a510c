// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry tracks deployed builtin contracts by address.
// A contract is deployed when the state carries code at its address and the
// registry holds a binding for it.
package registry

import (
	"sync"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "registry")

// Contract is the minimal surface of a deployed builtin.
type Contract interface {
	Address() sand.Address
}

type entry struct {
	kind     string
	contract Contract
}

// Registry maps addresses to contract bindings.
type Registry struct {
	state *state.State

	mu        sync.RWMutex
	contracts map[sand.Address]entry
}

func New(st *state.State) *Registry {
	return &Registry{
		state:     st,
		contracts: make(map[sand.Address]entry),
	}
}

// Deploy records the binding and marks its address as code carrying.
func (r *Registry) Deploy(kind string, c Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts[c.Address()] = entry{kind, c}
	r.state.SetCode(c.Address(), []byte(kind))
	logger.Debug("contract deployed", "kind", kind, "address", c.Address())
}

// Kind returns the deployed kind at addr, empty if none.
func (r *Registry) Kind(addr sand.Address) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contracts[addr].kind
}

// Addresses returns the addresses deployed with kind.
func (r *Registry) Addresses(kind string) []sand.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []sand.Address
	for addr, e := range r.contracts {
		if e.kind == kind {
			out = append(out, addr)
		}
	}
	return out
}

func (r *Registry) get(addr sand.Address) (Contract, error) {
	has, err := r.state.HasCode(addr)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	e, ok := r.contracts[addr]
	r.mu.RUnlock()
	if !has || !ok {
		return nil, reverts.NotContract("%v is not a contract", addr)
	}
	return e.contract, nil
}

// Lookup resolves addr to a contract implementing T.
func Lookup[T any](r *Registry, addr sand.Address) (T, error) {
	var zero T
	c, err := r.get(addr)
	if err != nil {
		return zero, err
	}
	t, ok := c.(T)
	if !ok {
		return zero, reverts.NotContract("%v does not implement the required interface", addr)
	}
	return t, nil
}
