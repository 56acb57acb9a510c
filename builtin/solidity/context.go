// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

// Context binds storage accessors to a contract address.
type Context struct {
	address sand.Address
	state   *state.State
	clock   sand.Clock
}

func NewContext(address sand.Address, state *state.State, clock sand.Clock) *Context {
	return &Context{
		address: address,
		state:   state,
		clock:   clock,
	}
}

func (c *Context) Address() sand.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Now returns the timestamp of the executing call.
func (c *Context) Now() uint64 {
	return c.clock.Now()
}

// AfterCall defers fn until the executing call succeeds.
func (c *Context) AfterCall(fn func()) {
	c.state.AfterCall(fn)
}

// Slot derives a storage position from a readable name.
func Slot(name string) sand.Bytes32 {
	return sand.BytesToBytes32([]byte(name))
}
