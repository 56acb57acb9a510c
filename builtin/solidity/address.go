// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"

// Address is a wrapper for storage and retrieval of an address. Similar to storing an address in a smart contract.
type Address struct {
	ctx *Context
	pos sand.Bytes32
}

func NewAddress(ctx *Context, pos sand.Bytes32) *Address {
	return &Address{ctx: ctx, pos: pos}
}

func (a *Address) Get() (sand.Address, error) {
	raw, err := a.ctx.state.GetStorage(a.ctx.address, a.pos)
	if err != nil {
		return sand.Address{}, err
	}
	return sand.BytesToAddress(raw), nil
}

func (a *Address) Set(addr sand.Address) {
	if addr.IsZero() {
		a.ctx.state.SetStorage(a.ctx.address, a.pos, nil)
		return
	}
	a.ctx.state.SetStorage(a.ctx.address, a.pos, addr.Bytes())
}
