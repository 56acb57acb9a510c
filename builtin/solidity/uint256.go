// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Values are stored big-endian with leading zeros trimmed, zero clears the slot.
type Uint256 struct {
	ctx *Context
	pos sand.Bytes32
}

func NewUint256(ctx *Context, pos sand.Bytes32) *Uint256 {
	return &Uint256{ctx: ctx, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	raw, err := u.ctx.state.GetStorage(u.ctx.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	if value == nil || value.IsZero() {
		u.ctx.state.SetStorage(u.ctx.address, u.pos, nil)
		return
	}
	u.ctx.state.SetStorage(u.ctx.address, u.pos, value.Bytes())
}

// Add increases the stored value, failing on overflow.
func (u *Uint256) Add(delta *uint256.Int) (*uint256.Int, error) {
	cur, err := u.Get()
	if err != nil {
		return nil, err
	}
	sum, overflow := new(uint256.Int).AddOverflow(cur, delta)
	if overflow {
		return nil, reverts.Overflow("addition overflow")
	}
	u.Set(sum)
	return sum, nil
}

// Sub decreases the stored value, failing on underflow.
func (u *Uint256) Sub(delta *uint256.Int) (*uint256.Int, error) {
	cur, err := u.Get()
	if err != nil {
		return nil, err
	}
	diff, underflow := new(uint256.Int).SubOverflow(cur, delta)
	if underflow {
		return nil, reverts.Overflow("subtraction underflow")
	}
	u.Set(diff)
	return diff, nil
}
