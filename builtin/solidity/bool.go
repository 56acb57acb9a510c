// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"

type Bool struct {
	ctx *Context
	pos sand.Bytes32
}

func NewBool(ctx *Context, pos sand.Bytes32) *Bool {
	return &Bool{ctx: ctx, pos: pos}
}

func (b *Bool) Get() (bool, error) {
	raw, err := b.ctx.state.GetStorage(b.ctx.address, b.pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (b *Bool) Set(v bool) {
	if v {
		b.ctx.state.SetStorage(b.ctx.address, b.pos, []byte{1})
	} else {
		b.ctx.state.SetStorage(b.ctx.address, b.pos, nil)
	}
}
