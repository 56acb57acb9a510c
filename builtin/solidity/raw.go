// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Raw stores a single rlp encoded value, usually a struct, in one slot.
type Raw[V any] struct {
	ctx *Context
	pos sand.Bytes32
}

func NewRaw[V any](ctx *Context, pos sand.Bytes32) *Raw[V] {
	return &Raw[V]{ctx: ctx, pos: pos}
}

// Get decodes the stored value. The boolean reports whether the slot was set.
func (r *Raw[V]) Get() (value V, found bool, err error) {
	err = r.ctx.state.DecodeStorage(r.ctx.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.ctx.state.EncodeStorage(r.ctx.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (r *Raw[V]) Delete() {
	r.ctx.state.SetStorage(r.ctx.address, r.pos, nil)
}
