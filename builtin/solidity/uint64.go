// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Uint64 stores timestamps, durations and per-mille values.
type Uint64 struct {
	ctx *Context
	pos sand.Bytes32
}

func NewUint64(ctx *Context, pos sand.Bytes32) *Uint64 {
	return &Uint64{ctx: ctx, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	raw, err := u.ctx.state.GetStorage(u.ctx.address, u.pos)
	if err != nil {
		return 0, err
	}
	if len(raw) > 8 {
		return 0, errors.Errorf("uint64 slot %v holds %d bytes", u.pos, len(raw))
	}
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (u *Uint64) Set(value uint64) {
	if value == 0 {
		u.ctx.state.SetStorage(u.ctx.address, u.pos, nil)
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	i := 0
	for buf[i] == 0 {
		i++
	}
	u.ctx.state.SetStorage(u.ctx.address, u.pos, buf[i:])
}
