// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

type Key interface {
	Bytes() []byte
}

// BytesKey adapts a plain byte slice, e.g. a composite key, to Key.
type BytesKey []byte

func (k BytesKey) Bytes() []byte { return k }

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded; a missing entry decodes to the zero value.
type Mapping[K Key, V any] struct {
	ctx     *Context
	basePos sand.Bytes32
}

func NewMapping[K Key, V any](ctx *Context, pos sand.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{ctx: ctx, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) sand.Bytes32 {
	return sand.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.ctx.state.DecodeStorage(m.ctx.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.ctx.state.EncodeStorage(m.ctx.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the entry of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.ctx.state.SetStorage(m.ctx.address, m.position(key), nil)
}
