// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Arg declares an event argument as "type name", prefixed by "indexed " for topics.
type Arg string

// Event is an abi event definition contracts emit through the state journal.
type Event struct {
	abi abi.Event
}

// NewEvent builds an event definition, panics on malformed args since definitions are static.
func NewEvent(name string, args ...Arg) *Event {
	inputs := make(abi.Arguments, 0, len(args))
	for _, a := range args {
		fields := strings.Fields(string(a))
		indexed := false
		if len(fields) == 3 && fields[0] == "indexed" {
			indexed = true
			fields = fields[1:]
		}
		if len(fields) != 2 {
			panic(fmt.Sprintf("event %s: malformed arg %q", name, a))
		}
		typ, err := abi.NewType(fields[0], "", nil)
		if err != nil {
			panic(fmt.Sprintf("event %s: %v", name, err))
		}
		inputs = append(inputs, abi.Argument{Name: fields[1], Type: typ, Indexed: indexed})
	}
	return &Event{abi: abi.NewEvent(name, name, false, inputs)}
}

// Name returns the event name.
func (e *Event) Name() string { return e.abi.Name }

// Sig returns the canonical signature, e.g. Transfer(address,address,uint256).
func (e *Event) Sig() string { return e.abi.Sig }

// ID is topic0 of emitted events.
func (e *Event) ID() sand.Bytes32 { return sand.Bytes32(e.abi.ID) }

// Encode builds the event log. Values follow the declaration order.
func (e *Event) Encode(addr sand.Address, values ...any) (*sand.Event, error) {
	if len(values) != len(e.abi.Inputs) {
		return nil, fmt.Errorf("event %s: want %d values, got %d", e.abi.Name, len(e.abi.Inputs), len(values))
	}
	ev := &sand.Event{Address: addr, Topics: []sand.Bytes32{e.ID()}}
	var data []any
	for i, input := range e.abi.Inputs {
		v := toABI(values[i])
		if input.Indexed {
			topic, err := topicOf(v)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", e.abi.Name, err)
			}
			ev.Topics = append(ev.Topics, topic)
			continue
		}
		data = append(data, v)
	}
	packed, err := e.abi.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", e.abi.Name, err)
	}
	ev.Data = packed
	return ev, nil
}

// Decode unpacks the non-indexed values of a log emitted for this event.
func (e *Event) Decode(data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := e.abi.Inputs.NonIndexed().UnpackIntoMap(out, data); err != nil {
		return nil, err
	}
	return out, nil
}

// Emit encodes and journals the event on the context contract.
func (c *Context) Emit(e *Event, values ...any) error {
	ev, err := e.Encode(c.address, values...)
	if err != nil {
		return err
	}
	c.state.AddEvent(ev)
	return nil
}

func toABI(v any) any {
	switch x := v.(type) {
	case sand.Address:
		return common.Address(x)
	case *uint256.Int:
		if x == nil {
			return new(big.Int)
		}
		return x.ToBig()
	case uint64:
		return new(big.Int).SetUint64(x)
	}
	return v
}

func topicOf(v any) (sand.Bytes32, error) {
	switch x := v.(type) {
	case common.Address:
		return sand.BytesToBytes32(x.Bytes()), nil
	case *big.Int:
		return sand.BytesToBytes32(x.Bytes()), nil
	case sand.Bytes32:
		return x, nil
	case bool:
		if x {
			return sand.BytesToBytes32([]byte{1}), nil
		}
		return sand.Bytes32{}, nil
	}
	return sand.Bytes32{}, fmt.Errorf("unsupported indexed value %T", v)
}
