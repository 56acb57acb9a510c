// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/eventdb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Meta is the call context of an event.
type Meta struct {
	CallSeq  uint64       `json:"callSeq"`
	Index    uint32       `json:"index"`
	CallTime uint64       `json:"callTime"`
	Caller   sand.Address `json:"caller"`
}

// FilteredEvent is a committed event as served by the API.
type FilteredEvent struct {
	Address sand.Address    `json:"address"`
	Topics  []*sand.Bytes32 `json:"topics"`
	Data    hexutil.Bytes   `json:"data"`
	Meta    Meta            `json:"meta"`
}

func convertEvent(e *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: e.Address,
		Data:    e.Data,
		Meta: Meta{
			CallSeq:  e.CallSeq,
			Index:    e.Index,
			CallTime: e.CallTime,
			Caller:   e.Caller,
		},
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	return fe
}
