// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"

// MaxTopics is the number of topics stored per event.
const MaxTopics = 4

// Order of query results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Event is a committed event with its call context.
type Event struct {
	CallSeq  uint64
	Index    uint32
	CallTime uint64
	Caller   sand.Address
	Address  sand.Address
	Topics   [MaxTopics]*sand.Bytes32
	Data     []byte
}

// NewEvent wraps an emitted event with its call context.
func NewEvent(seq uint64, index uint32, ts uint64, caller sand.Address, ev *sand.Event) *Event {
	e := &Event{
		CallSeq:  seq,
		Index:    index,
		CallTime: ts,
		Caller:   caller,
		Address:  ev.Address,
		Data:     ev.Data,
	}
	for i := 0; i < len(ev.Topics) && i < MaxTopics; i++ {
		t := ev.Topics[i]
		e.Topics[i] = &t
	}
	return e
}

// TimeRange bounds CallTime, To is inclusive and ignored when below From.
type TimeRange struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Options paginates results.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Topic sets are OR-ed, topics inside a set are AND-ed.
type Filter struct {
	Address  *sand.Address              `json:"address"`
	TopicSet [][MaxTopics]*sand.Bytes32 `json:"topicSet"`
	Range    *TimeRange                 `json:"range"`
	Options  *Options                   `json:"options"`
	Order    Order                      `json:"order"`
}
