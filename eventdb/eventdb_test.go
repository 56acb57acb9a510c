// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/eventdb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	t0 := sand.BytesToBytes32([]byte("topic0"))
	t1 := sand.BytesToBytes32([]byte("topic1"))
	other := sand.BytesToBytes32([]byte("other"))
	addr := sand.BytesToAddress([]byte("addr"))
	caller := sand.BytesToAddress([]byte("caller"))

	var events []*eventdb.Event
	for i := range 100 {
		topics := []sand.Bytes32{t0, t1}
		if i%2 == 1 {
			topics = []sand.Bytes32{other}
		}
		ev := &sand.Event{Address: addr, Topics: topics, Data: []byte{byte(i)}}
		events = append(events, eventdb.NewEvent(uint64(i+1), 0, uint64(1000+i), caller, ev))
	}
	require.NoError(t, db.Insert(events))

	last, err := db.LastSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), last)

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)

	got, err := db.Filter(&eventdb.Filter{
		Address:  &addr,
		Range:    &eventdb.TimeRange{From: 1000, To: 1010},
		TopicSet: [][eventdb.MaxTopics]*sand.Bytes32{{&t0, &t1}},
		Options:  &eventdb.Options{Offset: 0, Limit: 5},
		Order:    eventdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, uint64(11), got[0].CallSeq)
	assert.Equal(t, uint64(1010), got[0].CallTime)
	assert.Equal(t, caller, got[0].Caller)
	assert.Equal(t, t1, *got[0].Topics[1])
	assert.Nil(t, got[0].Topics[2])

	got, err = db.Filter(&eventdb.Filter{
		TopicSet: [][eventdb.MaxTopics]*sand.Bytes32{{&other}, {nil, &t1}},
	})
	require.NoError(t, err)
	assert.Len(t, got, 100)

	none := sand.BytesToAddress([]byte("none"))
	got, err = db.Filter(&eventdb.Filter{Address: &none})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLastSeqEmpty(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	last, err := db.LastSeq()
	require.NoError(t, err)
	assert.Zero(t, last)
}
