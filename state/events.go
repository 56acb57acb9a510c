// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"

// AddEvent appends an event to the journal. Reverting a checkpoint drops
// the events emitted after it.
func (s *State) AddEvent(ev *sand.Event) {
	n := s.EventCount()
	s.sm.Put(eventKey(n), ev)
	s.sm.Put(eventCount{}, n+1)
}

// EventCount returns the number of events emitted since the last commit.
func (s *State) EventCount() int {
	v, _, _ := s.sm.Get(eventCount{})
	return v.(int)
}

// Events returns the events emitted since the last commit, starting at index from.
func (s *State) Events(from int) []*sand.Event {
	n := s.EventCount()
	if from >= n {
		return nil
	}
	out := make([]*sand.Event, 0, n-from)
	for i := from; i < n; i++ {
		v, _, _ := s.sm.Get(eventKey(i))
		out = append(out, v.(*sand.Event))
	}
	return out
}
