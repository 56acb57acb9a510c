// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// AfterCall queues fn to run once the executing call succeeds. Like events,
// hooks queued after a reverted checkpoint are dropped.
func (s *State) AfterCall(fn func()) {
	n := s.HookCount()
	s.sm.Put(hookKey(n), fn)
	s.sm.Put(hookCount{}, n+1)
}

// HookCount returns the number of hooks queued since the last commit.
func (s *State) HookCount() int {
	v, _, _ := s.sm.Get(hookCount{})
	return v.(int)
}

// Hooks returns the hooks queued since the last commit, starting at index from.
func (s *State) Hooks(from int) []func() {
	n := s.HookCount()
	if from >= n {
		return nil
	}
	out := make([]func(), 0, n-from)
	for i := from; i < n; i++ {
		v, _, _ := s.sm.Get(hookKey(i))
		out = append(out, v.(func()))
	}
	return out
}
