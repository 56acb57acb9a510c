// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes engine operations atomically against a state.
package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/eventdb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/metrics"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCalls        = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"op", "reverted"})
	metricReverts      = metrics.LazyLoadCounterVec("runtime_reverts_count", []string{"kind"})
	metricCallDuration = metrics.LazyLoadHistogram("runtime_call_duration_ms", metrics.BucketCallMillis)
)

// Op is one public operation run on behalf of caller.
type Op func(caller sand.Address) error

// Receipt describes the outcome of an executed operation.
type Receipt struct {
	Seq      uint64
	Op       string
	Caller   sand.Address
	Time     uint64
	Reverted bool
	// Revert is the reason of a reverted call.
	Revert error
	Events []*sand.Event
}

// Runtime runs operations one at a time. A failed operation leaves no trace
// in storage nor in the event journal.
type Runtime struct {
	mu      sync.Mutex
	state   *state.State
	clock   sand.Clock
	eventDB *eventdb.EventDB
	seq     uint64
	pending []*eventdb.Event
}

// New create a Runtime object.
func New(st *state.State, clock sand.Clock) *Runtime {
	return &Runtime{state: st, clock: clock}
}

// WithEventDB persists committed events into db, continuing its call sequence.
// Returns this runtime.
func (rt *Runtime) WithEventDB(db *eventdb.EventDB) (*Runtime, error) {
	seq, err := db.LastSeq()
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.eventDB = db
	rt.seq = seq
	return rt, nil
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Clock() sand.Clock   { return rt.clock }

// Execute runs fn atomically. Reverts are reported in the receipt, other
// errors abort with the state untouched.
func (rt *Runtime) Execute(name string, caller sand.Address, fn Op) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute(name, caller, func() (sand.Address, error) { return caller, fn(caller) })
}

// execute runs body between a checkpoint and its revert. body returns the
// effective caller, which differs from the submitter for forwarded calls.
func (rt *Runtime) execute(name string, submitter sand.Address, body func() (sand.Address, error)) (*Receipt, error) {
	start := time.Now()
	defer func() { metricCallDuration().Observe(time.Since(start).Milliseconds()) }()

	from := rt.state.EventCount()
	hooks := rt.state.HookCount()
	checkpoint := rt.state.NewCheckpoint()

	caller, err := body()
	receipt := &Receipt{
		Op:     name,
		Caller: caller,
		Time:   rt.clock.Now(),
	}
	if caller.IsZero() {
		receipt.Caller = submitter
	}
	if err != nil {
		rt.state.RevertTo(checkpoint)
		metricCalls().AddWithLabel(1, map[string]string{"op": name, "reverted": "true"})
		if !reverts.IsRevertErr(err) {
			logger.Error("call failed", "op", name, "caller", receipt.Caller, "err", err)
			return nil, errors.WithMessage(err, name)
		}
		metricReverts().AddWithLabel(1, map[string]string{"kind": string(reverts.KindOf(err))})
		logger.Warn("call reverted", "op", name, "caller", receipt.Caller, "err", err)
		receipt.Reverted = true
		receipt.Revert = err
		return receipt, nil
	}

	rt.seq++
	receipt.Seq = rt.seq
	receipt.Events = rt.state.Events(from)
	for i, ev := range receipt.Events {
		rt.pending = append(rt.pending, eventdb.NewEvent(receipt.Seq, uint32(i), receipt.Time, receipt.Caller, ev))
	}
	for _, fn := range rt.state.Hooks(hooks) {
		fn()
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": name, "reverted": "false"})
	logger.Debug("call executed", "op", name, "caller", receipt.Caller, "seq", receipt.Seq, "events", len(receipt.Events))
	return receipt, nil
}

// Commit flushes the state and the events of executed calls.
// It returns the number of storage keys written.
func (rt *Runtime) Commit() (int, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	n, err := rt.state.Commit()
	if err != nil {
		return 0, errors.WithMessage(err, "commit state")
	}
	if rt.eventDB != nil {
		if err := rt.eventDB.Insert(rt.pending); err != nil {
			return 0, errors.WithMessage(err, "commit events")
		}
	}
	logger.Debug("committed", "keys", n, "events", len(rt.pending), "seq", rt.seq)
	rt.pending = nil
	return n, nil
}

// View runs fn while no operation executes.
func (rt *Runtime) View(fn func() error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn()
}

// Pending returns the number of events waiting for commit.
func (rt *Runtime) Pending() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.pending)
}
