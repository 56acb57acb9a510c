// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calculator

import (
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var slotFixedRate = solidity.Slot("fixed-rate")

// FixedRate unlocks rewards at an open-ended constant rate per second.
type FixedRate struct {
	ledger
	rate *solidity.Uint256
}

func NewFixedRate(addr sand.Address, st *state.State, clock sand.Clock) *FixedRate {
	l := newLedger(addr, st, clock, access.Policy{
		OpSetRate:         access.RoleRewardDistribution,
		OpRestartRewards:  access.RoleRewardPool,
		OpSetSavedRewards: access.RoleAdmin,
	})
	return &FixedRate{
		ledger: l,
		rate:   solidity.NewUint256(l.ctx, slotFixedRate),
	}
}

func (f *FixedRate) Rate() (*uint256.Int, error) { return f.rate.Get() }

func (f *FixedRate) GetRewards() (*uint256.Int, error) {
	saved, err := f.saved.Get()
	if err != nil {
		return nil, wrap(err, "failed to get saved rewards")
	}
	rate, err := f.rate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get rate")
	}
	last, err := f.lastUpdate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get last update time")
	}
	unlocked, err := linear(rate, last, f.ctx.Now())
	if err != nil {
		return nil, err
	}
	return add(saved, unlocked)
}

// SetRate changes the rate from now on, what the old rate unlocked is kept.
func (f *FixedRate) SetRate(caller sand.Address, rate *uint256.Int) error {
	if err := f.access.Check(OpSetRate, caller); err != nil {
		return err
	}
	unlocked, err := f.GetRewards()
	if err != nil {
		return err
	}
	f.checkpoint(unlocked)
	f.rate.Set(rate)
	logger.Info("reward rate set", "calculator", f.Address(), "rate", rate)
	return f.ctx.Emit(eventRewardRateSet, rate)
}

// SetSavedRewards seeds the unlocked amount manually.
func (f *FixedRate) SetSavedRewards(caller sand.Address, value *uint256.Int) error {
	return f.setSaved(caller, value)
}

func (f *FixedRate) RestartRewards(caller sand.Address) error {
	return f.RestartRewardsWith(caller, new(uint256.Int))
}

// RestartRewardsWith restarts keeping saved as the frozen unlocked amount.
func (f *FixedRate) RestartRewardsWith(caller sand.Address, saved *uint256.Int) error {
	if err := f.access.Check(OpRestartRewards, caller); err != nil {
		return err
	}
	consumed, err := f.GetRewards()
	if err != nil {
		return err
	}
	return f.restart(consumed, saved)
}
