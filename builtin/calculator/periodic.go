// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calculator

import (
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var (
	slotDuration     = solidity.Slot("periodic-duration")
	slotPeriodFinish = solidity.Slot("periodic-period-finish")
	slotRewardRate   = solidity.Slot("periodic-reward-rate")
	slotHasStarted   = solidity.Slot("periodic-has-started")
)

// Periodic unlocks each notified amount linearly over a fixed duration.
// Notifying inside a running period blends the leftover into the new rate.
type Periodic struct {
	ledger
	duration     *solidity.Uint64
	periodFinish *solidity.Uint64
	rewardRate   *solidity.Uint256
	hasStarted   *solidity.Bool
}

func NewPeriodic(addr sand.Address, st *state.State, clock sand.Clock) *Periodic {
	l := newLedger(addr, st, clock, access.Policy{
		OpNotifyRewardAmount: access.RoleRewardDistribution,
		OpRestartRewards:     access.RoleRewardPool,
		OpSetDuration:        access.RoleAdmin,
	})
	return &Periodic{
		ledger:       l,
		duration:     solidity.NewUint64(l.ctx, slotDuration),
		periodFinish: solidity.NewUint64(l.ctx, slotPeriodFinish),
		rewardRate:   solidity.NewUint256(l.ctx, slotRewardRate),
		hasStarted:   solidity.NewBool(l.ctx, slotHasStarted),
	}
}

func (p *Periodic) Duration() (uint64, error)         { return p.duration.Get() }
func (p *Periodic) PeriodFinish() (uint64, error)     { return p.periodFinish.Get() }
func (p *Periodic) RewardRate() (*uint256.Int, error) { return p.rewardRate.Get() }
func (p *Periodic) HasStarted() (bool, error)         { return p.hasStarted.Get() }

// GetRewards returns savedRewards plus what the rate unlocked since the last update.
func (p *Periodic) GetRewards() (*uint256.Int, error) {
	saved, err := p.saved.Get()
	if err != nil {
		return nil, wrap(err, "failed to get saved rewards")
	}
	rate, err := p.rewardRate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get reward rate")
	}
	last, err := p.lastUpdate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get last update time")
	}
	finish, err := p.periodFinish.Get()
	if err != nil {
		return nil, wrap(err, "failed to get period finish")
	}
	unlocked, err := linear(rate, last, min(p.ctx.Now(), finish))
	if err != nil {
		return nil, err
	}
	return add(saved, unlocked)
}

// RemainingRewards is what the running period has not unlocked yet.
func (p *Periodic) RemainingRewards() (*uint256.Int, error) {
	rate, err := p.rewardRate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get reward rate")
	}
	finish, err := p.periodFinish.Get()
	if err != nil {
		return nil, wrap(err, "failed to get period finish")
	}
	return linear(rate, p.ctx.Now(), finish)
}

func (p *Periodic) RestartRewards(caller sand.Address) error {
	if err := p.access.Check(OpRestartRewards, caller); err != nil {
		return err
	}
	consumed, err := p.GetRewards()
	if err != nil {
		return err
	}
	return p.restart(consumed, new(uint256.Int))
}

// NotifyRewardAmount starts a new period distributing amount plus the
// leftover of the running one.
func (p *Periodic) NotifyRewardAmount(caller sand.Address, amount *uint256.Int) error {
	if err := p.access.Check(OpNotifyRewardAmount, caller); err != nil {
		return err
	}
	duration, err := p.duration.Get()
	if err != nil {
		return wrap(err, "failed to get duration")
	}
	if duration == 0 {
		return reverts.Config("duration is not set")
	}
	// the old rate applies up to now
	unlocked, err := p.GetRewards()
	if err != nil {
		return err
	}
	rate, err := p.rewardRate.Get()
	if err != nil {
		return wrap(err, "failed to get reward rate")
	}
	finish, err := p.periodFinish.Get()
	if err != nil {
		return wrap(err, "failed to get period finish")
	}

	now := p.ctx.Now()
	newRate, err := blend(amount, rate, now, finish, duration)
	if err != nil {
		return err
	}
	p.checkpoint(unlocked)
	p.rewardRate.Set(newRate)
	p.periodFinish.Set(now + duration)
	p.hasStarted.Set(true)

	logger.Debug("reward notified", "calculator", p.Address(), "amount", amount, "rate", newRate, "finish", now+duration)
	return p.ctx.Emit(eventRewardAdded, amount)
}

// SetDuration sets the period length, only before the first notification.
func (p *Periodic) SetDuration(caller sand.Address, duration uint64) error {
	if err := p.access.Check(OpSetDuration, caller); err != nil {
		return err
	}
	started, err := p.hasStarted.Get()
	if err != nil {
		return wrap(err, "failed to get started flag")
	}
	if started {
		return reverts.Config("duration can not change once rewards started")
	}
	if duration == 0 {
		return reverts.Config("duration is zero")
	}
	p.duration.Set(duration)
	logger.Info("duration set", "calculator", p.Address(), "duration", duration)
	return p.ctx.Emit(eventDurationSet, duration)
}
