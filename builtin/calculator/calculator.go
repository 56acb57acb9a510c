// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package calculator holds the reward calculators a pool pulls unlocked
// rewards from. A calculator reports the cumulative amount unlocked since its
// last restart; the pool consumes that amount and restarts it.
package calculator

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "calculator")

// Registry kinds of the calculator variants.
const (
	KindPeriodic  = "calculator/periodic"
	KindFixedRate = "calculator/fixed-rate"
	KindTwoPhase  = "calculator/two-phase"
)

const (
	OpNotifyRewardAmount    access.Operation = "notifyRewardAmount"
	OpRestartRewards        access.Operation = "restartRewards"
	OpSetDuration           access.Operation = "setDuration"
	OpSetRate               access.Operation = "setRate"
	OpSetSavedRewards       access.Operation = "setSavedRewards"
	OpRunCampaign           access.Operation = "runCampaign"
	OpUpdateCurrentCampaign access.Operation = "updateCurrentCampaign"
	OpSetNextCampaign       access.Operation = "setNextCampaign"
	OpUpdateNextCampaign    access.Operation = "updateNextCampaign"
)

// Calculator is the surface a pool consumes.
type Calculator interface {
	Address() sand.Address
	// GetRewards returns the rewards unlocked since the last restart.
	GetRewards() (*uint256.Int, error)
	// RestartRewards marks everything returned by GetRewards as consumed.
	RestartRewards(caller sand.Address) error
}

var (
	slotLastUpdate = solidity.Slot("calculator-last-update")
	slotSaved      = solidity.Slot("calculator-saved-rewards")

	eventRewardAdded      = solidity.NewEvent("RewardAdded", "uint256 reward")
	eventRewardsRestarted = solidity.NewEvent("RewardsRestarted", "uint256 consumed", "uint256 savedRewards")
	eventSavedRewardsSet  = solidity.NewEvent("SavedRewardsSet", "uint256 savedRewards")
	eventDurationSet      = solidity.NewEvent("DurationSet", "uint256 duration")
	eventRewardRateSet    = solidity.NewEvent("RewardRateSet", "uint256 rate")
	eventCampaignSet      = solidity.NewEvent("CampaignSet", "uint256 phase", "uint256 reward", "uint256 duration", "uint256 finish")
)

// ledger is the accrual checkpoint every variant carries.
type ledger struct {
	ctx        *solidity.Context
	access     *access.Table
	lastUpdate *solidity.Uint64
	saved      *solidity.Uint256
}

func newLedger(addr sand.Address, st *state.State, clock sand.Clock, policy access.Policy) ledger {
	ctx := solidity.NewContext(addr, st, clock)
	return ledger{
		ctx:        ctx,
		access:     access.New(ctx, policy),
		lastUpdate: solidity.NewUint64(ctx, slotLastUpdate),
		saved:      solidity.NewUint256(ctx, slotSaved),
	}
}

func (l *ledger) Address() sand.Address { return l.ctx.Address() }

// Access exposes the permission table.
func (l *ledger) Access() *access.Table { return l.access }

func (l *ledger) LastUpdateTime() (uint64, error) {
	return l.lastUpdate.Get()
}

func (l *ledger) SavedRewards() (*uint256.Int, error) {
	return l.saved.Get()
}

// checkpoint freezes value as the amount unlocked up to now.
func (l *ledger) checkpoint(value *uint256.Int) {
	l.saved.Set(value)
	l.lastUpdate.Set(l.ctx.Now())
}

func (l *ledger) restart(consumed, saved *uint256.Int) error {
	l.checkpoint(saved)
	logger.Debug("rewards restarted", "calculator", l.ctx.Address(), "consumed", consumed, "saved", saved)
	return l.ctx.Emit(eventRewardsRestarted, consumed, saved)
}

func (l *ledger) setSaved(caller sand.Address, value *uint256.Int) error {
	if err := l.access.Check(OpSetSavedRewards, caller); err != nil {
		return err
	}
	l.checkpoint(value)
	logger.Info("saved rewards set", "calculator", l.ctx.Address(), "value", value)
	return l.ctx.Emit(eventSavedRewardsSet, value)
}

// linear returns rate * (to - from), zero when to <= from.
func linear(rate *uint256.Int, from, to uint64) (*uint256.Int, error) {
	if to <= from {
		return new(uint256.Int), nil
	}
	v, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(to-from))
	if overflow {
		return nil, reverts.Overflow("reward accrual overflow")
	}
	return v, nil
}

func add(a, b *uint256.Int) (*uint256.Int, error) {
	v, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, reverts.Overflow("reward sum overflow")
	}
	return v, nil
}

// blend computes (amount + leftover) / duration where leftover is what rate
// would still unlock between now and finish.
func blend(amount, rate *uint256.Int, now, finish, duration uint64) (*uint256.Int, error) {
	if duration == 0 {
		return nil, reverts.Config("duration is zero")
	}
	leftover, err := linear(rate, now, finish)
	if err != nil {
		return nil, err
	}
	total, err := add(amount, leftover)
	if err != nil {
		return nil, err
	}
	return total.Div(total, uint256.NewInt(duration)), nil
}

func wrap(err error, what string) error {
	if err == nil || reverts.IsRevertErr(err) {
		return err
	}
	return errors.Wrap(err, what)
}
