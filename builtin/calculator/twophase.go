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

var slotCampaign = solidity.Slot("two-phase-campaign")

type phase struct {
	Rate   *uint256.Int
	Finish uint64
}

// campaign is a running phase followed by an optional next phase that
// starts exactly when the first one finishes.
type campaign struct {
	Current phase
	Next    phase
}

func (c *campaign) hasNext() bool { return c.Next.Finish != 0 }

// promote moves the next phase in once the current one is over.
func (c *campaign) promote(now uint64) {
	if c.hasNext() && now >= c.Current.Finish {
		c.Current = c.Next
		c.Next = phase{Rate: new(uint256.Int)}
	}
}

// TwoPhase runs reward campaigns: a current phase and a queued next phase
// with its own rate.
type TwoPhase struct {
	ledger
	campaign *solidity.Raw[campaign]
}

func NewTwoPhase(addr sand.Address, st *state.State, clock sand.Clock) *TwoPhase {
	l := newLedger(addr, st, clock, access.Policy{
		OpRestartRewards:        access.RoleRewardPool,
		OpRunCampaign:           access.RoleRewardDistribution,
		OpUpdateCurrentCampaign: access.RoleRewardDistribution,
		OpSetNextCampaign:       access.RoleRewardDistribution,
		OpUpdateNextCampaign:    access.RoleRewardDistribution,
		OpSetSavedRewards:       access.RoleAdmin,
	})
	return &TwoPhase{
		ledger:   l,
		campaign: solidity.NewRaw[campaign](l.ctx, slotCampaign),
	}
}

func (t *TwoPhase) load() (*campaign, error) {
	c, _, err := t.campaign.Get()
	if err != nil {
		return nil, wrap(err, "failed to get campaign")
	}
	if c.Current.Rate == nil {
		c.Current.Rate = new(uint256.Int)
	}
	if c.Next.Rate == nil {
		c.Next.Rate = new(uint256.Int)
	}
	return &c, nil
}

func (t *TwoPhase) store(c *campaign) error {
	return wrap(t.campaign.Set(*c), "failed to set campaign")
}

// Phases returns rate and finish of the current and next phase.
func (t *TwoPhase) Phases() (rate1 *uint256.Int, finish1 uint64, rate2 *uint256.Int, finish2 uint64, err error) {
	c, err := t.load()
	if err != nil {
		return nil, 0, nil, 0, err
	}
	return c.Current.Rate, c.Current.Finish, c.Next.Rate, c.Next.Finish, nil
}

func (t *TwoPhase) unlocked(c *campaign, last, now uint64) (*uint256.Int, error) {
	first, err := linear(c.Current.Rate, last, min(now, c.Current.Finish))
	if err != nil {
		return nil, err
	}
	if !c.hasNext() {
		return first, nil
	}
	second, err := linear(c.Next.Rate, max(last, c.Current.Finish), min(now, c.Next.Finish))
	if err != nil {
		return nil, err
	}
	return add(first, second)
}

func (t *TwoPhase) GetRewards() (*uint256.Int, error) {
	c, err := t.load()
	if err != nil {
		return nil, err
	}
	saved, err := t.saved.Get()
	if err != nil {
		return nil, wrap(err, "failed to get saved rewards")
	}
	last, err := t.lastUpdate.Get()
	if err != nil {
		return nil, wrap(err, "failed to get last update time")
	}
	unlocked, err := t.unlocked(c, last, t.ctx.Now())
	if err != nil {
		return nil, err
	}
	return add(saved, unlocked)
}

// settle freezes the unlocked amount as saved and promotes the next phase.
func (t *TwoPhase) settle(saved func(unlocked *uint256.Int) *uint256.Int) (*campaign, *uint256.Int, error) {
	unlocked, err := t.GetRewards()
	if err != nil {
		return nil, nil, err
	}
	c, err := t.load()
	if err != nil {
		return nil, nil, err
	}
	c.promote(t.ctx.Now())
	t.checkpoint(saved(unlocked))
	return c, unlocked, nil
}

func keep(unlocked *uint256.Int) *uint256.Int { return unlocked }

// view returns the campaign as it stands now, with the next phase promoted.
func (t *TwoPhase) view() (*campaign, error) {
	c, err := t.load()
	if err != nil {
		return nil, err
	}
	c.promote(t.ctx.Now())
	return c, nil
}

func (t *TwoPhase) IsCampaignRunning() (bool, error) {
	c, err := t.view()
	if err != nil {
		return false, err
	}
	return t.ctx.Now() < c.Current.Finish, nil
}

// IsCampaignFinished reports whether a campaign ran and nothing is left to unlock.
func (t *TwoPhase) IsCampaignFinished() (bool, error) {
	c, err := t.view()
	if err != nil {
		return false, err
	}
	return c.Current.Finish != 0 && t.ctx.Now() >= c.Current.Finish, nil
}

func (t *TwoPhase) CanSetNextCampaign() (bool, error) {
	c, err := t.view()
	if err != nil {
		return false, err
	}
	return t.ctx.Now() < c.Current.Finish && !c.hasNext(), nil
}

func (t *TwoPhase) RestartRewards(caller sand.Address) error {
	if err := t.access.Check(OpRestartRewards, caller); err != nil {
		return err
	}
	zero := func(*uint256.Int) *uint256.Int { return new(uint256.Int) }
	c, consumed, err := t.settle(zero)
	if err != nil {
		return err
	}
	if err := t.store(c); err != nil {
		return err
	}
	return t.restart(consumed, new(uint256.Int))
}

func (t *TwoPhase) SetSavedRewards(caller sand.Address, value *uint256.Int) error {
	return t.setSaved(caller, value)
}

func checkCampaign(duration uint64) error {
	if duration == 0 {
		return reverts.Config("campaign duration is zero")
	}
	return nil
}

func (t *TwoPhase) emitCampaign(number uint64, reward *uint256.Int, duration, finish uint64) error {
	logger.Debug("campaign set", "calculator", t.Address(), "phase", number, "reward", reward, "duration", duration, "finish", finish)
	return t.ctx.Emit(eventCampaignSet, number, reward, duration, finish)
}

// RunCampaign starts a campaign distributing reward over duration. No
// campaign may be running.
func (t *TwoPhase) RunCampaign(caller sand.Address, reward *uint256.Int, duration uint64) error {
	if err := t.access.Check(OpRunCampaign, caller); err != nil {
		return err
	}
	if err := checkCampaign(duration); err != nil {
		return err
	}
	running, err := t.IsCampaignRunning()
	if err != nil {
		return err
	}
	if running {
		return reverts.Config("a campaign is running")
	}
	c, _, err := t.settle(keep)
	if err != nil {
		return err
	}
	now := t.ctx.Now()
	c.Current = phase{Rate: new(uint256.Int).Div(reward, uint256.NewInt(duration)), Finish: now + duration}
	c.Next = phase{Rate: new(uint256.Int)}
	if err := t.store(c); err != nil {
		return err
	}
	return t.emitCampaign(1, reward, duration, c.Current.Finish)
}

// UpdateCurrentCampaign restarts the running phase with reward plus its
// leftover over duration. A queued next phase moves along with it.
func (t *TwoPhase) UpdateCurrentCampaign(caller sand.Address, reward *uint256.Int, duration uint64) error {
	if err := t.access.Check(OpUpdateCurrentCampaign, caller); err != nil {
		return err
	}
	if err := checkCampaign(duration); err != nil {
		return err
	}
	running, err := t.IsCampaignRunning()
	if err != nil {
		return err
	}
	if !running {
		return reverts.Config("no campaign is running")
	}
	c, _, err := t.settle(keep)
	if err != nil {
		return err
	}
	now := t.ctx.Now()
	rate, err := blend(reward, c.Current.Rate, now, c.Current.Finish, duration)
	if err != nil {
		return err
	}
	finish := now + duration
	if c.hasNext() {
		c.Next.Finish = finish + (c.Next.Finish - c.Current.Finish)
	}
	c.Current = phase{Rate: rate, Finish: finish}
	if err := t.store(c); err != nil {
		return err
	}
	return t.emitCampaign(1, reward, duration, finish)
}

// SetNextCampaign queues a phase starting when the running one finishes.
func (t *TwoPhase) SetNextCampaign(caller sand.Address, reward *uint256.Int, duration uint64) error {
	if err := t.access.Check(OpSetNextCampaign, caller); err != nil {
		return err
	}
	if err := checkCampaign(duration); err != nil {
		return err
	}
	ok, err := t.CanSetNextCampaign()
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Config("next campaign can not be set")
	}
	return t.queueNext(reward, duration)
}

// UpdateNextCampaign replaces the queued phase.
func (t *TwoPhase) UpdateNextCampaign(caller sand.Address, reward *uint256.Int, duration uint64) error {
	if err := t.access.Check(OpUpdateNextCampaign, caller); err != nil {
		return err
	}
	if err := checkCampaign(duration); err != nil {
		return err
	}
	c, err := t.view()
	if err != nil {
		return err
	}
	if t.ctx.Now() >= c.Current.Finish || !c.hasNext() {
		return reverts.Config("no next campaign to update")
	}
	return t.queueNext(reward, duration)
}

func (t *TwoPhase) queueNext(reward *uint256.Int, duration uint64) error {
	c, _, err := t.settle(keep)
	if err != nil {
		return err
	}
	c.Next = phase{Rate: new(uint256.Int).Div(reward, uint256.NewInt(duration)), Finish: c.Current.Finish + duration}
	if err := t.store(c); err != nil {
		return err
	}
	return t.emitCampaign(2, reward, duration, c.Next.Finish)
}
