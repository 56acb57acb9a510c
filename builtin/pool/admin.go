// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/calculator"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/contribution"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/requirements"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Init sets the owner and the two tokens of a freshly deployed pool.
func (p *Pool) Init(owner, stakeToken, rewardToken sand.Address) error {
	if _, err := registry.Lookup[Token](p.registry, stakeToken); err != nil {
		return err
	}
	if _, err := registry.Lookup[Token](p.registry, rewardToken); err != nil {
		return err
	}
	if err := p.access.Init(owner); err != nil {
		return err
	}
	p.stakeToken.Set(stakeToken)
	p.rewardToken.Set(rewardToken)
	p.lastUpdate.Set(p.ctx.Now())
	return nil
}

// SetRewardCalculator replaces the reward calculator. Rewards owed by the old
// one are folded first, or carried by the pool when nobody is staking;
// restart discards what the new one has already unlocked.
func (p *Pool) SetRewardCalculator(caller, addr sand.Address, restart bool) error {
	if err := p.access.Check(OpSetRewardCalculator, caller); err != nil {
		return err
	}
	calc, err := registry.Lookup[calculator.Calculator](p.registry, addr)
	if err != nil {
		return err
	}
	if _, err := p.refresh(); err != nil {
		return err
	}
	if err := p.carryOver(); err != nil {
		return err
	}
	p.calculator.Set(addr)
	if restart {
		if err := calc.RestartRewards(p.Address()); err != nil {
			return errors.WithMessage(err, "restart rewards")
		}
	}
	logger.Info("reward calculator set", "pool", p.Address(), "calculator", addr, "restart", restart)
	return p.ctx.Emit(eventRewardCalculatorSet, addr, restart)
}

// SetContributionRules replaces the contribution engine, zero removes it.
// Stored contributions keep their value until recomputed.
func (p *Pool) SetContributionRules(caller, addr sand.Address) error {
	if err := p.access.Check(OpSetContributionRules, caller); err != nil {
		return err
	}
	if !addr.IsZero() {
		if _, err := registry.Lookup[contribution.Engine](p.registry, addr); err != nil {
			return err
		}
	}
	p.contributionRules.Set(addr)
	logger.Info("contribution rules set", "pool", p.Address(), "rules", addr)
	return p.ctx.Emit(eventContributionRules, addr)
}

// SetRequirementsRules replaces the requirements engine, zero removes it.
func (p *Pool) SetRequirementsRules(caller, addr sand.Address) error {
	if err := p.access.Check(OpSetRequirementsRules, caller); err != nil {
		return err
	}
	if !addr.IsZero() {
		if _, err := registry.Lookup[requirements.Engine](p.registry, addr); err != nil {
			return err
		}
	}
	p.requirementsRules.Set(addr)
	logger.Info("requirements rules set", "pool", p.Address(), "rules", addr)
	return p.ctx.Emit(eventRequirementsRules, addr)
}

// SetMaxStakeOverall caps the stake of every account, zero means unbounded.
func (p *Pool) SetMaxStakeOverall(caller sand.Address, amount *uint256.Int) error {
	if err := p.access.Check(OpSetMaxStakeOverall, caller); err != nil {
		return err
	}
	p.maxStakeOverall.Set(amount)
	logger.Info("max stake overall set", "pool", p.Address(), "amount", amount)
	return p.ctx.Emit(eventMaxStakeOverallSet, amount)
}

func (p *Pool) SetTimelockClaim(caller sand.Address, period uint64) error {
	if err := p.access.Check(OpSetTimelockClaim, caller); err != nil {
		return err
	}
	return p.locks.SetTimelockClaim(period)
}

func (p *Pool) SetTimelockDeposit(caller sand.Address, period uint64) error {
	if err := p.access.Check(OpSetTimelockDeposit, caller); err != nil {
		return err
	}
	return p.locks.SetTimelockDeposit(period)
}

func (p *Pool) SetTimeLockWithdraw(caller sand.Address, period uint64) error {
	if err := p.access.Check(OpSetTimeLockWithdraw, caller); err != nil {
		return err
	}
	return p.locks.SetTimeLockWithdraw(period)
}

func (p *Pool) SetAntiCompoundLockPeriod(caller sand.Address, period uint64) error {
	if err := p.access.Check(OpSetAntiCompoundLockPeriod, caller); err != nil {
		return err
	}
	return p.locks.SetAntiCompoundLockPeriod(period)
}

func (p *Pool) SetAmountLockClaim(caller sand.Address, amount *uint256.Int, enabled bool) error {
	if err := p.access.Check(OpSetAmountLockClaim, caller); err != nil {
		return err
	}
	return p.locks.SetAmountLockClaim(amount, enabled)
}

func (p *Pool) Pause(caller sand.Address) error {
	if err := p.access.Check(OpPause, caller); err != nil {
		return err
	}
	if err := p.whenNotPaused(); err != nil {
		return err
	}
	p.paused.Set(true)
	logger.Info("pool paused", "pool", p.Address(), "by", caller)
	return p.ctx.Emit(eventPaused, caller)
}

func (p *Pool) Unpause(caller sand.Address) error {
	if err := p.access.Check(OpUnpause, caller); err != nil {
		return err
	}
	paused, err := p.paused.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get paused")
	}
	if !paused {
		return reverts.Config("pool is not paused")
	}
	p.paused.Set(false)
	logger.Info("pool unpaused", "pool", p.Address(), "by", caller)
	return p.ctx.Emit(eventUnpaused, caller)
}

// RecoverFunds sends the reward token balance of a paused pool to dest.
// Staked tokens stay when the reward token is also the stake token.
func (p *Pool) RecoverFunds(caller, dest sand.Address) (*uint256.Int, error) {
	if err := p.access.Check(OpRecoverFunds, caller); err != nil {
		return nil, err
	}
	paused, err := p.paused.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paused")
	}
	if !paused {
		return nil, reverts.Config("funds can only be recovered while paused")
	}
	if dest.IsZero() {
		return nil, reverts.Config("invalid recovery address")
	}
	rewardToken, err := p.token(p.rewardToken, "reward")
	if err != nil {
		return nil, err
	}
	amount, err := rewardToken.BalanceOf(p.Address())
	if err != nil {
		return nil, err
	}
	stakeAddr, err := p.stakeToken.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake token")
	}
	if stakeAddr == rewardToken.Address() {
		staked, err := p.totalStaked.Get()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get total staked")
		}
		if amount.Lt(staked) {
			amount = new(uint256.Int)
		} else {
			amount = new(uint256.Int).Sub(amount, staked)
		}
	}
	if !amount.IsZero() {
		if err := rewardToken.Transfer(p.Address(), dest, amount); err != nil {
			return nil, err
		}
	}
	logger.Info("funds recovered", "pool", p.Address(), "dest", dest, "amount", amount)
	return amount, p.ctx.Emit(eventFundsRecovered, dest, amount)
}

// SetRewardToken swaps the reward token. The pool must hold at least as
// much of the new token as it holds of the old one.
func (p *Pool) SetRewardToken(caller, addr sand.Address) error {
	if err := p.access.Check(OpSetRewardToken, caller); err != nil {
		return err
	}
	next, err := registry.Lookup[Token](p.registry, addr)
	if err != nil {
		return err
	}
	prev, err := p.token(p.rewardToken, "reward")
	if err != nil {
		return err
	}
	owed, err := prev.BalanceOf(p.Address())
	if err != nil {
		return err
	}
	if err := p.requireHolding(next, owed); err != nil {
		return err
	}
	p.rewardToken.Set(addr)
	logger.Info("reward token set", "pool", p.Address(), "token", addr)
	return p.ctx.Emit(eventRewardTokenSet, addr)
}

// SetStakeToken swaps the stake token. The pool must hold the whole
// staked amount in the new token.
func (p *Pool) SetStakeToken(caller, addr sand.Address) error {
	if err := p.access.Check(OpSetStakeToken, caller); err != nil {
		return err
	}
	next, err := registry.Lookup[Token](p.registry, addr)
	if err != nil {
		return err
	}
	staked, err := p.totalStaked.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get total staked")
	}
	if err := p.requireHolding(next, staked); err != nil {
		return err
	}
	p.stakeToken.Set(addr)
	logger.Info("stake token set", "pool", p.Address(), "token", addr)
	return p.ctx.Emit(eventStakeTokenSet, addr)
}

func (p *Pool) requireHolding(tok Token, want *uint256.Int) error {
	held, err := tok.BalanceOf(p.Address())
	if err != nil {
		return err
	}
	if held.Lt(want) {
		return reverts.Balance("pool holds %v of %v, need %v", held.Dec(), tok.Address(), want.Dec())
	}
	return nil
}

// SetTrustedForwarder sets the meta-transaction forwarder, zero disables forwarding.
func (p *Pool) SetTrustedForwarder(caller, addr sand.Address) error {
	if err := p.access.Check(OpSetTrustedForwarder, caller); err != nil {
		return err
	}
	if !addr.IsZero() {
		if _, err := registry.Lookup[registry.Contract](p.registry, addr); err != nil {
			return err
		}
	}
	p.trustedForwarder.Set(addr)
	logger.Info("trusted forwarder set", "pool", p.Address(), "forwarder", addr)
	return p.ctx.Emit(eventTrustedForwarderSet, addr)
}

func (p *Pool) TransferOwnership(caller, newOwner sand.Address) error {
	return p.access.TransferOwnership(caller, newOwner)
}

// RenounceOwnership always fails, a pool keeps an owner.
func (p *Pool) RenounceOwnership(caller sand.Address) error {
	return p.access.RenounceOwnership(caller)
}
