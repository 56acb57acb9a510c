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
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// resolve looks up the contract stored in slot, the zero value when unset.
func resolve[T any](p *Pool, slot *solidity.Address) (T, bool, error) {
	var zero T
	addr, err := slot.Get()
	if err != nil {
		return zero, false, errors.Wrap(err, "failed to get address")
	}
	if addr.IsZero() {
		return zero, false, nil
	}
	c, err := registry.Lookup[T](p.registry, addr)
	if err != nil {
		return zero, false, err
	}
	return c, true, nil
}

func (p *Pool) calculatorEngine() (calculator.Calculator, bool, error) {
	return resolve[calculator.Calculator](p, p.calculator)
}

func (p *Pool) contributionEngine() (contribution.Engine, bool, error) {
	return resolve[contribution.Engine](p, p.contributionRules)
}

func (p *Pool) requirementsEngine() (requirements.Engine, bool, error) {
	return resolve[requirements.Engine](p, p.requirementsRules)
}

func (p *Pool) token(slot *solidity.Address, what string) (Token, error) {
	tok, ok, err := resolve[Token](p, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.Config("%s token is not set", what)
	}
	return tok, nil
}

// unlocked returns the rewards owed to stakers: the carry left by replaced
// calculators plus what the current calculator has unlocked.
func (p *Pool) unlocked() (calculator.Calculator, *uint256.Int, error) {
	carried, err := p.carried.Get()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get carried rewards")
	}
	calc, ok, err := p.calculatorEngine()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, carried, nil
	}
	rewards, err := calc.GetRewards()
	if err != nil {
		return nil, nil, err
	}
	sum, overflow := new(uint256.Int).AddOverflow(carried, rewards)
	if overflow {
		return nil, nil, reverts.Overflow("unlocked rewards overflow")
	}
	return calc, sum, nil
}

// pending returns the accumulator increase currently owed.
func (p *Pool) pending() (calculator.Calculator, *uint256.Int, error) {
	delta := new(uint256.Int)
	total, err := p.totalContributions.Get()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get total contributions")
	}
	// nothing is consumed while empty, unlocked rewards roll over to the next contribution
	if total.IsZero() {
		return nil, delta, nil
	}
	calc, rewards, err := p.unlocked()
	if err != nil {
		return nil, nil, err
	}
	if rewards.IsZero() {
		return calc, delta, nil
	}
	if _, overflow := delta.MulDivOverflow(rewards, sand.Precision, total); overflow {
		return nil, nil, reverts.Overflow("reward per contribution overflow")
	}
	return calc, delta, nil
}

// refresh folds the unlocked rewards into the accumulator and restarts the
// calculator once they are consumed.
func (p *Pool) refresh() (*uint256.Int, error) {
	calc, delta, err := p.pending()
	if err != nil {
		return nil, err
	}
	rpc, err := p.rewardPerContrib.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward per contribution")
	}
	if !delta.IsZero() {
		if rpc, err = p.rewardPerContrib.Add(delta); err != nil {
			return nil, err
		}
		p.carried.Set(new(uint256.Int))
		if calc != nil {
			if err := calc.RestartRewards(p.Address()); err != nil {
				return nil, errors.WithMessage(err, "restart rewards")
			}
		}
	}
	p.lastUpdate.Set(p.ctx.Now())
	return rpc, nil
}

// carryOver moves what the current calculator still holds unlocked into the
// pool, so replacing it strands nothing. That happens when the pool is empty
// or the fold truncated to zero.
func (p *Pool) carryOver() error {
	calc, ok, err := p.calculatorEngine()
	if err != nil || !ok {
		return err
	}
	rewards, err := calc.GetRewards()
	if err != nil {
		return err
	}
	if rewards.IsZero() {
		return nil
	}
	if _, err := p.carried.Add(rewards); err != nil {
		return err
	}
	if err := calc.RestartRewards(p.Address()); err != nil {
		return errors.WithMessage(err, "restart rewards")
	}
	logger.Info("rewards carried over", "pool", p.Address(), "calculator", calc.Address(), "rewards", rewards)
	return nil
}

// earnedAt returns the rewards of acc against the accumulator value rpc.
func earnedAt(acc *Account, rpc *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(rpc, acc.RewardPerContributionPaid)
	if underflow {
		return nil, reverts.Overflow("accumulator below checkpoint")
	}
	owed, overflow := new(uint256.Int).MulDivOverflow(acc.Contribution, diff, sand.Precision)
	if overflow {
		return nil, reverts.Overflow("earned overflow")
	}
	total, overflow := owed.AddOverflow(owed, acc.RewardsAccrued)
	if overflow {
		return nil, reverts.Overflow("earned overflow")
	}
	return total, nil
}

// settle accrues the rewards of acc up to rpc with its current contribution.
func settle(acc *Account, rpc *uint256.Int) error {
	earned, err := earnedAt(acc, rpc)
	if err != nil {
		return err
	}
	acc.RewardsAccrued = earned
	acc.RewardPerContributionPaid = new(uint256.Int).Set(rpc)
	return nil
}

// RewardPerContribution returns the accumulator including what the calculator owes now.
func (p *Pool) RewardPerContribution() (*uint256.Int, error) {
	_, delta, err := p.pending()
	if err != nil {
		return nil, err
	}
	rpc, err := p.rewardPerContrib.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward per contribution")
	}
	v, overflow := delta.AddOverflow(delta, rpc)
	if overflow {
		return nil, reverts.Overflow("reward per contribution overflow")
	}
	return v, nil
}

// Earned returns the claimable rewards of account as of now.
func (p *Pool) Earned(account sand.Address) (*uint256.Int, error) {
	rpc, err := p.RewardPerContribution()
	if err != nil {
		return nil, err
	}
	acc, err := p.getAccount(account)
	if err != nil {
		return nil, err
	}
	return earnedAt(acc, rpc)
}

// computeContribution applies the contribution rules, the stake itself when none are set.
func (p *Pool) computeContribution(account sand.Address, staked *uint256.Int) (*uint256.Int, error) {
	rules, ok, err := p.contributionEngine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(uint256.Int).Set(staked), nil
	}
	return rules.ComputeContribution(account, staked)
}

// recompute refreshes the contribution of a settled account and keeps the total in sync.
func (p *Pool) recompute(account sand.Address, acc *Account) error {
	updated, err := p.computeContribution(account, acc.Staked)
	if err != nil {
		return err
	}
	old := acc.Contribution
	if updated.Eq(old) {
		return nil
	}
	total, err := p.totalContributions.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get total contributions")
	}
	next, underflow := new(uint256.Int).SubOverflow(total, old)
	if underflow {
		return reverts.Overflow("total contributions below account contribution")
	}
	if _, overflow := next.AddOverflow(next, updated); overflow {
		return reverts.Overflow("total contributions overflow")
	}
	p.totalContributions.Set(next)
	acc.Contribution = updated

	if total.IsZero() != next.IsZero() {
		to := zeroLabel(next)
		p.ctx.AfterCall(func() { metricZeroCrossings().AddWithLabel(1, map[string]string{"to": to}) })
		logger.Debug("total contributions crossed zero", "pool", p.Address(), "total", next)
	}
	logger.Debug("contribution updated", "pool", p.Address(), "account", account, "old", old, "new", updated)
	return p.ctx.Emit(eventContributionUpdated, account, updated, old)
}

func zeroLabel(v *uint256.Int) string {
	if v.IsZero() {
		return "empty"
	}
	return "filled"
}
