// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

func (p *Pool) whenNotPaused() error {
	paused, err := p.paused.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get paused")
	}
	if paused {
		return reverts.Paused("pool is paused")
	}
	return nil
}

// begin runs the common prologue of account operations: the accumulator is
// refreshed and the account settled against it.
func (p *Pool) begin(account sand.Address) (*Account, error) {
	if err := p.whenNotPaused(); err != nil {
		return nil, err
	}
	rpc, err := p.refresh()
	if err != nil {
		return nil, err
	}
	acc, err := p.getAccount(account)
	if err != nil {
		return nil, err
	}
	if err := settle(acc, rpc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (p *Pool) checkRequirements(account sand.Address, total *uint256.Int) error {
	overall, err := p.maxStakeOverall.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get max stake overall")
	}
	rules, ok, err := p.requirementsEngine()
	if err != nil {
		return err
	}
	if ok {
		return rules.CheckStake(account, total, overall)
	}
	if !overall.IsZero() && total.Gt(overall) {
		return reverts.Requirements(reverts.SubMaxAllowed, "stake %v above allowed %v", total.Dec(), overall.Dec())
	}
	return nil
}

// MaxStake returns the largest total stake account may hold.
func (p *Pool) MaxStake(account sand.Address) (*uint256.Int, error) {
	overall, err := p.maxStakeOverall.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get max stake overall")
	}
	rules, ok, err := p.requirementsEngine()
	if err != nil {
		return nil, err
	}
	if ok {
		return rules.MaxStake(account, overall)
	}
	if overall.IsZero() {
		return new(uint256.Int).SetAllOne(), nil
	}
	return overall, nil
}

func (p *Pool) addStakers(joined bool) error {
	n, err := p.stakers.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get stakers")
	}
	delta := int64(1)
	if joined {
		p.stakers.Set(n + 1)
	} else {
		p.stakers.Set(n - 1)
		delta = -1
	}
	p.ctx.AfterCall(func() { metricStakers().Add(delta) })
	return nil
}

// Stake pulls amount of the stake token from caller, who must have approved the pool.
func (p *Pool) Stake(caller sand.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.Config("cannot stake 0")
	}
	acc, err := p.begin(caller)
	if err != nil {
		return err
	}
	if err := p.locks.CheckDeposit(caller); err != nil {
		return err
	}
	staked, overflow := new(uint256.Int).AddOverflow(acc.Staked, amount)
	if overflow {
		return reverts.Overflow("stake overflow")
	}
	if err := p.checkRequirements(caller, staked); err != nil {
		return err
	}

	stakeToken, err := p.token(p.stakeToken, "stake")
	if err != nil {
		return err
	}
	if _, err := p.totalStaked.Add(amount); err != nil {
		return err
	}
	if acc.Staked.IsZero() {
		if err := p.addStakers(true); err != nil {
			return err
		}
	}
	acc.Staked = staked
	if err := stakeToken.TransferFrom(p.Address(), caller, p.Address(), amount); err != nil {
		return err
	}
	if err := p.recompute(caller, acc); err != nil {
		return err
	}
	if err := p.locks.RecordDeposit(caller); err != nil {
		return err
	}
	if err := p.setAccount(caller, acc); err != nil {
		return err
	}
	p.countOp("stake")
	logger.Debug("staked", "pool", p.Address(), "account", caller, "amount", amount, "staked", staked)
	return p.ctx.Emit(eventStaked, caller, amount)
}

// Withdraw returns amount of stake to caller.
func (p *Pool) Withdraw(caller sand.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.Config("cannot withdraw 0")
	}
	acc, err := p.begin(caller)
	if err != nil {
		return err
	}
	return p.withdraw(caller, acc, amount)
}

func (p *Pool) withdraw(caller sand.Address, acc *Account, amount *uint256.Int) error {
	if err := p.locks.CheckWithdraw(caller); err != nil {
		return err
	}
	if acc.Staked.Lt(amount) {
		return reverts.Balance("withdraw %v above staked %v", amount.Dec(), acc.Staked.Dec())
	}
	stakeToken, err := p.token(p.stakeToken, "stake")
	if err != nil {
		return err
	}
	if _, err := p.totalStaked.Sub(amount); err != nil {
		return err
	}
	acc.Staked = new(uint256.Int).Sub(acc.Staked, amount)
	if acc.Staked.IsZero() {
		if err := p.addStakers(false); err != nil {
			return err
		}
	}
	if err := stakeToken.Transfer(p.Address(), caller, amount); err != nil {
		return err
	}
	if err := p.recompute(caller, acc); err != nil {
		return err
	}
	if err := p.locks.RecordWithdraw(caller); err != nil {
		return err
	}
	if err := p.setAccount(caller, acc); err != nil {
		return err
	}
	p.countOp("withdraw")
	logger.Debug("withdrawn", "pool", p.Address(), "account", caller, "amount", amount, "staked", acc.Staked)
	return p.ctx.Emit(eventWithdrawn, caller, amount)
}

// GetReward pays the accrued rewards of caller and returns the paid amount.
func (p *Pool) GetReward(caller sand.Address) (*uint256.Int, error) {
	acc, err := p.begin(caller)
	if err != nil {
		return nil, err
	}
	return p.claim(caller, acc)
}

func (p *Pool) claim(caller sand.Address, acc *Account) (*uint256.Int, error) {
	reward := acc.RewardsAccrued
	if reward.IsZero() {
		return reward, p.setAccount(caller, acc)
	}
	if err := p.locks.CheckClaim(caller, reward); err != nil {
		return nil, err
	}
	rewardToken, err := p.token(p.rewardToken, "reward")
	if err != nil {
		return nil, err
	}
	acc.RewardsAccrued = new(uint256.Int)
	if err := rewardToken.Transfer(p.Address(), caller, reward); err != nil {
		return nil, err
	}
	if err := p.locks.RecordClaim(caller); err != nil {
		return nil, err
	}
	if err := p.setAccount(caller, acc); err != nil {
		return nil, err
	}
	p.countOp("claim")
	p.ctx.AfterCall(func() { metricRewardsPaid().Add(1) })
	logger.Debug("reward paid", "pool", p.Address(), "account", caller, "reward", reward)
	return reward, p.ctx.Emit(eventRewardPaid, caller, reward)
}

// Exit withdraws the whole stake and claims the rewards of caller.
// The withdraw lock applies even when nothing is staked.
func (p *Pool) Exit(caller sand.Address) (*uint256.Int, error) {
	acc, err := p.begin(caller)
	if err != nil {
		return nil, err
	}
	if err := p.locks.CheckWithdraw(caller); err != nil {
		return nil, err
	}
	if !acc.Staked.IsZero() {
		if err := p.withdraw(caller, acc, acc.Staked); err != nil {
			return nil, err
		}
	}
	return p.claim(caller, acc)
}

// ComputeContribution recomputes the contribution of account from its
// current holdings. Rewards up to now are settled with the old contribution.
// Anyone may trigger it, caller is only logged.
func (p *Pool) ComputeContribution(caller, account sand.Address) error {
	acc, err := p.begin(account)
	if err != nil {
		return err
	}
	if err := p.recompute(account, acc); err != nil {
		return err
	}
	p.countOp("computeContribution")
	logger.Debug("contribution computed", "pool", p.Address(), "caller", caller, "account", account, "contribution", acc.Contribution)
	return p.setAccount(account, acc)
}

// ComputeContributionInBatch applies ComputeContribution to every account
// against a single accumulator refresh. Like ComputeContribution it is open
// to any caller.
func (p *Pool) ComputeContributionInBatch(caller sand.Address, accounts []sand.Address) error {
	if err := p.whenNotPaused(); err != nil {
		return err
	}
	rpc, err := p.refresh()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		acc, err := p.getAccount(account)
		if err != nil {
			return err
		}
		if err := settle(acc, rpc); err != nil {
			return err
		}
		if err := p.recompute(account, acc); err != nil {
			return err
		}
		if err := p.setAccount(account, acc); err != nil {
			return err
		}
	}
	p.countOp("computeContributionInBatch")
	logger.Debug("contributions computed", "pool", p.Address(), "caller", caller, "accounts", len(accounts))
	return nil
}
